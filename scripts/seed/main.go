package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/saep/inventory-console/internal/apiclient"
	"github.com/saep/inventory-console/internal/catalog"
)

func main() {
	baseURL := getenv("INVENTORY_API_URL", "http://localhost:8080/v1/saep")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	api := apiclient.NewClient(baseURL, &http.Client{Timeout: 10 * time.Second}, nil)

	fmt.Println("→ Seeding categories...")
	categories, err := seedNamed(ctx, api, apiclient.Categories, []apiclient.Payload{
		{"nomecategoria": "Eletrônicos"},
		{"nomecategoria": "Informática"},
		{"nomecategoria": "Áudio"},
	})
	if err != nil {
		log.Fatalf("seed categories: %v", err)
	}

	fmt.Println("→ Seeding manufacturers...")
	manufacturers, err := seedNamed(ctx, api, apiclient.Manufacturers, []apiclient.Payload{
		{"nomefabricante": "Samsung", "paisorigem": "Coreia do Sul"},
		{"nomefabricante": "Positivo", "paisorigem": "Brasil"},
		{"nomefabricante": "JBL", "paisorigem": "Estados Unidos"},
	})
	if err != nil {
		log.Fatalf("seed manufacturers: %v", err)
	}

	fmt.Println("→ Seeding products...")
	products, err := seedNamed(ctx, api, apiclient.Products, []apiclient.Payload{
		{"nome": "Smartphone Galaxy", "preco": json.Number("1899.90"), "estoque": 12, "idcategoria": categories[0], "idfabricante": manufacturers[0]},
		{"nome": "Notebook Motion", "preco": json.Number("2499.00"), "estoque": 4, "idcategoria": categories[1], "idfabricante": manufacturers[1]},
		{"nome": "Caixa de Som Flip", "preco": json.Number("599.99"), "estoque": 30, "idcategoria": categories[2], "idfabricante": manufacturers[2]},
	})
	if err != nil {
		log.Fatalf("seed products: %v", err)
	}

	fmt.Println("→ Seeding stock...")
	// The second record starts below its minimum so the dashboard shows an alert.
	if _, err := seedNamed(ctx, api, apiclient.Stock, []apiclient.Payload{
		{"idProduto": products[0], "quantidadeAtual": 12, "estoqueMinimo": 5},
		{"idProduto": products[1], "quantidadeAtual": 2, "estoqueMinimo": 5},
		{"idProduto": products[2], "quantidadeAtual": 30, "estoqueMinimo": 10},
	}); err != nil {
		log.Fatalf("seed stock: %v", err)
	}

	fmt.Println("→ Seeding spec sheets...")
	if _, err := seedNamed(ctx, api, apiclient.SpecSheets, []apiclient.Payload{
		{"produtoId": products[0], "especificacao": "Memória RAM", "valor": "8GB"},
		{"produtoId": products[0], "especificacao": "Armazenamento", "valor": "256GB"},
		{"produtoId": products[1], "especificacao": "Processador", "valor": "Intel Core i5"},
	}); err != nil {
		log.Fatalf("seed spec sheets: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

// seedNamed creates each payload and returns the assigned identities in order.
func seedNamed(ctx context.Context, api *apiclient.Client, res apiclient.Resource, payloads []apiclient.Payload) ([]catalog.ID, error) {
	ids := make([]catalog.ID, 0, len(payloads))
	for _, p := range payloads {
		id, err := api.Create(ctx, res, p)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			return nil, fmt.Errorf("%s: api did not return an id", res.Name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
