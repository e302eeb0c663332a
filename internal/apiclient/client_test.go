package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/observability"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*Client, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		mu.Lock()
		seen = append(seen, rec)
		mu.Unlock()
		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	requests := func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
	return NewClient(srv.URL+"/v1/saep/", srv.Client(), observability.NewMetrics()), requests
}

func writeJSON(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestListAcceptsEveryEnvelopeShape(t *testing.T) {
	client, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /v1/saep/produtos":    writeJSON(`{"data":[{"id":1,"nome":"Phone","preco":1000,"estoque":5,"idcategoria":1}]}`),
		"GET /v1/saep/categorias":  writeJSON(`{"categorias":[{"id":1,"nomecategoria":"Eletrônicos"}]}`),
		"GET /v1/saep/fabricantes": writeJSON(`[{"id":1,"nomefabricante":"Acme","paisorigem":"Brasil"}]`),
		"GET /v1/saep/estoques":    writeJSON(`{"message":"ok"}`),
	})
	ctx := context.Background()

	products, err := client.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Phone", products[0].Name)

	categories, err := client.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Eletrônicos", categories[0].Name)

	manufacturers, err := client.ListManufacturers(ctx)
	require.NoError(t, err)
	require.Len(t, manufacturers, 1)
	assert.Equal(t, "Brasil", manufacturers[0].Country)

	stock, err := client.ListStock(ctx)
	require.NoError(t, err)
	assert.NotNil(t, stock)
	assert.Empty(t, stock)
}

func TestListFailsOnStatusAndMalformedBody(t *testing.T) {
	client, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /v1/saep/produtos":   writeJSON(`{"data":[{"id":`),
		"GET /v1/saep/categorias": func(w http.ResponseWriter, r *http.Request) { http.Error(w, "down", http.StatusBadGateway) },
	})
	ctx := context.Background()

	_, err := client.ListProducts(ctx)
	require.Error(t, err)

	_, err = client.ListCategories(ctx)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	assert.Equal(t, "/categorias", statusErr.Path)
}

func TestWritesUseVerbAndPathPerEntity(t *testing.T) {
	client, seen := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /v1/saep/produto": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"data":{"id":42,"nome":"Tablet"}}`)
		},
		"PUT /v1/saep/categoria/3":      writeJSON(`{"ok":true}`),
		"DELETE /v1/saep/estoque/9":     func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
		"DELETE /v1/saep/fabricante/2":  func(w http.ResponseWriter, r *http.Request) { http.Error(w, `{"message":"Fabricante em uso"}`, http.StatusConflict) },
		"PUT /v1/saep/ficha-tecnica/7":  writeJSON(`{}`),
		"POST /v1/saep/ficha-tecnica":   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) },
	})
	ctx := context.Background()

	id, err := client.Create(ctx, Products, Payload{"nome": "Tablet", "preco": "10.00"})
	require.NoError(t, err)
	assert.Equal(t, catalog.ID(42), id)

	require.NoError(t, client.Update(ctx, Categories, 3, Payload{"nomecategoria": "Áudio"}))
	require.NoError(t, client.Delete(ctx, Stock, 9))
	require.NoError(t, client.Update(ctx, SpecSheets, 7, Payload{"valor": "8GB"}))

	id, err = client.Create(ctx, SpecSheets, Payload{"produtoId": 1})
	require.NoError(t, err)
	assert.Equal(t, catalog.ID(0), id)

	err = client.Delete(ctx, Manufacturers, 2)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.Status)
	assert.Equal(t, "Fabricante em uso", statusErr.Message)

	requests := seen()
	require.Len(t, requests, 6)
	assert.Equal(t, "Tablet", requests[0].Body["nome"])
	assert.Equal(t, "Áudio", requests[1].Body["nomecategoria"])

	assert.Error(t, client.Update(ctx, Products, 0, Payload{}))
	assert.Error(t, client.Delete(ctx, Products, 0))
}

func TestSpecSheetEndpoints(t *testing.T) {
	client, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /v1/saep/ficha-tecnica/produto/1": writeJSON(`{"data":[{"id":5,"produtoId":1,"especificacao":"RAM","valor":"8GB"}]}`),
		"GET /v1/saep/ficha-tecnica/5":         writeJSON(`{"data":{"id":5,"produtoId":1,"especificacao":"RAM","valor":"8GB"}}`),
		"GET /v1/saep/ficha-tecnica/6":         writeJSON(`{"id":6,"produtoId":"2","especificacao":"Cor","valor":"Preto"}`),
	})
	ctx := context.Background()

	entries, err := client.SpecSheetsByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "RAM", entries[0].Label)

	entry, err := client.SpecSheet(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "8GB", entry.Value)

	entry, err = client.SpecSheet(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, catalog.ID(2), entry.ProductID)

	_, err = client.SpecSheet(ctx, 99)
	assert.True(t, IsNotFound(err))
}

func TestItemPath(t *testing.T) {
	assert.Equal(t, "/produto", Products.ItemPath(0))
	assert.Equal(t, "/ficha-tecnica/3", SpecSheets.ItemPath(3))
}
