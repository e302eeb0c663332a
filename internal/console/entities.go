package console

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saep/inventory-console/internal/apiclient"
	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/navigation"
	"github.com/saep/inventory-console/internal/store"
)

// entity describes one editable collection: where it lives on the API, which
// section lists it and the texts its modals and toasts use.
type entity struct {
	kind     string
	section  string
	resource apiclient.Resource
	fields   []string

	newTitle     string
	editTitle    string
	confirmText  string
	saved        string
	saveFailed   string
	deleted      string
	deleteFailed string

	// bind converts submitted values into a validatable input.
	bind func(values map[string]string) (input, fieldErrors)
	// values reads an existing entity from the snapshot for the edit form.
	values func(s store.Snapshot, id catalog.ID) (map[string]string, bool)
}

// input is a bound form ready for validation and submission.
type input interface {
	payload() apiclient.Payload
}

type fieldErrors map[string]string

var entities = []*entity{
	{
		kind:         store.KindProduct,
		section:      navigation.SectionProducts,
		resource:     apiclient.Products,
		fields:       []string{"nome", "preco", "estoque", "idcategoria", "idfabricante"},
		newTitle:     "Novo Produto",
		editTitle:    "Editar Produto",
		confirmText:  "Tem certeza que deseja deletar este produto?",
		saved:        "Produto salvo com sucesso",
		saveFailed:   "Erro ao salvar produto",
		deleted:      "Produto deletado",
		deleteFailed: "Erro ao deletar",
		bind:         bindProduct,
		values:       productValues,
	},
	{
		kind:         store.KindStock,
		section:      navigation.SectionStock,
		resource:     apiclient.Stock,
		fields:       []string{"idProduto", "quantidadeAtual", "estoqueMinimo"},
		newTitle:     "Novo Estoque",
		editTitle:    "Editar Estoque",
		confirmText:  "Tem certeza?",
		saved:        "Estoque salvo com sucesso",
		saveFailed:   "Erro ao salvar estoque",
		deleted:      "Estoque deletado",
		deleteFailed: "Erro ao deletar",
		bind:         bindStock,
		values:       stockValues,
	},
	{
		kind:         store.KindCategory,
		section:      navigation.SectionCategories,
		resource:     apiclient.Categories,
		fields:       []string{"nomecategoria"},
		newTitle:     "Nova Categoria",
		editTitle:    "Editar Categoria",
		confirmText:  "Tem certeza que deseja deletar esta categoria?",
		saved:        "Categoria salva com sucesso",
		saveFailed:   "Erro ao salvar categoria",
		deleted:      "Categoria deletada com sucesso",
		deleteFailed: "Erro ao deletar categoria",
		bind:         bindCategory,
		values:       categoryValues,
	},
	{
		kind:         store.KindManufacturer,
		section:      navigation.SectionManufacturers,
		resource:     apiclient.Manufacturers,
		fields:       []string{"nomefabricante", "paisorigem"},
		newTitle:     "Novo Fabricante",
		editTitle:    "Editar Fabricante",
		confirmText:  "Tem certeza?",
		saved:        "Fabricante salvo",
		saveFailed:   "Erro ao salvar",
		deleted:      "Fabricante deletado",
		deleteFailed: "Erro ao deletar",
		bind:         bindManufacturer,
		values:       manufacturerValues,
	},
	{
		kind:         store.KindSpecSheet,
		section:      navigation.SectionSpecSheets,
		resource:     apiclient.SpecSheets,
		fields:       []string{"produtoId", "especificacao", "valor"},
		newTitle:     "Nova Ficha Técnica",
		editTitle:    "Editar Ficha Técnica",
		confirmText:  "Tem certeza?",
		saved:        "Ficha técnica salva",
		saveFailed:   "Erro ao salvar",
		deleted:      "Ficha técnica deletada",
		deleteFailed: "Erro ao deletar",
		bind:         bindSpecSheet,
	},
}

// formValues collects the entity's fields from a parsed form, trimmed.
func (e *entity) formValues(form url.Values) map[string]string {
	values := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		values[f] = strings.TrimSpace(form.Get(f))
	}
	return values
}

type productInput struct {
	Name           string          `form:"nome" validate:"required"`
	Price          decimal.Decimal `form:"preco" validate:"gte=0"`
	Stock          int64           `form:"estoque" validate:"gte=0"`
	CategoryID     catalog.ID      `form:"idcategoria" validate:"required"`
	ManufacturerID catalog.ID      `form:"idfabricante" validate:"required"`
}

func (in productInput) payload() apiclient.Payload {
	return apiclient.Payload{
		"nome":         in.Name,
		"preco":        json.Number(in.Price.String()),
		"estoque":      in.Stock,
		"idcategoria":  in.CategoryID,
		"idfabricante": in.ManufacturerID,
	}
}

func bindProduct(v map[string]string) (input, fieldErrors) {
	errs := fieldErrors{}
	in := productInput{
		Name:           v["nome"],
		Price:          parseDecimal(v, "preco", errs),
		Stock:          parseInt(v, "estoque", errs),
		CategoryID:     parseRef(v, "idcategoria", errs),
		ManufacturerID: parseRef(v, "idfabricante", errs),
	}
	return in, errs
}

func productValues(s store.Snapshot, id catalog.ID) (map[string]string, bool) {
	p, ok := catalog.FindProduct(s.Products, id)
	if !ok {
		return nil, false
	}
	return map[string]string{
		"nome":         p.Name,
		"preco":        p.Price.String(),
		"estoque":      strconv.FormatInt(int64(p.Stock), 10),
		"idcategoria":  refString(p.CategoryID),
		"idfabricante": refString(p.ManufacturerID),
	}, true
}

type stockInput struct {
	ProductID catalog.ID `form:"idProduto" validate:"required"`
	Current   int64      `form:"quantidadeAtual" validate:"gte=0"`
	Minimum   int64      `form:"estoqueMinimo" validate:"gte=0"`
}

func (in stockInput) payload() apiclient.Payload {
	return apiclient.Payload{
		"idProduto":       in.ProductID,
		"quantidadeAtual": in.Current,
		"estoqueMinimo":   in.Minimum,
	}
}

func bindStock(v map[string]string) (input, fieldErrors) {
	errs := fieldErrors{}
	in := stockInput{
		ProductID: parseRef(v, "idProduto", errs),
		Current:   parseInt(v, "quantidadeAtual", errs),
		Minimum:   parseInt(v, "estoqueMinimo", errs),
	}
	return in, errs
}

func stockValues(s store.Snapshot, id catalog.ID) (map[string]string, bool) {
	rec, ok := catalog.FindStockRecord(s.Stock, id)
	if !ok {
		return nil, false
	}
	return map[string]string{
		"idProduto":       refString(rec.ProductID),
		"quantidadeAtual": strconv.FormatInt(int64(rec.Current), 10),
		"estoqueMinimo":   strconv.FormatInt(int64(rec.Minimum), 10),
	}, true
}

type categoryInput struct {
	Name string `form:"nomecategoria" validate:"required"`
}

func (in categoryInput) payload() apiclient.Payload {
	return apiclient.Payload{"nomecategoria": in.Name}
}

func bindCategory(v map[string]string) (input, fieldErrors) {
	return categoryInput{Name: v["nomecategoria"]}, fieldErrors{}
}

func categoryValues(s store.Snapshot, id catalog.ID) (map[string]string, bool) {
	c, ok := catalog.FindCategory(s.Categories, id)
	if !ok {
		return nil, false
	}
	return map[string]string{"nomecategoria": c.Name}, true
}

type manufacturerInput struct {
	Name    string `form:"nomefabricante" validate:"required"`
	Country string `form:"paisorigem" validate:"required"`
}

func (in manufacturerInput) payload() apiclient.Payload {
	return apiclient.Payload{"nomefabricante": in.Name, "paisorigem": in.Country}
}

func bindManufacturer(v map[string]string) (input, fieldErrors) {
	return manufacturerInput{Name: v["nomefabricante"], Country: v["paisorigem"]}, fieldErrors{}
}

func manufacturerValues(s store.Snapshot, id catalog.ID) (map[string]string, bool) {
	m, ok := catalog.FindManufacturer(s.Manufacturers, id)
	if !ok {
		return nil, false
	}
	return map[string]string{"nomefabricante": m.Name, "paisorigem": m.Country}, true
}

type specSheetInput struct {
	ProductID catalog.ID `form:"produtoId" validate:"required"`
	Label     string     `form:"especificacao" validate:"required"`
	Value     string     `form:"valor" validate:"required"`
}

func (in specSheetInput) payload() apiclient.Payload {
	return apiclient.Payload{
		"produtoId":     in.ProductID,
		"especificacao": in.Label,
		"valor":         in.Value,
	}
}

func bindSpecSheet(v map[string]string) (input, fieldErrors) {
	errs := fieldErrors{}
	in := specSheetInput{
		ProductID: parseRef(v, "produtoId", errs),
		Label:     v["especificacao"],
		Value:     v["valor"],
	}
	return in, errs
}

func specSheetValues(entry catalog.SpecSheetEntry) map[string]string {
	return map[string]string{
		"produtoId":     refString(entry.ProductID),
		"especificacao": entry.Label,
		"valor":         entry.Value,
	}
}

const (
	msgRequired = "Campo obrigatório"
	msgNumber   = "Informe um número válido"
	msgMin      = "O valor não pode ser negativo"
)

func parseDecimal(v map[string]string, key string, errs fieldErrors) decimal.Decimal {
	raw := strings.ReplaceAll(v[key], ",", ".")
	if raw == "" {
		errs[key] = msgRequired
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs[key] = msgNumber
		return decimal.Zero
	}
	return d
}

func parseInt(v map[string]string, key string, errs fieldErrors) int64 {
	raw := v[key]
	if raw == "" {
		errs[key] = msgRequired
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs[key] = msgNumber
		return 0
	}
	return n
}

// parseRef reads a select value. Blank is left to the required rule.
func parseRef(v map[string]string, key string, errs fieldErrors) catalog.ID {
	id, err := catalog.ParseID(v[key])
	if err != nil {
		errs[key] = msgNumber
		return 0
	}
	return id
}

func refString(id catalog.ID) string {
	if id == 0 {
		return ""
	}
	return id.String()
}
