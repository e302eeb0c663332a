package apiclient

import "github.com/saep/inventory-console/internal/catalog"

// Resource describes where an entity lives on the inventory API.
type Resource struct {
	// Name is the singular path segment, also used as the metrics label.
	Name string
	// ListPath serves the collection; empty when the API has no flat listing.
	ListPath string
	// Alias is the entity specific envelope key some list endpoints use instead of "data".
	Alias string
}

// Known resources.
var (
	Products      = Resource{Name: "produto", ListPath: "/produtos", Alias: "produtos"}
	Categories    = Resource{Name: "categoria", ListPath: "/categorias", Alias: "categorias"}
	Manufacturers = Resource{Name: "fabricante", ListPath: "/fabricantes", Alias: "fabricantes"}
	Stock         = Resource{Name: "estoque", ListPath: "/estoques", Alias: "estoques"}
	SpecSheets    = Resource{Name: "ficha-tecnica", Alias: "fichas"}
)

// ItemPath is the create path, or the update/delete path when id is set.
func (r Resource) ItemPath(id catalog.ID) string {
	if id == 0 {
		return "/" + r.Name
	}
	return "/" + r.Name + "/" + id.String()
}
