package console

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/navigation"
	"github.com/saep/inventory-console/internal/render"
	"github.com/saep/inventory-console/internal/shared"
	"github.com/saep/inventory-console/internal/store"
)

// confirmModal is the id of the delete confirmation dialog.
const confirmModal = "confirmar"

// pageData is everything the console layout draws from.
type pageData struct {
	Nav        navigation.Nav
	Section    navigation.Section
	Modals     *navigation.Modals
	AlertCount int
	Degraded   []string
	LoadedAt   time.Time
	Options    render.FormOptions

	// CategoryFilter is the products filter select.
	CategoryFilter []render.Option

	Dashboard     *render.DashboardView
	Products      *render.ProductsView
	Stock         *render.StockView
	Categories    *render.CategoriesView
	Manufacturers *render.ManufacturersView
	SpecSheets    *render.SpecSheetsView

	Form    *formState
	Confirm *confirmState
	Notice  string
}

// formState is an entity modal: its values, errors and submit target.
type formState struct {
	Kind    string
	Title   string
	Action  string
	Editing bool
	Values  map[string]string
	Errors  fieldErrors
	Selects map[string][]render.Option
}

// Value returns a submitted or loaded field value.
func (f *formState) Value(field string) string {
	if f == nil {
		return ""
	}
	return f.Values[field]
}

// Error returns the message for field, or "general" for the form as a whole.
func (f *formState) Error(field string) string {
	if f == nil {
		return ""
	}
	return f.Errors[field]
}

// confirmState is the delete confirmation dialog.
type confirmState struct {
	Kind    string
	ID      catalog.ID
	Text    string
	Action  string
	Cancel  string
	Product catalog.ID
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.page(r.Context(), navigation.SectionDashboard, r.URL.Query())
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, data.Section.Title, data, http.StatusOK)
}

func (h *Handler) showSection(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := h.page(r.Context(), e.section, r.URL.Query())
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if data.Modals.IsOpen(e.kind) {
			sess := shared.SessionFromContext(r.Context())
			form, err := h.openForm(r.Context(), e, sess, data)
			if err != nil {
				h.logger.Warn("restore form", slog.String("kind", e.kind), slog.Any("error", err))
				data.Modals.Close(e.kind)
				data.Notice = shared.UserSafeMessage(err)
			} else {
				data.Form = form
			}
		}
		h.render(w, r, data.Section.Title, data, http.StatusOK)
	}
}

// page builds the section view from the current snapshot and the request
// query.
func (h *Handler) page(ctx context.Context, section string, q url.Values) (pageData, error) {
	nav, err := navigation.Activate(section)
	if err != nil {
		return pageData{}, err
	}
	active, _ := nav.Active()
	snap := h.store.Snapshot()

	data := pageData{
		Nav:        nav,
		Section:    active,
		Modals:     navigation.ModalsFromQuery(q, active.Modal),
		AlertCount: render.AlertCount(snap),
		Degraded:   snap.Failed,
		LoadedAt:   snap.LoadedAt,
		Options:    render.Options(snap),
	}

	switch section {
	case navigation.SectionDashboard:
		v := render.Dashboard(snap)
		data.Dashboard = &v
	case navigation.SectionProducts:
		categoryID, _ := catalog.ParseID(q.Get("categoria"))
		v := render.Products(snap, catalog.ProductFilter{Name: q.Get("q"), CategoryID: categoryID})
		data.Products = &v
		data.CategoryFilter = render.Select(data.Options.Categories, categoryID)
	case navigation.SectionStock:
		v := render.Stock(snap)
		data.Stock = &v
	case navigation.SectionCategories:
		v := render.Categories(snap)
		data.Categories = &v
	case navigation.SectionManufacturers:
		v := render.Manufacturers(snap)
		data.Manufacturers = &v
	case navigation.SectionSpecSheets:
		productID, _ := catalog.ParseID(q.Get("produto"))
		entries, err := h.store.SpecSheets(ctx, productID)
		if err != nil {
			h.logger.Error("load spec sheets", slog.String("produto", productID.String()), slog.Any("error", err))
			data.Notice = "Erro ao carregar"
		}
		v := render.SpecSheets(snap, productID, entries)
		data.SpecSheets = &v
	}
	return data, nil
}

// openForm builds the entity modal. With an editing marker for the entity's
// kind the form is populated from the entity; otherwise it starts empty.
func (h *Handler) openForm(ctx context.Context, e *entity, sess *shared.Session, data pageData) (*formState, error) {
	form := &formState{
		Kind:   e.kind,
		Title:  e.newTitle,
		Action: "/" + e.section,
		Values: map[string]string{},
		Errors: fieldErrors{},
	}
	if id, ok := sess.Editing().For(e.kind); ok {
		values, err := h.loadValues(ctx, e, id)
		if err != nil {
			return nil, err
		}
		form.Title = e.editTitle
		form.Editing = true
		form.Values = values
	} else if e.kind == store.KindSpecSheet && data.SpecSheets != nil {
		form.Values["produtoId"] = refString(data.SpecSheets.ProductID)
	}
	form.Selects = selectsFor(data.Options, form.Values)
	data.Modals.Open(e.kind)
	return form, nil
}

func (h *Handler) loadValues(ctx context.Context, e *entity, id catalog.ID) (map[string]string, error) {
	if e.kind == store.KindSpecSheet {
		entry, err := h.backend.SpecSheet(ctx, id)
		if err != nil {
			return nil, err
		}
		return specSheetValues(entry), nil
	}
	values, ok := e.values(h.store.Snapshot(), id)
	if !ok {
		return nil, shared.ErrNotFound
	}
	return values, nil
}

// selectsFor marks the options currently chosen in a form.
func selectsFor(opts render.FormOptions, values map[string]string) map[string][]render.Option {
	selected := func(field string) catalog.ID {
		id, _ := catalog.ParseID(values[field])
		return id
	}
	product := selected("idProduto")
	if product == 0 {
		product = selected("produtoId")
	}
	return map[string][]render.Option{
		"idcategoria":  render.Select(opts.Categories, selected("idcategoria")),
		"idfabricante": render.Select(opts.Manufacturers, selected("idfabricante")),
		"produto":      render.Select(opts.Products, product),
	}
}
