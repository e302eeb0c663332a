// Package console serves the inventory console pages and the commands that
// create, edit and delete entities on the inventory API.
package console

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/saep/inventory-console/internal/apiclient"
	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/shared"
	"github.com/saep/inventory-console/internal/store"
	"github.com/saep/inventory-console/internal/view"
)

// Backend is the write side of the inventory API.
type Backend interface {
	Create(ctx context.Context, res apiclient.Resource, payload apiclient.Payload) (catalog.ID, error)
	Update(ctx context.Context, res apiclient.Resource, id catalog.ID, payload apiclient.Payload) error
	Delete(ctx context.Context, res apiclient.Resource, id catalog.ID) error
	SpecSheet(ctx context.Context, id catalog.ID) (catalog.SpecSheetEntry, error)
}

// Handler wires the console routes.
type Handler struct {
	logger    *slog.Logger
	backend   Backend
	store     *store.Store
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, backend Backend, st *store.Store, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		backend:   backend,
		store:     st,
		templates: templates,
		csrf:      csrf,
		validator: newValidator(),
	}
}

// MountRoutes registers the console routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/dashboard", h.showDashboard)
	for _, e := range entities {
		base := "/" + e.section
		r.Get(base, h.showSection(e))
		r.Post(base, h.submit(e))
		r.Get(base+"/novo", h.openNew(e))
		r.Get(base+"/{id}/editar", h.openEdit(e))
		r.Get(base+"/{id}/excluir", h.confirmDelete(e))
		r.Post(base+"/{id}/excluir", h.delete(e))
	}
	r.Get("/notificacoes", h.notifications)
	r.Get("/api/alertas", h.alertCount)
	r.Post("/recarregar", h.reload)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validate runs the struct rules and maps failures to field messages.
func (h *Handler) validate(in input) fieldErrors {
	errs := fieldErrors{}
	if err := h.validator.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["general"] = err.Error()
			return errs
		}
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				errs[fe.Field()] = msgRequired
			case "gte":
				errs[fe.Field()] = msgMin
			default:
				errs[fe.Field()] = fe.Error()
			}
		}
	}
	return errs
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, data pageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)

	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}

	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}

	body, err := h.templates.RenderBytes("pages/console.html", viewData)
	if err != nil {
		h.logger.Error("template render failed", slog.Any("error", err), slog.String("section", data.Section.ID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// localPath keeps redirect targets on this host.
func localPath(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}
