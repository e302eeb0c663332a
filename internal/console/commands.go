package console

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/shared"
	"github.com/saep/inventory-console/internal/store"
)

const msgCheckFields = "Verifique os campos destacados"

// sectionPath is where an entity's commands return to. Spec sheets keep the
// selected product.
func sectionPath(e *entity, product string) string {
	if e.kind == store.KindSpecSheet && product != "" {
		return "/" + e.section + "?" + url.Values{"produto": {product}}.Encode()
	}
	return "/" + e.section
}

func (h *Handler) openNew(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		h.store.EndEdit(sess)

		data, err := h.page(r.Context(), e.section, r.URL.Query())
		if err != nil {
			http.NotFound(w, r)
			return
		}
		form, err := h.openForm(r.Context(), e, sess, data)
		if err != nil {
			h.logger.Error("open form", slog.String("kind", e.kind), slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		data.Form = form
		h.render(w, r, data.Section.Title, data, http.StatusOK)
	}
}

func (h *Handler) openEdit(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := shared.SessionFromContext(ctx)
		q := r.URL.Query()
		back := sectionPath(e, q.Get("produto"))

		id, err := catalog.ParseID(chi.URLParam(r, "id"))
		if err == nil {
			err = h.store.BeginEdit(sess, e.kind, id)
		}
		if err != nil {
			h.redirectWithFlash(w, r, back, shared.FlashError, shared.UserSafeMessage(shared.ErrNotFound))
			return
		}

		data, err := h.page(ctx, e.section, q)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		form, err := h.openForm(ctx, e, sess, data)
		if err != nil {
			h.logger.Error("load entity for edit", slog.String("kind", e.kind), slog.Int64("id", int64(id)), slog.Any("error", err))
			h.store.EndEdit(sess)
			h.redirectWithFlash(w, r, back, shared.FlashError, shared.UserSafeMessageOr(err, "Erro ao carregar"))
			return
		}
		data.Form = form
		h.render(w, r, data.Section.Title, data, http.StatusOK)
	}
}

func (h *Handler) submit(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		sess := shared.SessionFromContext(ctx)
		values := e.formValues(r.PostForm)

		in, errs := e.bind(values)
		for field, msg := range h.validate(in) {
			if _, seen := errs[field]; !seen {
				errs[field] = msg
			}
		}
		id, editing := sess.Editing().For(e.kind)
		if len(errs) > 0 {
			errs["general"] = msgCheckFields
			h.renderForm(w, r, e, values, errs, editing, http.StatusUnprocessableEntity)
			return
		}

		var err error
		if editing {
			err = h.backend.Update(ctx, e.resource, id, in.payload())
		} else {
			id, err = h.backend.Create(ctx, e.resource, in.payload())
		}
		if err != nil {
			h.logger.Error("save entity", slog.String("kind", e.kind), slog.Bool("update", editing), slog.Any("error", err))
			errs["general"] = shared.UserSafeMessageOr(err, e.saveFailed)
			h.renderForm(w, r, e, values, errs, editing, http.StatusBadGateway)
			return
		}
		h.logger.Info("entity saved", slog.String("kind", e.kind), slog.Int64("id", int64(id)), slog.Bool("update", editing))

		h.store.EndEdit(sess)
		if e.kind != store.KindSpecSheet {
			h.store.Reload(ctx)
		}
		h.redirectWithFlash(w, r, sectionPath(e, values["produtoId"]), shared.FlashSuccess, e.saved)
	}
}

// renderForm redraws the section with the entity modal still open.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, e *entity, values map[string]string, errs fieldErrors, editing bool, status int) {
	q := url.Values{}
	if e.kind == store.KindSpecSheet {
		q.Set("produto", values["produtoId"])
	}
	data, err := h.page(r.Context(), e.section, q)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	form := &formState{
		Kind:    e.kind,
		Title:   e.newTitle,
		Action:  "/" + e.section,
		Editing: editing,
		Values:  values,
		Errors:  errs,
		Selects: selectsFor(data.Options, values),
	}
	if editing {
		form.Title = e.editTitle
	}
	data.Form = form
	data.Modals.Open(e.kind)
	h.render(w, r, data.Section.Title, data, status)
}

func (h *Handler) confirmDelete(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		product := q.Get("produto")
		id, err := catalog.ParseID(chi.URLParam(r, "id"))
		if err != nil || id == 0 || (e.kind != store.KindSpecSheet && !h.store.Snapshot().Contains(e.kind, id)) {
			h.redirectWithFlash(w, r, sectionPath(e, product), shared.FlashError, shared.UserSafeMessage(shared.ErrNotFound))
			return
		}
		h.renderConfirm(w, r, e, id, product)
	}
}

func (h *Handler) renderConfirm(w http.ResponseWriter, r *http.Request, e *entity, id catalog.ID, product string) {
	q := url.Values{}
	if product != "" {
		q.Set("produto", product)
	}
	data, err := h.page(r.Context(), e.section, q)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	productID, _ := catalog.ParseID(product)
	data.Confirm = &confirmState{
		Kind:    e.kind,
		ID:      id,
		Text:    e.confirmText,
		Action:  "/" + e.section + "/" + id.String() + "/excluir",
		Cancel:  sectionPath(e, product),
		Product: productID,
	}
	data.Modals.Open(confirmModal)
	h.render(w, r, data.Section.Title, data, http.StatusOK)
}

func (h *Handler) delete(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		product := r.PostForm.Get("produto")
		back := sectionPath(e, product)

		id, err := catalog.ParseID(chi.URLParam(r, "id"))
		if err != nil || id == 0 {
			h.redirectWithFlash(w, r, back, shared.FlashError, shared.UserSafeMessage(shared.ErrNotFound))
			return
		}
		if r.PostForm.Get("confirm") != "sim" {
			h.renderConfirm(w, r, e, id, product)
			return
		}

		if err := h.backend.Delete(ctx, e.resource, id); err != nil {
			h.logger.Error("delete entity", slog.String("kind", e.kind), slog.Int64("id", int64(id)), slog.Any("error", err))
			h.redirectWithFlash(w, r, back, shared.FlashError, shared.UserSafeMessageOr(err, e.deleteFailed))
			return
		}
		h.logger.Info("entity deleted", slog.String("kind", e.kind), slog.Int64("id", int64(id)))

		sess := shared.SessionFromContext(ctx)
		if editing, ok := sess.Editing().For(e.kind); ok && editing == id {
			h.store.EndEdit(sess)
		}
		if e.kind != store.KindSpecSheet {
			h.store.Reload(ctx)
		}
		h.redirectWithFlash(w, r, back, shared.FlashSuccess, e.deleted)
	}
}
