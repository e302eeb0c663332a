package console

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/saep/inventory-console/internal/platform/httpx"
	"github.com/saep/inventory-console/internal/render"
	"github.com/saep/inventory-console/internal/shared"
)

type alertCountResponse struct {
	Count int `json:"count"`
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	count := render.AlertCount(h.store.Snapshot())
	back := localPath(r.URL.Query().Get("voltar"), "/dashboard")
	h.redirectWithFlash(w, r, back, shared.FlashInfo, fmt.Sprintf("Você tem %d alerta(s) de estoque baixo", count))
}

func (h *Handler) alertCount(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, alertCountResponse{Count: render.AlertCount(h.store.Snapshot())})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	back := localPath(r.PostForm.Get("voltar"), "/dashboard")
	snap := h.store.Reload(r.Context())
	if snap.Degraded() {
		h.redirectWithFlash(w, r, back, shared.FlashError, "Erro ao conectar com a API: "+strings.Join(snap.Failed, ", "))
		return
	}
	h.redirectWithFlash(w, r, back, shared.FlashSuccess, "Dados atualizados")
}
