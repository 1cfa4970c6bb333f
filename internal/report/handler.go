package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/core/common/store"
	"github.com/frahmantamala/attendance-report/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, author *auth.User, dto CreateReportDTO) (*Report, error)
	List(ctx context.Context, caller *auth.User, filter ListFilter) ([]*Report, error)
	Get(ctx context.Context, caller *auth.User, id int64) (*Report, error)
	Review(ctx context.Context, caller *auth.User, id int64) (*Report, error)
	Delete(ctx context.Context, caller *auth.User, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidSession)
		return
	}

	var dto CreateReportDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	rep, err := h.Service.Submit(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidSession)
		return
	}

	limit, err := h.QueryInt(r, "limit", store.DefaultLimit)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	offset, err := h.QueryInt(r, "offset", 0)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	filter := ListFilter{Status: r.URL.Query().Get("status"), Limit: limit, Offset: offset}
	reports, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ReportsResponse{
		Reports: reports,
		Limit:   store.ClampLimit(limit),
		Offset:  offset,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.withReport(w, r, h.Service.Get)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	h.withReport(w, r, h.Service.Review)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidSession)
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) withReport(w http.ResponseWriter, r *http.Request, op func(context.Context, *auth.User, int64) (*Report, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidSession)
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	rep, err := op(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}
