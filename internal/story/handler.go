package story

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/httpx"
)

const requestTimeout = 3 * time.Second

type Handler struct {
	logger *zap.Logger
	repo   Repository
}

func NewHandler(repo Repository, l *zap.Logger) *Handler {
	return &Handler{
		logger: l,
		repo:   repo,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	out, err := h.repo.FindAll(ctx)
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	s, err := h.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID):
			httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
				Code:    httpx.ErrInvalidID,
				Message: "invalid id",
			})
		case errors.Is(err, ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
				Code:    httpx.ErrNotFound,
				Message: "story not found",
			})
		default:
			h.internalError(w, err)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal server error", zap.Error(err))
	httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
		Code:    httpx.ErrInternal,
		Message: "internal server error",
	})
}
