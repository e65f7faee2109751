package wishlist

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/httpx"
)

const requestTimeout = 3 * time.Second

type Handler struct {
	logger    *zap.Logger
	repo      Repository
	validator *validator.Validate
}

func NewHandler(repo Repository, l *zap.Logger) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Handler{
		logger:    l,
		repo:      repo,
		validator: v,
	}
}

type createItemRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	PackageID string  `json:"package_id" validate:"required,hexadecimal,len=24"`
	Title     string  `json:"title" validate:"omitempty,max=256"`
	Image     string  `json:"image" validate:"omitempty,url"`
	Cost      float64 `json:"cost" validate:"gte=0"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req createItemRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("wishlist validation failed", zap.Error(err))
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: httpx.ValidationDetails(err),
		})
		return
	}

	res, err := h.repo.Create(ctx, Item{
		Email:     req.Email,
		PackageID: req.PackageID,
		Title:     req.Title,
		Image:     req.Image,
		Cost:      req.Cost,
	})
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// List returns the caller's saved items, filtered by the email query
// parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	email := r.URL.Query().Get("email")
	items, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	res, err := h.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
				Code:    httpx.ErrInvalidID,
				Message: "invalid id",
			})
			return
		}
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal server error", zap.Error(err))
	httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
		Code:    httpx.ErrInternal,
		Message: "internal server error",
	})
}
