package booking

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

type createBookingRequest struct {
	Email     string `json:"email" validate:"required,email"`
	PackageID string `json:"package_id" validate:"required,hexadecimal,len=24"`
	Date      string `json:"date" validate:"required"`
	GuideName string `json:"guide_name" validate:"omitempty,max=128"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req createBookingRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("booking validation failed", zap.Error(err))
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: httpx.ValidationDetails(err),
		})
		return
	}

	res, err := h.repo.Create(ctx, Booking{
		Email:     req.Email,
		PackageID: req.PackageID,
		Date:      req.Date,
		GuideName: req.GuideName,
		Status:    "pending",
	})
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// List returns the caller's bookings, filtered by the email query
// parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	email := r.URL.Query().Get("email")
	out, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
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
