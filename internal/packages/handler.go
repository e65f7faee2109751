package packages

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

type identityBody struct {
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

type itineraryBody struct {
	Day1 string `json:"day1" validate:"required"`
	Day2 string `json:"day2" validate:"required"`
	Day3 string `json:"day3" validate:"required"`
}

type createPackageRequest struct {
	Title       string        `json:"title" validate:"required,max=256"`
	Type        string        `json:"type" validate:"required,max=64"`
	Duration    string        `json:"duration" validate:"required,max=64"`
	Description string        `json:"description" validate:"required"`
	Image       string        `json:"image" validate:"omitempty,url"`
	Cost        float64       `json:"cost" validate:"gte=0"`
	Day         itineraryBody `json:"day" validate:"required"`
	PostedBy    identityBody  `json:"posted_by" validate:"required"`
}

type updatePackageRequest struct {
	Title       string        `json:"title" validate:"required,max=256"`
	Type        string        `json:"type" validate:"required,max=64"`
	Duration    string        `json:"duration" validate:"required,max=64"`
	Description string        `json:"description" validate:"required"`
	Image       string        `json:"image" validate:"omitempty,url"`
	Cost        float64       `json:"cost" validate:"gte=0"`
	Day         itineraryBody `json:"day" validate:"required"`
	PostedBy    identityBody  `json:"posted_by" validate:"required"`
	EditedBy    identityBody  `json:"edited_by" validate:"required"`
}

// Create persists a new package. Admin-gated by the router.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req createPackageRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.validationFailed(w, err)
		return
	}

	res, err := h.repo.Create(ctx, Package{
		Title:       req.Title,
		Type:        req.Type,
		Duration:    req.Duration,
		Description: req.Description,
		Image:       req.Image,
		Cost:        req.Cost,
		Day:         Itinerary(req.Day),
		PostedBy:    Identity(req.PostedBy),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// List returns every package, unfiltered and unpaginated.
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

// Get fetches one package by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	p, err := h.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID):
			h.invalidID(w, id)
		case errors.Is(err, ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
				Code:    httpx.ErrNotFound,
				Message: "package not found",
			})
		default:
			h.internalError(w, err)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// Update replaces the fixed field subset with the posted values,
// verbatim. Admin-gated by the router.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req updatePackageRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.validationFailed(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	res, err := h.repo.Update(ctx, id, Update{
		Title:       req.Title,
		Type:        req.Type,
		Duration:    req.Duration,
		Description: req.Description,
		Image:       req.Image,
		Cost:        req.Cost,
		Day:         Itinerary(req.Day),
		PostedBy:    Identity(req.PostedBy),
		EditedBy:    Identity(req.EditedBy),
	})
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			h.invalidID(w, id)
			return
		}
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// Delete removes one package. Admin-gated by the router.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	res, err := h.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			h.invalidID(w, id)
			return
		}
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) validationFailed(w http.ResponseWriter, err error) {
	h.logger.Warn("package validation failed", zap.Error(err))
	httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
		Code:    httpx.ErrValidationFailed,
		Message: "validation failed",
		Details: httpx.ValidationDetails(err),
	})
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal server error", zap.Error(err))
	httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
		Code:    httpx.ErrInternal,
		Message: "internal server error",
	})
}

func (h *Handler) invalidID(w http.ResponseWriter, id string) {
	h.logger.Debug("invalid object id", zap.String("id", id))
	httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
		Code:    httpx.ErrInvalidID,
		Message: "invalid id",
	})
}
