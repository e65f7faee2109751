package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/auth"
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

type createUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=128"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

type duplicateUserResponse struct {
	Message    string `json:"message"`
	InsertedID any    `json:"insertedId"`
}

// Create stores a new account unless the email is already present.
// The existence check and the insert are two store operations; the
// race between them is accepted, matching single-document atomicity.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req createUserRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("create user validation failed", zap.Error(err))
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: httpx.ValidationDetails(err),
		})
		return
	}

	existing, err := h.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if existing != nil {
		httpx.WriteJSON(w, http.StatusOK, duplicateUserResponse{
			Message:    "User already exists",
			InsertedID: nil,
		})
		return
	}

	res, err := h.repo.Create(ctx, User{
		Email: req.Email,
		Name:  req.Name,
		Photo: req.Photo,
	})
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// List returns every account. Admin-gated by the router.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	users, err := h.repo.FindAll(ctx)
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

// PromoteAdmin sets role=admin on the addressed account.
func (h *Handler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	h.setRole(w, r, RoleAdmin)
}

// PromoteGuide sets role=guide on the addressed account.
func (h *Handler) PromoteGuide(w http.ResponseWriter, r *http.Request) {
	h.setRole(w, r, RoleGuide)
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request, role Role) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	res, err := h.repo.SetRole(ctx, id, role)
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

// ListGuides returns accounts with role=guide.
func (h *Handler) ListGuides(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	guides, err := h.repo.FindByRole(ctx, RoleGuide)
	if err != nil {
		h.internalError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, guides)
}

// GetGuide fetches one account by id.
func (h *Handler) GetGuide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	u, err := h.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID):
			h.invalidID(w, id)
		case errors.Is(err, ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
				Code:    httpx.ErrNotFound,
				Message: "user not found",
			})
		default:
			h.internalError(w, err)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// Delete removes the addressed account. Deleting an absent id is a
// zero-count success.
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

type adminStatusResponse struct {
	Admin bool `json:"admin"`
}

// AdminStatus reports whether the caller's stored role is admin. The
// path email must match the verified claim email; the claim is the
// sole trusted identity for the credential's lifetime. The parameter
// shares the {id} slot with the promote route but carries an email.
func (h *Handler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	email := chi.URLParam(r, "id")
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.Email() != email {
		httpx.WriteError(w, http.StatusForbidden, httpx.ErrorResponse[any]{
			Code:    httpx.ErrForbidden,
			Message: "forbidden access",
		})
		return
	}

	u, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		h.internalError(w, err)
		return
	}
	admin := u != nil && u.Role == RoleAdmin
	httpx.WriteJSON(w, http.StatusOK, adminStatusResponse{Admin: admin})
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
