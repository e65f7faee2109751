package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/httpx"
)

type TokenHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	Routes() chi.Router
}

type tokenHandler struct {
	logger    *zap.Logger
	tokens    TokenService
	validator *validator.Validate
}

func NewTokenHandler(tokens TokenService, l *zap.Logger) TokenHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &tokenHandler{
		logger:    l,
		tokens:    tokens,
		validator: v,
	}
}

func (h *tokenHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Issue)
	return r
}

// Issue signs a credential from the posted identity. All posted fields
// are embedded as claims; only email is validated at the boundary.
func (h *tokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var identity map[string]any
	if !httpx.DecodeJSON(w, r, &identity) {
		return
	}

	email, _ := identity["email"].(string)
	if err := h.validator.Var(email, "required,email"); err != nil {
		h.logger.Warn("token request validation failed", zap.Error(err))
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: []httpx.FieldError{{Field: "email", Rule: "required,email"}},
		})
		return
	}

	token, err := h.tokens.Issue(identity)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInternal,
			Message: "internal server error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, issueTokenResponse{Token: token})
}

type issueTokenResponse struct {
	Token string `json:"token"`
}
