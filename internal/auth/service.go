package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/config"
)

// Claims is the identity payload embedded in a signed credential. The
// claim set is whatever the client posted at issuance, plus the
// registered timestamps; email is the only field the server relies on.
type Claims map[string]any

// Email returns the email claim, or "" if absent.
func (c Claims) Email() string {
	email, _ := c["email"].(string)
	return email
}

type TokenService interface {
	Issue(identity map[string]any) (string, error)
	Verify(tokenString string) (Claims, error)
}

type tokenService struct {
	logger     *zap.Logger
	secret     []byte
	accessTTL  time.Duration
	signingAlg jwt.SigningMethod
}

func NewTokenService(cfg *config.JWTConfig, logger *zap.Logger) TokenService {
	return &tokenService{
		logger:     logger,
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		signingAlg: jwt.SigningMethodHS256,
	}
}

// Issue embeds the posted identity fields verbatim and signs the result.
// The credential is valid for exactly the configured TTL from issuance.
func (s *tokenService) Issue(identity map[string]any) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	issuedAt := time.Now().UTC()
	claims := jwt.MapClaims{}
	for k, v := range identity {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(issuedAt)
	claims["exp"] = jwt.NewNumericDate(issuedAt.Add(s.accessTTL))
	claims["jti"] = uuid.NewString()

	token, err := jwt.NewWithClaims(s.signingAlg, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return "", err
	}
	return token, nil
}

func (s *tokenService) Verify(tokenString string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.signingAlg.Alg()}),
	)

	claims := jwt.MapClaims{}
	tkn, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return Claims(claims), nil
}
