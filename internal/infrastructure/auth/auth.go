package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/janhq/searxng-tools/internal/infrastructure/config"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

// TokenContextKey is where the validated token is stored on the gin context.
const TokenContextKey = "auth_token"

// Validator validates bearer JWTs against a JWKS endpoint.
type Validator struct {
	enabled  bool
	issuer   string
	audience string
	jwks     *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled. With auth
// disabled the returned validator lets every request through.
func NewValidator(ctx context.Context, cfg *config.Config) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}
	return newValidator(cfg, jwks), nil
}

func newValidator(cfg *config.Config, jwks *keyfunc.JWKS) *Validator {
	return &Validator{
		enabled:  true,
		issuer:   cfg.AuthIssuer,
		audience: cfg.AuthAudience,
		jwks:     jwks,
	}
}

// Enabled reports whether requests are checked.
func (v *Validator) Enabled() bool {
	return v != nil && v.enabled
}

// Middleware enforces JWT auth when enabled.
func (v *Validator) Middleware() gin.HandlerFunc {
	if !v.Enabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	}
	if v.audience != "" {
		parserOptions = append(parserOptions, jwt.WithAudience(v.audience))
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, v.jwks.Keyfunc, parserOptions...)
		if err != nil || !token.Valid {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected bearer token")
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(TokenContextKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      message,
		"request_id": platformerrors.RequestIDFromContext(c.Request.Context()),
	})
}
