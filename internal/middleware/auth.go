package middleware

import (
	"context"
	"strings"

	"courier-backend/internal/apperr"
	"courier-backend/internal/client"
	"courier-backend/internal/model"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// IdentityGate turns a bearer token into a verified principal.
type IdentityGate struct {
	verifier client.TokenVerifier
}

func NewIdentityGate(verifier client.TokenVerifier) *IdentityGate {
	return &IdentityGate{
		verifier: verifier,
	}
}

// Verify checks an Authorization header value. A missing or malformed header
// is Unauthorized; a token the identity provider rejects is Forbidden.
func (g *IdentityGate) Verify(ctx context.Context, header string) (*model.Principal, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil, apperr.Unauthorized("Unauthorized access")
	}

	principal, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindForbidden, "Forbidden access", err)
	}

	return principal, nil
}

// Middleware rejects requests without a valid token and stores the principal
// on the echo context for handlers.
func (g *IdentityGate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := g.Verify(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Middleware, or nil.
func PrincipalFrom(c echo.Context) *model.Principal {
	principal, _ := c.Get(principalKey).(*model.Principal)
	return principal
}
