package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/microforum/apperr"
	"github.com/cppla/microforum/services"
	"github.com/cppla/microforum/utils"
)

// ContextIdentityKey is the key used to store the authenticated identity in Gin context.
const ContextIdentityKey = "identity"

// Authenticator resolves a bearer token into a caller identity.
type Authenticator interface {
	Authenticate(token string) (services.Identity, error)
}

// AuthRequired rejects requests without a valid bearer token:
// 401 when no token is presented, 403 when it does not verify.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, err := auth.Authenticate(bearerToken(ctx.GetHeader("Authorization")))
		if err != nil {
			utils.Fail(ctx, err)
			return
		}

		ctx.Set(ContextIdentityKey, identity)
		ctx.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthRequired.
func CurrentIdentity(ctx *gin.Context) (services.Identity, error) {
	value, exists := ctx.Get(ContextIdentityKey)
	if !exists {
		return services.Identity{}, apperr.New(apperr.Unauthorized, "unauthorized")
	}
	identity, ok := value.(services.Identity)
	if !ok {
		return services.Identity{}, apperr.New(apperr.Unauthorized, "unauthorized")
	}
	return identity, nil
}

// bearerToken extracts the token from "Bearer <token>". Other schemes yield "".
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
