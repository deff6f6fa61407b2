package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/finledger/transactions-api/internal/token"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

var errNoAuthHeader = errors.New("authorization header missing")

// authorizationHeader extracts the Authorization header. It tries the
// structured accessor first and falls back to a case-insensitive scan of the
// raw header map — some request representations only expose headers as a
// plain key/value map, so the fallback order matters.
func authorizationHeader(c *gin.Context) (string, bool) {
	if value := c.GetHeader("Authorization"); value != "" {
		return value, true
	}
	for key, values := range c.Request.Header {
		if strings.EqualFold(key, "Authorization") && len(values) > 0 && values[0] != "" {
			return values[0], true
		}
	}
	return "", false
}

// resolvePrincipal verifies the request's bearer token and returns its
// claims. It performs no routing side effects, so both middlewares can run
// it before deciding whether the handler chain continues.
func resolvePrincipal(c *gin.Context, tokens *token.Service) (*token.Claims, error) {
	header, ok := authorizationHeader(c)
	if !ok {
		return nil, errNoAuthHeader
	}

	var raw string
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		raw = parts[1]
	}
	return tokens.Verify(raw)
}

func rejectUnauthenticated(c *gin.Context, err error) {
	if errors.Is(err, errNoAuthHeader) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	}
	c.Abort()
}

// AuthMiddleware resolves the bearer token into a principal or rejects the
// request with 401.
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := resolvePrincipal(c, tokens)
		if err != nil {
			rejectUnauthenticated(c, err)
			return
		}

		c.Set(principalKey, claims)
		c.Next()
	}
}

// RequireAdmin authenticates and additionally requires the admin flag on the
// principal. The handler chain only continues once both checks have passed.
// The 401 on failure is legacy behaviour kept on purpose, even though it is
// really an authorization failure.
func RequireAdmin(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := resolvePrincipal(c, tokens)
		if err != nil {
			rejectUnauthenticated(c, err)
			return
		}
		if !claims.Admin {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			c.Abort()
			return
		}

		c.Set(principalKey, claims)
		c.Next()
	}
}

// GetPrincipal returns the authenticated principal set by AuthMiddleware.
func GetPrincipal(c *gin.Context) (*token.Claims, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*token.Claims)
	return claims, ok
}
