// Package auth guards the smoke test endpoints. Callers present a bearer JWT
// issued by HMPPS auth; the token must be valid and carry the smoke test
// role before any collaborator is touched.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/justice-digital/dps-smoketest/engine/infra/server/router"
)

type claims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// Middleware rejects requests without a valid bearer token (401) or without
// the required role in the authorities claim (403).
func Middleware(secret, requiredRole string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			router.RespondWithError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return key, nil
		})
		if err != nil || !parsed.Valid {
			router.RespondWithError(c, http.StatusUnauthorized, "invalid bearer token", err)
			return
		}
		tokenClaims, ok := parsed.Claims.(*claims)
		if !ok || !hasRole(tokenClaims.Authorities, requiredRole) {
			router.RespondWithError(c, http.StatusForbidden, fmt.Sprintf("missing role %s", requiredRole), nil)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func hasRole(authorities []string, role string) bool {
	for _, authority := range authorities {
		if authority == role {
			return true
		}
	}
	return false
}
