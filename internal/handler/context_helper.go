package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Fatimapsp/unex-escuta/internal/authz"
	"github.com/Fatimapsp/unex-escuta/internal/middleware"
	"github.com/Fatimapsp/unex-escuta/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext builds the authorization actor for the request. Missing
// claims yield the zero actor, which every decision treats as unauthenticated.
func actorFromContext(c *gin.Context) authz.Actor {
	return authz.FromClaims(claimsFromContext(c))
}
