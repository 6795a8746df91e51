package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/notify-admin-api/internal/middleware"
	"github.com/noah-isme/notify-admin-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentClaims(c)
}
