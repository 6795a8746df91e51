package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/notify-admin-api/pkg/errors"
	"github.com/noah-isme/notify-admin-api/pkg/response"
)

// Announcement permissions.
const (
	PermissionAnnouncementRead = "notify:announcement:read"
	PermissionAnnouncementAdd  = "notify:announcement:add"
	PermissionAnnouncementEdit = "notify:announcement:edit"
	PermissionAnnouncementDel  = "notify:announcement:del"
)

// RequirePermission lets the request through when the caller holds permission.
// Super admins pass every check.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.HasPermission(permission) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "missing permission "+permission))
			c.Abort()
			return
		}
		c.Next()
	}
}
