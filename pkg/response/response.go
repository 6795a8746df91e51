package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/notify-admin-api/internal/models"
	appErrors "github.com/noah-isme/notify-admin-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}        `json:"data,omitempty"`
	Error      *appErrors.Error   `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, Envelope{Data: data, Pagination: pagination})
}

// OK sends an empty success envelope.
func OK(c *gin.Context) {
	JSON(c, http.StatusOK, nil, nil)
}

// Result maps a boolean service outcome to success or the supplied failure.
func Result(c *gin.Context, ok bool, failure *appErrors.Error) {
	if !ok {
		Error(c, failure)
		return
	}
	OK(c)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}
