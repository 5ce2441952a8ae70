package response

import (
	"github.com/gin-gonic/gin"

	"github.com/59-devv/adonis-roleplay/pkg/apperr"
)

// JSON writes a success body with the given status.
func JSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Fail serializes any error as a structured fault. This is the single
// error boundary: handlers hand errors here and never write their own
// error bodies.
func Fail(c *gin.Context, err error) {
	f := apperr.From(err)
	c.AbortWithStatusJSON(f.Status, f)
}

// FailValidation writes the 422 fault carrying per-field details.
func FailValidation(c *gin.Context, details map[string]string) {
	Fail(c, apperr.Validation(details))
}
