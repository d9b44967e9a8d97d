package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"clubportal/internal/apperrors"
)

// writeError renders a classified error as a problem-details body:
// {type, title, status, detail}. Unclassified errors become opaque 500s.
func writeError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := kind.HTTPStatus()

	title := "internal error"
	detail := "an unexpected error occurred"
	var ae *apperrors.Error
	if errors.As(err, &ae) && kind != apperrors.KindInternal {
		title = ae.Title
		detail = ae.Detail
	}
	if kind == apperrors.KindInternal {
		log.Printf("[http] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(status, gin.H{
		"type":   kind.String(),
		"title":  title,
		"status": status,
		"detail": detail,
	})
}

// tolerant of the value types middlewares put into the context
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func currentUserID(c *gin.Context) (int, bool) {
	return getIntFromCtx(c, "user_id")
}
