package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/apperr"
	"fieldbook/internal/authz"
	"fieldbook/internal/middleware"
)

var errBadBody = apperr.Field("body", "request body must be valid JSON")

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) ok(c *gin.Context, status int, message string, data any) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail writes err as {message, errors}. Unclassified errors become a bare 500.
func (r responder) fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		r.logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"error", err,
		)
		_ = c.Error(err)
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}

	body := gin.H{"message": err.Error()}
	var ae *apperr.Error
	if errors.As(err, &ae) && len(ae.Fields) > 0 {
		body["errors"] = ae.Fields
		if ae.Kind == apperr.KindThrottled {
			c.Header("Retry-After", ae.Fields["retry_after"])
			body["retry_after"] = ae.Fields["retry_after"]
		}
	}
	c.JSON(status, body)
}

// bind decodes the JSON body into dst.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errBadBody
	}
	return nil
}

// idParam reads a positive numeric path parameter. Anything else cannot name
// an existing row.
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrNotFound
	}
	return uint(id), nil
}

func principal(c *gin.Context) (authz.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return authz.Principal{}, apperr.ErrUnauthenticated
	}
	return p, nil
}
