package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"activity-tracker/internal/domain"
)

var tagNamesOnce sync.Once

// registerTagNames makes validator errors report json/form field names.
func registerTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
}

// bindError converts a request binding failure into a ValidationError.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return domain.NewValidationError(fe.Field(), "%s is required", fe.Field())
		case "oneof":
			return domain.NewValidationError(fe.Field(), "%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			return domain.NewValidationError(fe.Field(), "%s is invalid", fe.Field())
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return domain.NewValidationError(typeErr.Field, "%s has the wrong type", typeErr.Field)
	}
	if errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", "request body is required")
	}
	return domain.NewValidationError("body", "invalid request: %v", err)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		cerr *domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
	case errors.As(err, &cerr):
		c.JSON(http.StatusBadRequest, gin.H{"message": cerr.Message})
	default:
		h.logger.WithFields(requestFields(c)).WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
