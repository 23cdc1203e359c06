package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/pulosarok/desa/internal/interfaces/http/dto"
)

// customTags are the village-specific binding tags
var customTags = map[string]validator.Func{
	// nik: 16 digit population identity number
	"nik": func(fl validator.FieldLevel) bool {
		return reference.ValidNIK(fl.Field().String())
	},
	// clock: wall-clock time in HH:MM, as used by posyandu schedules
	"clock": func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	},
}

// SetupValidator registers the custom tags on gin's validator and makes
// error fields use json names
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	for tag, fn := range customTags {
		_ = v.RegisterValidation(tag, fn)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
		}
		return name
	})
}

// FormatValidationErrors turns validator errors into the ERR_VALIDATION envelope
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, e := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: e.Field(), Message: validationMessage(e)})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 validation response
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString(logger.GinRequestIDKey)
	if requestID == "" {
		requestID = c.GetHeader(RequestIDHeader)
	}
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
}

// fixedMessages covers tags whose message ignores the parameter
var fixedMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"nik":      "NIK must be exactly 16 digits",
	"clock":    "Must be a time in HH:MM format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"hexcolor": "Must be a hex color such as #1A2B3C",
	"numeric":  "Must be numeric",
	"alphanum": "Must be alphanumeric",
	"alpha":    "Must contain only letters",
}

// paramMessages take the tag parameter
var paramMessages = map[string]string{
	"len":   "Must be exactly %s characters",
	"oneof": "Must be one of: %s",
	"gte":   "Must be greater than or equal to %s",
	"lte":   "Must be less than or equal to %s",
	"gt":    "Must be greater than %s",
	"lt":    "Must be less than %s",
}

func validationMessage(e validator.FieldError) string {
	tag := e.Tag()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if format, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(format, e.Param())
	}
	if tag == "min" || tag == "max" {
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be %s %s characters", bound, e.Param())
		}
		return fmt.Sprintf("Must be %s %s", bound, e.Param())
	}
	return "Invalid value"
}
