package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "prodboard/internal/errors"
)

// defaultMaxBody caps JSON request bodies.
const defaultMaxBody = 1 << 20

// Validator decodes JSON bodies and validates them against struct tags.
// Field names in errors are the JSON names.
type Validator struct {
	validate    *validator.Validate
	maxBodySize int64
}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v, maxBodySize: defaultMaxBody}
}

// Struct validates v. Errors are validator.ValidationErrors.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Decode reads the JSON body of r into dst and validates it. An empty body
// leaves dst unchanged.
func (v *Validator) Decode(r *http.Request, dst interface{}) error {
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(nil, r.Body, v.maxBodySize)
		if err := render.DecodeJSON(r.Body, dst); err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return apperrors.NewAppValidationError(fmt.Sprintf("request body exceeds %d bytes", v.maxBodySize))
			}
			return apperrors.NewAppValidationError("request body contains invalid JSON").WithContext("cause", err.Error())
		}
	}
	return v.Struct(dst)
}

// ContentTypeValidator ensures requests with a body declare one of the
// given content types.
func ContentTypeValidator(errorHandler *apperrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}
			errorHandler.HandleError(w, r, apperrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				"UNSUPPORTED_MEDIA_TYPE",
				"Unsupported content type",
				map[string]interface{}{
					"content_type": contentType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

// QueryParamValidator validates query parameters
type QueryParamValidator struct {
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *QueryParamValidator {
	return &QueryParamValidator{
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

func (v *QueryParamValidator) reject(w http.ResponseWriter, r *http.Request, param, msg string) {
	v.logger.DebugContext(r.Context(), "invalid query parameter",
		slog.String("param", param),
		slog.String("value", r.URL.Query().Get(param)))
	v.errorHandler.HandleError(w, r, apperrors.NewAppValidationError(msg).WithContext("param", param))
}

// ValidateInt validates an integer query parameter
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param string, min, max int, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be a valid integer", param))
		return 0, false
	}
	if n < min || n > max {
		v.reject(w, r, param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
		return 0, false
	}
	return n, true
}

// ValidateIntList validates a comma separated integer list. ok is false
// after an error response has been written; present reports whether the
// parameter was given at all.
func (v *QueryParamValidator) ValidateIntList(w http.ResponseWriter, r *http.Request, param string, min, max int) (values []int, present, ok bool) {
	if !r.URL.Query().Has(param) {
		return nil, false, true
	}
	for _, s := range splitList(r.URL.Query().Get(param)) {
		n, err := strconv.Atoi(s)
		if err != nil || n < min || n > max {
			v.reject(w, r, param, fmt.Sprintf("%s must list integers between %d and %d", param, min, max))
			return nil, true, false
		}
		values = append(values, n)
	}
	return values, true, true
}

// ValidateEnum validates an enum query parameter
func (v *QueryParamValidator) ValidateEnum(w http.ResponseWriter, r *http.Request, param string, allowed []string, defaultValue string) (string, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}
	for _, a := range allowed {
		if value == a {
			return value, true
		}
	}
	v.reject(w, r, param, fmt.Sprintf("%s must be one of: %s", param, strings.Join(allowed, ", ")))
	return "", false
}

// StringList returns a comma separated query parameter and whether it was
// given.
func StringList(r *http.Request, param string) ([]string, bool) {
	if !r.URL.Query().Has(param) {
		return nil, false
	}
	return splitList(r.URL.Query().Get(param)), true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
