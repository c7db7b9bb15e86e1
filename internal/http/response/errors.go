package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/validate"
)

// RespondAPIError maps a service error onto the error envelope. Anything that
// is not an *apierr.Error, a binding failure or a missing row is a 500 whose
// detail stays in the log.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	if err == nil {
		return
	}
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorEnvelope{Error: APIError{Message: ae.Error(), Code: ae.Code, Fields: ae.Fields}})
		return
	}
	if ae := bindingError(err); ae != nil {
		c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: ae.Error(), Code: ae.Code, Fields: ae.Fields}})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("Not found."))
		return
	}
	if log != nil {
		fields := []interface{}{"path", c.Request.URL.Path, "error", err}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID)
		}
		log.Error("Unhandled error", fields...)
	}
	RespondError(c, http.StatusInternalServerError, "internal", errors.New("A server error occurred."))
}

// bindingError translates gin binding failures: validator tag violations
// become field errors, malformed JSON becomes parse_error.
func bindingError(err error) *apierr.Error {
	if ae := validate.Translate(err); ae != nil {
		return ae
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return apierr.New(http.StatusBadRequest, "parse_error", errors.New("Invalid data."))
		}
		return apierr.FieldError(field, fmt.Sprintf("A valid %s is required.", jsonKind(typeErr.Type)))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apierr.New(http.StatusBadRequest, "parse_error", fmt.Errorf("JSON parse error - %s", syntaxErr.Error()))
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apierr.New(http.StatusBadRequest, "parse_error", errors.New("JSON parse error - empty or truncated body"))
	}
	return nil
}

// BindJSON binds the body into dst and writes the translated error on
// failure. It reports whether the handler should continue.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		ae := bindingError(err)
		if ae == nil {
			ae = apierr.New(http.StatusBadRequest, "parse_error", err)
		}
		c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: ae.Error(), Code: ae.Code, Fields: ae.Fields}})
		return false
	}
	return true
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return "value"
}

// UseRequestValidator points gin's binding at the shared validator so a
// request body and a service input report identical field errors.
func UseRequestValidator() {
	useOnce.Do(func() { binding.Validator = requestValidator{} })
}

var useOnce sync.Once

type requestValidator struct{}

func (v requestValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return v.ValidateStruct(rv.Elem().Interface())
	case reflect.Struct:
		return validate.Engine().Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := v.ValidateStruct(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (requestValidator) Engine() any { return validate.Engine() }
