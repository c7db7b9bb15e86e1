// Package validate owns the go-playground validator shared by gin's request
// binding and the services, so both report the same field errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
)

// TagName is the struct tag both layers read. It is gin's binding tag, so a
// service input struct can be bound straight from a request body.
const TagName = "binding"

var (
	once   sync.Once
	engine *validator.Validate

	amountType = reflect.TypeOf(money.Amount(0))
)

func Engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.SetTagName(TagName)
		v.RegisterTagNameFunc(jsonName)

		// Services trim before validating, so surrounding whitespace must not
		// fail the raw body at the binding stage.
		plain := validator.New()
		_ = v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
			return plain.Var(strings.TrimSpace(fl.Field().String()), "email") == nil
		})
		engine = v
	})
	return engine
}

// Struct checks s against its binding tags. Violations come back as a 400
// *apierr.Error keyed by json field path (items[0].quantity).
func Struct(s any) error {
	if err := Engine().Struct(s); err != nil {
		if ae := Translate(err); ae != nil {
			return ae
		}
		return fmt.Errorf("validate %T: %w", s, err)
	}
	return nil
}

// Var checks a single value and reports violations under field.
func Var(field string, value any, tag string) error {
	err := Engine().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", field, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, Message(fe))
	}
	return apierr.Validation(map[string][]string{field: msgs})
}

// Translate turns validator.ValidationErrors into a field-error *apierr.Error.
// It returns nil for any other error.
func Translate(err error) *apierr.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := map[string][]string{}
	for _, fe := range verrs {
		name := fieldPath(fe)
		fields[name] = append(fields[name], Message(fe))
	}
	return apierr.Validation(fields)
}

// Merge folds extra field errors (cross-field rules the tags cannot express)
// into err, which is nil or a validation *apierr.Error.
func Merge(err error, extra map[string][]string) error {
	if len(extra) == 0 {
		return err
	}
	fields := map[string][]string{}
	if err != nil {
		ae, ok := apierr.As(err)
		if !ok || ae.Fields == nil {
			return err
		}
		for k, v := range ae.Fields {
			fields[k] = append(fields[k], v...)
		}
	}
	for k, v := range extra {
		fields[k] = append(fields[k], v...)
	}
	return apierr.Validation(fields)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	if f := fe.Field(); f != "" {
		return f
	}
	return "non_field_errors"
}

// Message renders a violation the way DRF words the same rule.
func Message(fe validator.FieldError) string {
	kind := fe.Kind()
	numeric := false
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}
	list := kind == reflect.Slice || kind == reflect.Array

	param := fe.Param()
	if fe.Type() == amountType {
		var cents int64
		if _, err := fmt.Sscan(param, &cents); err == nil {
			param = money.Cents(cents).String()
		}
	}

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "uuid", "uuid4":
		return "Must be a valid UUID."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "min", "gte":
		switch {
		case list && param == "1":
			return "This list may not be empty."
		case list:
			return "Ensure this field has at least " + param + " elements."
		case numeric:
			return "Ensure this value is greater than or equal to " + param + "."
		}
		return "Ensure this field has at least " + param + " characters."
	case "max", "lte":
		switch {
		case list:
			return "Ensure this field has no more than " + param + " elements."
		case numeric:
			return "Ensure this value is less than or equal to " + param + "."
		}
		return "Ensure this field has no more than " + param + " characters."
	}
	return "Invalid value."
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
