package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

var validate = newValidator()

// isoLayouts are the accepted ISO-8601 forms, most specific first.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseISO8601(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseISO8601 parses a date or date-time string. Values without a zone are UTC.
func ParseISO8601(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", value)
}

// Validate checks req against its validate tags and returns an aggregated
// field validation error. Messages come from the field's msg_<rule> tag,
// falling back to its msg tag.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reqType := reflect.TypeOf(req)
	for reqType.Kind() == reflect.Pointer {
		reqType = reqType.Elem()
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	seen := make(map[string]struct{}, len(verrs))
	for _, fe := range verrs {
		if _, dup := seen[fe.Field()]; dup {
			continue
		}
		seen[fe.Field()] = struct{}{}
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: fieldMessage(reqType, fe)})
	}
	return apperrors.NewFieldValidationError(fields)
}

func fieldMessage(reqType reflect.Type, fe validator.FieldError) string {
	if sf, ok := reqType.FieldByName(fe.StructField()); ok {
		if msg := sf.Tag.Get("msg_" + fe.Tag()); msg != "" {
			return msg
		}
		if msg := sf.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// DecodeError converts a body decoding failure into a validation error,
// naming the offending field when the JSON type was wrong.
func DecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewFieldValidationError([]apperrors.FieldError{
			{Field: typeErr.Field, Message: fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type))},
		})
	}
	return apperrors.NewValidationError("invalid payload", nil)
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "list"
	default:
		return "string"
	}
}
