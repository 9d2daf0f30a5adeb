package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"heavysync/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{10}$`)
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so clients can map errors to inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "notblank", validators.NotBlank)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
}

// IsStrongPassword requires at least one lowercase letter, one uppercase
// letter and one digit.
func IsStrongPassword(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// ValidateStruct runs the struct's validate tags and returns one entry per
// failing field. A nil result means the value is valid.
func ValidateStruct(data interface{}) []apperror.FieldError {
	return fieldErrors(validate.Struct(data))
}

// ValidateFields is ValidateStruct restricted to the named Go fields, for
// callers that reuse one rule of a request struct.
func ValidateFields(data interface{}, fields ...string) []apperror.FieldError {
	return fieldErrors(validate.StructPartial(data, fields...))
}

func fieldErrors(err error) []apperror.FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperror.FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperror.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name: "registerRequest.items[0].name" -> "items[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := humanize(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return "Must be a valid email address"
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "password":
		return "Password must contain uppercase, lowercase, and number"
	case "phone":
		return "Phone must be exactly 10 digits"
	case "uuid", "uuid4":
		return "Invalid " + strings.ToLower(field) + " ID"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eqfield":
		return "Passwords do not match"
	case "min", "gte":
		return boundMessage(fe, field, "at least")
	case "max", "lte":
		return boundMessage(fe, field, "at most")
	case "datetime":
		return field + " must be a valid date"
	}
	return field + " is invalid"
}

func boundMessage(fe validator.FieldError, field, relation string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be %s %s characters", field, relation, fe.Param())
	case reflect.Slice, reflect.Array:
		if fe.Param() == "1" && relation == "at least" {
			return "At least one " + strings.ToLower(singular(field)) + " is required"
		}
		return fmt.Sprintf("%s must contain %s %s entries", field, relation, fe.Param())
	}
	return fmt.Sprintf("%s must be %s %s", field, relation, fe.Param())
}

// humanize turns a JSON name like "contactEmail" into "Contact email".
func humanize(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func singular(s string) string {
	s = strings.TrimSuffix(s, " ids")
	return strings.TrimSuffix(s, "s")
}
