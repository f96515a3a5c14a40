package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers alias tags for the request shapes of this service.
func Init() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Configure(v)
		}
	})
}

// Configure applies tag naming and aliases to v.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	v.RegisterAlias("pwd", "min=8,max=72") // bcrypt reads at most 72 bytes
	v.RegisterAlias("otp", "len=6,numeric")
	v.RegisterAlias("role", "oneof=user recruiter")
	v.RegisterAlias("emptype", "oneof=full-time part-time contract internship")
	v.RegisterAlias("phone", "min=5,max=20")
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return map[string]string{field: "must be " + ute.Type.String()}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the top-level struct name: "signupRequest.education.degree" -> "education.degree".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array || fe.Kind() == reflect.Map

	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + param
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "numeric", "number":
		return "must contain only digits"
	case "len":
		if isString {
			return fmt.Sprintf("must be exactly %s characters", param)
		}
		if isList {
			return fmt.Sprintf("must contain exactly %s items", param)
		}
		return "must be " + param
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		if isList {
			return fmt.Sprintf("must contain at least %s items", param)
		}
		return "must be at least " + param
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		if isList {
			return fmt.Sprintf("must contain at most %s items", param)
		}
		return "must be at most " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gtfield":
		return "must be greater than " + param
	case "gtefield":
		return "must be greater than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "pwd":
		return "must be between 8 and 72 characters"
	case "otp":
		return "must be a 6 digit code"
	case "role":
		return "must be one of: user, recruiter"
	case "emptype":
		return "must be one of: full-time, part-time, contract, internship"
	case "phone":
		return "must be a valid phone number"
	case "datetime":
		return "must match format " + param
	}
	return "failed on " + fe.Tag() + " validation"
}
