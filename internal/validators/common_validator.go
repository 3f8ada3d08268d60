package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON names so error locations match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidationError represents a field validation error
type ValidationError struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		parts := make([]string, 0, len(err.Loc))
		for _, p := range err.Loc {
			parts = append(parts, fmt.Sprint(p))
		}
		messages = append(messages, fmt.Sprintf("%s: %s", strings.Join(parts, "."), err.Msg))
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct validates a struct and returns one error per failing field,
// located under "body".
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{Loc: []interface{}{"body"}, Msg: err.Error(), Type: "value_error"}}
	}

	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Loc:  namespaceToLoc(fe.Namespace()),
			Msg:  getErrorMessage(fe),
			Type: getErrorType(fe),
		})
	}

	return validationErrors
}

// namespaceToLoc turns "Request.template.components[0].type" into
// ["body", "template", "components", 0, "type"].
func namespaceToLoc(namespace string) []interface{} {
	loc := []interface{}{"body"}

	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	for _, segment := range segments {
		for segment != "" {
			open := strings.IndexByte(segment, '[')
			if open < 0 {
				loc = append(loc, segment)
				break
			}
			if open > 0 {
				loc = append(loc, segment[:open])
			}
			end := strings.IndexByte(segment, ']')
			if end < open {
				loc = append(loc, segment[open:])
				break
			}
			index := segment[open+1 : end]
			if n, err := strconv.Atoi(index); err == nil {
				loc = append(loc, n)
			} else {
				loc = append(loc, index)
			}
			segment = segment[end+1:]
		}
	}

	return loc
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "Field required"
	case "eq":
		return fmt.Sprintf("Input should be '%s'", err.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func getErrorType(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "missing"
	case "eq":
		return "literal_error"
	default:
		return err.Tag()
	}
}
