package validators

import (
	"encoding/json"
	"errors"
	"fmt"

	"whatsapp-relay/internal/models"
)

// ValidateSendMessageRequest checks a decoded /send body. Nothing may be sent
// upstream unless this returns nil.
func ValidateSendMessageRequest(req *models.SendMessageRequest) ValidationErrors {
	if req == nil {
		return ValidationErrors{{Loc: []interface{}{"body"}, Msg: "Field required", Type: "missing"}}
	}
	return ValidateStruct(req)
}

// DecodeError converts a JSON binding failure into the same error shape as
// field validation.
func DecodeError(err error) ValidationErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		loc := []interface{}{"body"}
		if typeErr.Field != "" {
			loc = append(loc, namespaceToLoc("body."+typeErr.Field)[1:]...)
		}
		return ValidationErrors{{
			Loc:  loc,
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.String()),
			Type: "type_error",
		}}
	}

	return ValidationErrors{{
		Loc:  []interface{}{"body"},
		Msg:  fmt.Sprintf("JSON decode error: %v", err),
		Type: "json_invalid",
	}}
}
