package validators

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-relay/internal/models"
)

func validRequest() *models.SendMessageRequest {
	return &models.SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               models.String("5511999999999"),
		Type:             "template",
		Template: models.TemplateSpec{
			Name:     models.String("hello_world"),
			Language: models.LanguageCode{Code: models.String("en_US")},
			Components: []models.ComponentSpec{
				{Type: models.String("body"), Parameters: []models.ParameterSpec{
					{Type: models.String("text"), Text: models.String("Ana")},
				}},
			},
		},
		CaptchaToken: models.String("token"),
	}
}

func TestValidateSendMessageRequest_Valid(t *testing.T) {
	assert.Empty(t, ValidateSendMessageRequest(validRequest()))
}

func TestValidateSendMessageRequest_EmptyStringsArePresent(t *testing.T) {
	req := validRequest()
	req.To = models.String("")
	req.CaptchaToken = models.String("")
	req.Template.Name = models.String("")
	req.Template.Language.Code = models.String("")
	req.Template.Components[0].Type = models.String("")
	req.Template.Components[0].Parameters[0].Text = models.String("")

	assert.Empty(t, ValidateSendMessageRequest(req))
}

func TestValidateSendMessageRequest_EmptyListsAreValid(t *testing.T) {
	req := validRequest()
	req.Template.Components[0].Parameters = []models.ParameterSpec{}
	assert.Empty(t, ValidateSendMessageRequest(req))

	req.Template.Components = []models.ComponentSpec{}
	assert.Empty(t, ValidateSendMessageRequest(req))
}

func TestValidateSendMessageRequest_MissingComponents(t *testing.T) {
	req := validRequest()
	req.Template.Components = nil

	errs := ValidateSendMessageRequest(req)
	require.Len(t, errs, 1)
	assert.Equal(t, []interface{}{"body", "template", "components"}, errs[0].Loc)
	assert.Equal(t, "missing", errs[0].Type)
}

func TestValidateSendMessageRequest_MissingParameters(t *testing.T) {
	req := validRequest()
	req.Template.Components[0].Parameters = nil

	errs := ValidateSendMessageRequest(req)
	require.Len(t, errs, 1)
	assert.Equal(t, []interface{}{"body", "template", "components", 0, "parameters"}, errs[0].Loc)
	assert.Equal(t, "missing", errs[0].Type)
}

func TestValidateSendMessageRequest_Literals(t *testing.T) {
	req := validRequest()
	req.MessagingProduct = "sms"
	req.Type = "text"

	errs := ValidateSendMessageRequest(req)
	require.Len(t, errs, 2)
	assert.Equal(t, []interface{}{"body", "messaging_product"}, errs[0].Loc)
	assert.Equal(t, "literal_error", errs[0].Type)
	assert.Equal(t, "Input should be 'whatsapp'", errs[0].Msg)
	assert.Equal(t, []interface{}{"body", "type"}, errs[1].Loc)
}

func TestValidateSendMessageRequest_NestedLocations(t *testing.T) {
	req := validRequest()
	req.CaptchaToken = nil
	req.Template.Language.Code = nil
	req.Template.Components = append(req.Template.Components, models.ComponentSpec{
		Type:       models.String("header"),
		Parameters: []models.ParameterSpec{
			{Type: models.String("text"), Text: models.String("ok")},
			{Text: models.String("x")},
		},
	})

	errs := ValidateSendMessageRequest(req)
	require.Len(t, errs, 3)

	locs := make([][]interface{}, 0, len(errs))
	for _, e := range errs {
		assert.Equal(t, "missing", e.Type)
		locs = append(locs, e.Loc)
	}
	assert.Contains(t, locs, []interface{}{"body", "captchaToken"})
	assert.Contains(t, locs, []interface{}{"body", "template", "language", "code"})
	assert.Contains(t, locs, []interface{}{"body", "template", "components", 1, "parameters", 1, "type"})
}

func TestValidateSendMessageRequest_DecodedKeys(t *testing.T) {
	var req models.SendMessageRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"messaging_product": "whatsapp",
		"to": "",
		"type": "template",
		"template": {"name": "n", "language": {"code": "en"}, "components": null},
		"captchaToken": ""
	}`), &req))

	errs := ValidateSendMessageRequest(&req)
	require.Len(t, errs, 1)
	assert.Equal(t, []interface{}{"body", "template", "components"}, errs[0].Loc)
}

func TestValidateSendMessageRequest_Nil(t *testing.T) {
	errs := ValidateSendMessageRequest(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, []interface{}{"body"}, errs[0].Loc)
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Loc: []interface{}{"body", "to"}, Msg: "Field required"},
		{Loc: []interface{}{"body", "template", "components", 0}, Msg: "bad"},
	}
	assert.Equal(t, "body.to: Field required; body.template.components.0: bad", errs.Error())
}

func TestDecodeError(t *testing.T) {
	var req models.SendMessageRequest

	err := json.Unmarshal([]byte(`{"to": 5511}`), &req)
	require.Error(t, err)
	errs := DecodeError(err)
	require.Len(t, errs, 1)
	assert.Equal(t, []interface{}{"body", "to"}, errs[0].Loc)
	assert.Equal(t, "type_error", errs[0].Type)

	err = json.Unmarshal([]byte(`{not json`), &req)
	require.Error(t, err)
	errs = DecodeError(err)
	require.Len(t, errs, 1)
	assert.Equal(t, []interface{}{"body"}, errs[0].Loc)
	assert.Equal(t, "json_invalid", errs[0].Type)
}

func TestNamespaceToLoc(t *testing.T) {
	assert.Equal(t,
		[]interface{}{"body", "template", "components", 2, "parameters", 0, "text"},
		namespaceToLoc("SendMessageRequest.template.components[2].parameters[0].text"),
	)
	assert.Equal(t, []interface{}{"body", "to"}, namespaceToLoc("SendMessageRequest.to"))
}
