package dispatch

import (
	"encoding/json"
	"errors"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/notify"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

// Envelope is the body accepted by /main.
type Envelope struct {
	KoreChainAPI  APIRequest    `json:"KoreChainAPI"`
	Notifications []notify.Spec `json:"Notifications"`
}

// APIRequest selects an operation. An empty API means no ledger call.
type APIRequest struct {
	API     string                 `json:"API"`
	Payload map[string]interface{} `json:"API_payload"`
}

var envelopeSchema = schema.Object(
	schema.Required("KoreChainAPI", schema.Object(
		schema.Required("API_payload", schema.Map()),
		schema.Required("API", schema.String().AllowEmpty()),
	)),
	schema.Required("Notifications", schema.Array(schema.Object(
		schema.Required("Recipient", schema.String().URI()),
		schema.Required("Notification_Payload", schema.Map()),
		schema.Required("token", schema.String().AllowEmpty()),
	))),
)

// DecodeEnvelope validates the outer shape of body. Failures are structural
// errors carrying the first offending field.
func DecodeEnvelope(body map[string]interface{}) (*Envelope, error) {
	values, err := envelopeSchema.Validate(body)
	if err != nil {
		var fe *schema.FieldError
		if errors.As(err, &fe) {
			return nil, svcerrors.Structural(fe.Message).WithDetail("field", fe.Path)
		}
		return nil, svcerrors.Structural(err.Error())
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, svcerrors.Internal("encode envelope", err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, svcerrors.Structural(err.Error())
	}
	if env.KoreChainAPI.Payload == nil {
		env.KoreChainAPI.Payload = map[string]interface{}{}
	}
	return &env, nil
}
