// internal/chat/usercontext/serialize.go
package usercontext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"lead-intelligence/internal/models"
)

var ErrInvalidContext = errors.New("CONTEXT_DESERIALIZE_FAILED")

const contextSchemaJSON = `{
  "type": "object",
  "required": ["sessionId", "createdAt", "lastActiveAt"],
  "properties": {
    "sessionId": {"type": "string", "minLength": 1},
    "companyName": {"type": ["string", "null"]},
    "industry": {"type": ["string", "null"]},
    "companySize": {"enum": ["startup", "smb", "mid_market", "enterprise", "unknown", null]},
    "painPoints": {"type": ["array", "null"], "items": {"type": "string"}},
    "useCases": {"type": ["array", "null"], "items": {"type": "string"}},
    "complianceFrameworks": {"type": ["array", "null"], "items": {"type": "string"}},
    "hasExistingAI": {"type": ["boolean", "null"]},
    "aiAgentCount": {"type": ["integer", "null"], "minimum": 0},
    "currentIntent": {"type": "string"},
    "questionsAsked": {"type": ["array", "null"], "items": {"type": "string"}},
    "topicsDiscussed": {"type": ["array", "null"], "items": {"type": "string"}},
    "cardsShown": {"type": ["array", "null"], "items": {"type": "string"}},
    "engagementLevel": {"enum": ["low", "medium", "high", ""]},
    "buyingSignals": {"type": ["array", "null"], "items": {"type": "string"}},
    "email": {"type": ["string", "null"]},
    "name": {"type": ["string", "null"]},
    "role": {"type": ["string", "null"]},
    "createdAt": {"type": "string", "format": "date-time"},
    "lastActiveAt": {"type": "string", "format": "date-time"}
  }
}`

var contextSchema = mustSchema(contextSchemaJSON)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("usercontext: invalid schema: %v", err))
	}
	return schema
}

// Serialize encodes the context; timestamps become RFC 3339 strings.
func Serialize(ctx *models.UserContext) (string, error) {
	b, err := json.Marshal(ctx)
	if err != nil {
		return "", fmt.Errorf("serialize context: %w", err)
	}
	return string(b), nil
}

// Deserialize validates raw against the context schema and decodes it.
func Deserialize(raw string) (*models.UserContext, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidContext)
	}

	result, err := contextSchema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidContext, errs)
	}

	var ctx models.UserContext
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}
	return &ctx, nil
}
