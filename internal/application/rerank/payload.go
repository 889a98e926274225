package rerank

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

const ellipsis = "…"

var (
	errNoJSONObject   = errors.New("response contains no JSON object")
	errPayloadInvalid = errors.New("payload failed schema validation")
)

// payloadSchema is the only shape accepted from the model
const payloadSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["recommendations"],
  "properties": {
    "recommendations": {
      "type": "array",
      "minItems": 1,
      "maxItems": 20,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["recipeId", "rationale"],
        "properties": {
          "recipeId": {"type": "string", "minLength": 1, "maxLength": 64},
          "rationale": {"type": "string", "maxLength": 2000},
          "healthySwap": {"type": ["string", "null"], "maxLength": 2000},
          "swapRecipeId": {"type": ["string", "null"], "maxLength": 64}
        }
      }
    }
  }
}`

// modelPayload mirrors payloadSchema
type modelPayload struct {
	Recommendations []modelPick `json:"recommendations"`
}

type modelPick struct {
	RecipeID     string  `json:"recipeId"`
	Rationale    string  `json:"rationale"`
	HealthySwap  *string `json:"healthySwap"`
	SwapRecipeID *string `json:"swapRecipeId"`
}

// PayloadValidator checks model output against payloadSchema
type PayloadValidator struct {
	schema *gojsonschema.Schema
}

// NewPayloadValidator compiles the payload schema
func NewPayloadValidator() (*PayloadValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(payloadSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile rerank schema: %w", err)
	}
	return &PayloadValidator{schema: schema}, nil
}

// Parse extracts the JSON object envelope from raw model text and validates it.
// Payloads that do not satisfy the schema are rejected, never repaired.
func (v *PayloadValidator) Parse(raw string) (*modelPayload, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, errNoJSONObject
	}
	body := []byte(raw[start : end+1])

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errPayloadInvalid, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", errPayloadInvalid, strings.Join(errs, "; "))
	}

	var payload modelPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errPayloadInvalid, err)
	}
	return &payload, nil
}

// Truncate bounds text to max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + ellipsis
}
