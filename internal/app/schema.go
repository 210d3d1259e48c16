package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"trip_planner/internal/domain"
)

// itinerarySchema is the contract the model's JSON answer has to satisfy
// before we trust it as a day-by-day plan.
const itinerarySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["days"],
  "properties": {
    "days": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["day", "activities"],
        "properties": {
          "day": {"type": "integer", "minimum": 1},
          "summary": {"type": "string"},
          "activities": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title"],
              "properties": {
                "slot": {"type": "string"},
                "title": {"type": "string", "minLength": 1},
                "description": {"type": "string"},
                "ref": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var itinerarySchemaLoader = gojsonschema.NewStringLoader(itinerarySchema)

// parseItinerary turns a completion answer into a validated Itinerary.
// Models occasionally fence the JSON in markdown despite instructions, so
// fences are stripped before validation.
func parseItinerary(content string) (*domain.Itinerary, error) {
	doc := stripFences(content)
	if doc == "" {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrGeneration)
	}

	res, err := gojsonschema.Validate(itinerarySchemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: schema: %s", domain.ErrGeneration, strings.Join(msgs, "; "))
	}

	var it domain.Itinerary
	if err := json.Unmarshal([]byte(doc), &it); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return &it, nil
}

// stripFences drops a surrounding ```json ... ``` block if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
