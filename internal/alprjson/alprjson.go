// Package alprjson models the JSON document a plate recognizer prints in its
// structured-output mode and checks documents against the expected shape.
package alprjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrEmptyDocument is returned by ValidateDocument for null, "", 0, false,
// {} and [] documents.
var ErrEmptyDocument = errors.New("JSON empty")

// Response is the subset of the recognizer output the harness relies on.
// Results are ordered best first. Timing and confidence fields are not read
// and may carry any type.
type Response struct {
	Results []PlateResult `json:"results"`
}

// PlateResult is one detected plate and its best reading.
type PlateResult struct {
	Plate string `json:"plate"`
}

// TopCandidate returns the plate text of the first result, if any.
func (r Response) TopCandidate() (string, bool) {
	if len(r.Results) == 0 {
		return "", false
	}
	return r.Results[0].Plate, true
}

// responseSchema constrains only the fields the harness reads.
var responseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"results": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"plate": map[string]any{"type": "string"},
				},
			},
		},
	},
}

// documentSchema is the light check applied to arbitrary JSON files: when
// the top level is an object carrying "results", it must be a list.
var documentSchema = map[string]any{
	"properties": map[string]any{
		"results": map[string]any{"type": "array"},
	},
}

var (
	compileResponse = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewGoLoader(responseSchema))
	})
	compileDocument = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewGoLoader(documentSchema))
	})
)

// ParseResponse decodes recognizer stdout. Blank output decodes as an empty
// object, i.e. a successful run that produced no results.
func ParseResponse(raw []byte) (Response, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Response{}, nil
	}

	schema, err := compileResponse()
	if err != nil {
		return Response{}, fmt.Errorf("compile response schema: %w", err)
	}
	if err := validate(schema, trimmed); err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return Response{}, fmt.Errorf("decode recognizer output: %w", err)
	}
	return resp, nil
}

// ValidateDocument performs the one-shot well-formedness check: the bytes
// must parse as JSON, must not be empty, and must satisfy documentSchema.
func ValidateDocument(raw []byte) error {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if isEmpty(data) {
		return ErrEmptyDocument
	}

	schema, err := compileDocument()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}
	if err := validate(schema, raw); err != nil {
		if obj, ok := data.(map[string]any); ok {
			if _, has := obj["results"]; has {
				return fmt.Errorf("results field exists but is not a list")
			}
		}
		return err
	}
	return nil
}

func validate(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("JSON validation failed: %s", strings.Join(errs, ", "))
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
