package classification

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"reelcheck/internal/textutil"
)

// ExtractionKind describes why a provider reply could not be turned into a record.
type ExtractionKind string

const (
	ExtractionNoObject    ExtractionKind = "no_object"
	ExtractionInvalidJSON ExtractionKind = "invalid_json"
	ExtractionSchema      ExtractionKind = "schema_mismatch"
)

// ExtractionError reports a provider reply that does not contain a usable
// classification record. It is a hard failure: compliance cannot be decided.
type ExtractionError struct {
	Kind    ExtractionKind
	Snippet string
	Err     error
}

func (e *ExtractionError) Error() string {
	var b strings.Builder
	b.WriteString("extract classification: ")
	switch e.Kind {
	case ExtractionNoObject:
		b.WriteString("no JSON object found")
	case ExtractionInvalidJSON:
		b.WriteString("invalid JSON")
	case ExtractionSchema:
		b.WriteString("payload does not match record schema")
	default:
		b.WriteString(string(e.Kind))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Snippet != "" {
		b.WriteString(" (payload snippet: ")
		b.WriteString(e.Snippet)
		b.WriteByte(')')
	}
	return b.String()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies extraction failures as validation problems.
func (e *ExtractionError) ErrorKind() string {
	return "validation"
}

// IsExtractionError reports whether err wraps an *ExtractionError.
func IsExtractionError(err error) bool {
	var target *ExtractionError
	return errors.As(err, &target)
}

const recordSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["explicit_content"],
  "properties": {
    "safe": {"type": ["string", "boolean", "null"]},
    "explicit_content": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "minItems": 1,
        "items": {"type": ["string", "boolean", "number", "null"]}
      }
    },
    "annotations": {
      "type": ["object", "null"],
      "additionalProperties": {
        "type": ["array", "string", "number", "null"]
      }
    }
  }
}`

var recordSchema = jsonschema.MustCompileString("classification-record.schema.json", recordSchemaJSON)

// Extract locates the JSON object embedded in a provider reply (first '{'
// through last '}') and decodes it as a Record.
func Extract(raw string) (Record, error) {
	payload, ok := embeddedObject(raw)
	if !ok {
		return Record{}, &ExtractionError{Kind: ExtractionNoObject, Snippet: textutil.Snippet(raw)}
	}
	return decode(payload)
}

// Decode parses a bare JSON record without searching for an embedded object.
func Decode(data []byte) (Record, error) {
	return decode(strings.TrimSpace(string(data)))
}

func decode(payload string) (Record, error) {
	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return Record{}, &ExtractionError{Kind: ExtractionInvalidJSON, Snippet: textutil.Snippet(payload), Err: err}
	}
	if err := recordSchema.Validate(doc); err != nil {
		return Record{}, &ExtractionError{Kind: ExtractionSchema, Snippet: textutil.Snippet(payload), Err: schemaDetail(err)}
	}

	var record Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return Record{}, &ExtractionError{Kind: ExtractionSchema, Snippet: textutil.Snippet(payload), Err: err}
	}
	if record.ExplicitContent == nil {
		record.ExplicitContent = map[Category]Finding{}
	}
	record.canonicalize()
	return record, nil
}

func embeddedObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(raw, "}")
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func schemaDetail(err error) error {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}
	leaf := validationErr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	location := leaf.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Errorf("%s: %s", location, leaf.Message)
}
