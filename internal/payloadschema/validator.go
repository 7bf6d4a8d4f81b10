// Package payloadschema validates JSON payloads accepted from outside the
// process against embedded JSON schemas.
package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed change_event.schema.json
var changeEventSchemaJSON string

//go:embed glossary_import.schema.json
var glossaryImportSchemaJSON string

// ChangeEvent is a text change pushed over HTTP.
type ChangeEvent struct {
	Text   string  `json:"text"`
	Source *string `json:"source,omitempty"`
}

type GlossaryImport struct {
	Entries []GlossaryImportEntry `json:"entries"`
}

type GlossaryImportEntry struct {
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang"`
	Term       string `json:"term"`
	Meaning    string `json:"meaning"`
}

type embeddedSchema struct {
	name   string
	source string

	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var (
	changeEventSchema    = &embeddedSchema{name: "change_event.schema.json", source: changeEventSchemaJSON}
	glossaryImportSchema = &embeddedSchema{name: "glossary_import.schema.json", source: glossaryImportSchemaJSON}
)

func ValidateChangeEventPayload(payload []byte) (*ChangeEvent, error) {
	var event ChangeEvent
	if err := validateInto(changeEventSchema, payload, &event); err != nil {
		return nil, err
	}
	if strings.TrimSpace(event.Text) == "" {
		return nil, fmt.Errorf("text must not be blank")
	}
	return &event, nil
}

func ValidateGlossaryImportPayload(payload []byte) (*GlossaryImport, error) {
	var doc GlossaryImport
	if err := validateInto(glossaryImportSchema, payload, &doc); err != nil {
		return nil, err
	}
	for i, entry := range doc.Entries {
		if strings.TrimSpace(entry.Term) == "" {
			return nil, fmt.Errorf("entries[%d].term must not be blank", i)
		}
		if strings.TrimSpace(entry.Meaning) == "" {
			return nil, fmt.Errorf("entries[%d].meaning must not be blank", i)
		}
	}
	return &doc, nil
}

func validateInto(s *embeddedSchema, payload []byte, out any) error {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := s.load()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("normalize payload JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

func (s *embeddedSchema) load() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource(s.name, strings.NewReader(s.source)); err != nil {
			s.err = fmt.Errorf("add schema resource %s: %w", s.name, err)
			return
		}
		schema, err := compiler.Compile(s.name)
		if err != nil {
			s.err = fmt.Errorf("compile schema %s: %w", s.name, err)
			return
		}
		s.schema = schema
	})

	if s.err != nil {
		return nil, s.err
	}
	if s.schema == nil {
		return nil, fmt.Errorf("schema %s not initialized", s.name)
	}
	return s.schema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}
	return value, nil
}
