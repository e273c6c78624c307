package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/togglekit/togglekit/pkg/toggle"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// document is the on-disk toggle definition layout. Toggles and variants are
// lists rather than maps so the document fixes the variant order that bucket
// assignment depends on.
type document struct {
	Toggles []documentToggle `yaml:"toggles" json:"toggles"`
}

type documentToggle struct {
	Name     string            `yaml:"name" json:"name"`
	Active   bool              `yaml:"active" json:"active"`
	Variants []documentVariant `yaml:"variants,omitempty" json:"variants,omitempty"`
}

type documentVariant struct {
	Name    string `yaml:"name" json:"name"`
	Weight  int    `yaml:"weight" json:"weight"`
	Payload string `yaml:"payload,omitempty" json:"payload,omitempty"`
}

// ParseDocument decodes a toggle definition document, preserving document
// order. JSON documents are checked against the package schema before
// decoding; YAML documents go through a strict decoder that rejects unknown
// fields. A document without a toggles list is rejected, so a truncated or
// empty file can never be mistaken for a deliberate "no toggles" state,
// which is spelled "toggles: []".
func ParseDocument(data []byte, format string) ([]toggle.Toggle, error) {
	var doc document

	switch strings.ToLower(format) {
	case FormatJSON:
		if err := validateSchema(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Join(ErrInvalidDocument, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Join(ErrInvalidDocument, err)
		}
	default:
		return nil, errors.Join(ErrUnsupportedFormat, fmt.Errorf("format %q", format))
	}

	if doc.Toggles == nil {
		return nil, errors.Join(ErrInvalidDocument,
			errors.New("document has no toggles list"))
	}

	return doc.toToggles(), nil
}

// validateSchema checks raw JSON against the document schema. Violations are
// reported as a toggle.ValidationError so callers see the same error shape
// for schema and batch validation failures.
func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errors.Join(ErrInvalidDocument, err)
	}
	if !result.Valid() {
		fieldErrs := make([]toggle.FieldError, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			fieldErrs = append(fieldErrs, toggle.FieldError{
				Field:   re.Field(),
				Message: re.Description(),
			})
		}
		return errors.Join(ErrInvalidDocument, &toggle.ValidationError{Errors: fieldErrs})
	}
	return nil
}

func (d document) toToggles() []toggle.Toggle {
	out := make([]toggle.Toggle, 0, len(d.Toggles))
	for _, t := range d.Toggles {
		var variants []toggle.Variant
		if len(t.Variants) > 0 {
			variants = make([]toggle.Variant, 0, len(t.Variants))
			for _, v := range t.Variants {
				variants = append(variants, toggle.Variant{
					Name:    v.Name,
					Weight:  v.Weight,
					Payload: v.Payload,
				})
			}
		}
		out = append(out, toggle.Toggle{
			Name:     t.Name,
			Active:   t.Active,
			Variants: variants,
		})
	}
	return out
}

// formatForPath maps a document path to its format by extension.
func formatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Join(ErrUnsupportedFormat,
			fmt.Errorf("cannot determine format of %q", path))
	}
}
