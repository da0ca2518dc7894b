package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document serialization.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown format")

const yamlIndent = 2

// ParseFormat converts a format name; "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Encode validates doc and writes it in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	validateErr := Validate(doc)
	if validateErr != nil {
		return validateErr
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		encodeErr := enc.Encode(doc)
		if encodeErr != nil {
			return fmt.Errorf("encode json: %w", encodeErr)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)

		encodeErr := enc.Encode(doc)
		if encodeErr != nil {
			return fmt.Errorf("encode yaml: %w", encodeErr)
		}

		closeErr := enc.Close()
		if closeErr != nil {
			return fmt.Errorf("encode yaml: %w", closeErr)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return nil
}

// Decode reads a document in the given format and validates it.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document

	switch format {
	case FormatJSON:
		decodeErr := json.NewDecoder(r).Decode(&doc)
		if decodeErr != nil {
			return Document{}, fmt.Errorf("decode json: %w", decodeErr)
		}
	case FormatYAML:
		decodeErr := yaml.NewDecoder(r).Decode(&doc)
		if decodeErr != nil {
			return Document{}, fmt.Errorf("decode yaml: %w", decodeErr)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	validateErr := Validate(doc)
	if validateErr != nil {
		return Document{}, validateErr
	}

	return doc, nil
}

// FormatForPath picks the format of a file from its extension, ignoring a
// trailing .lz4. JSON is the default.
func FormatForPath(path string) Format {
	base := strings.TrimSuffix(strings.ToLower(path), Extension)

	if strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml") {
		return FormatYAML
	}

	return FormatJSON
}
