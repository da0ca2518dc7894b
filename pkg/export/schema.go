package export

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation is returned when a document does not match the export schema.
var ErrSchemaViolation = errors.New("document violates export schema")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema of export documents.
func Schema() []byte {
	return schemaJSON
}

// Validate checks doc against the export schema and the series invariants the
// schema cannot express.
func Validate(doc Document) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate export document: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}

		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
	}

	for i, p := range doc.Series {
		if p.Closed > p.Total || p.InProgress != p.Total-p.Closed {
			return fmt.Errorf("%w: series[%d] %s has total=%d closed=%d in_progress=%d",
				ErrSchemaViolation, i, p.Date, p.Total, p.Closed, p.InProgress)
		}
	}

	return nil
}
