package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/checkmark/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting raw catalog bytes into a Catalog.
type Parser struct {
	strict bool
}

// NewParser creates a new parser instance. Unknown fields are rejected.
func NewParser() *Parser {
	return &Parser{strict: true}
}

// Parse decodes a YAML or JSON catalog. JSON is accepted as a subset of YAML.
func (p *Parser) Parse(data []byte) (*schema.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(p.strict)

	var cat schema.Catalog
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse catalog: empty document")
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &cat, nil
}
