package mets

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// Parse decodes a METS manifest. Syntax errors keep their line number.
func Parse(data []byte) (*Document, error) {
	var doc Document
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		return nil, wrapXMLError(err)
	}
	return &doc, nil
}

func wrapXMLError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: line %d: %s", aipx.ErrInvalidManifest, syntaxErr.Line, syntaxErr.Msg)
	}
	return fmt.Errorf("%w: %v", aipx.ErrInvalidManifest, err)
}
