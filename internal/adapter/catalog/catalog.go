// Package catalog reads the static catalog document {"products": [...]}
// from a file or over HTTP.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	SourceFile  = "file"
	SourceHTTP  = "http"
	SourceKafka = "kafka"
)

var (
	ErrBadStatus  = errors.New("unexpected response status")
	ErrNoProducts = errors.New("document has no products field")
)

// document is the static catalog resource: {"products": [...]}.
type document struct {
	Products *[]domain.Product `json:"products"`
}

func decodeDocument(r io.Reader) ([]domain.Product, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if doc.Products == nil {
		return nil, ErrNoProducts
	}
	return *doc.Products, nil
}
