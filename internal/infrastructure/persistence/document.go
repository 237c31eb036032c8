// Package persistence stores the shop's aggregates as whole JSON documents.
//
// Every aggregate (catalog, orders, customers, users and each cart session)
// lives in one named document. A DocumentStore only knows how to read and
// replace documents by name; the file, bolt and gorm drivers differ in where
// the bytes end up. Collection layers a committed in-memory snapshot on top
// so readers never observe a half-applied mutation.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	jsoniter "github.com/json-iterator/go"
)

// Document names
const (
	DocumentProducts  = "products"
	DocumentOrders    = "orders"
	DocumentCustomers = "customers"
	DocumentUsers     = "users"
	DocumentCart      = "cart"
)

// ErrDocumentNotFound is returned by Load when no document has the given name
var ErrDocumentNotFound = errors.New("document not found")

var documentName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// DocumentStore reads and replaces named JSON documents
type DocumentStore interface {
	// Load returns the raw bytes of a document or ErrDocumentNotFound
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces a document. After Save returns nil a subsequent Load
	// returns exactly data, even after a process restart.
	Save(ctx context.Context, name string, data []byte) error

	// Names lists every stored document
	Names(ctx context.Context) ([]string, error)

	// Driver names the backend for logs and metrics
	Driver() string

	Close() error
}

func validateName(name string) error {
	if !documentName.MatchString(name) {
		return fmt.Errorf("invalid document name %q", name)
	}
	return nil
}

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode renders v as two-space indented JSON
func Encode(v any) ([]byte, error) {
	raw, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses a stored document into v
func Decode(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}
