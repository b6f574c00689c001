// Package typeid generates the prefixed, sortable ids used for shapes and
// relay connections.
package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixShape      = "shp"
	PrefixConnection = "conn"
)

func New(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

// NewShapeID is the default local id for shapes drawn by this client. Peers
// may use any non-empty string.
func NewShapeID() string      { return New(PrefixShape) }
func NewConnectionID() string { return New(PrefixConnection) }

// Validate reports whether id parses as a typeid carrying prefix.
func Validate(id, prefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", id, err)
	}
	if got := parsed.Prefix(); got != prefix {
		return fmt.Errorf("id %q has prefix %q, want %q", id, got, prefix)
	}
	return nil
}
