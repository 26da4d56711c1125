// Package render provides CLI output rendering.
//
// All commands emit JSON: machine-readable by default, indented with
// --pretty for human consumption.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Renderer writes command responses.
type Renderer struct {
	out    io.Writer
	pretty bool
}

// NewRenderer creates a renderer from CLI flags, writing to stdout.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	return &Renderer{
		out:    os.Stdout,
		pretty: c.Bool("pretty"),
	}, nil
}

// NewRendererTo creates a renderer writing to the given writer.
// Used by tests.
func NewRendererTo(w io.Writer, pretty bool) *Renderer {
	return &Renderer{out: w, pretty: pretty}
}

// Render writes the value as JSON.
func (r *Renderer) Render(v any) error {
	enc := json.NewEncoder(r.out)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
