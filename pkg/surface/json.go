package surface

import (
	"encoding/json"
	"io"
)

// JSONRenderer marshals a Scorecard to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, card *Scorecard) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(card)
}
