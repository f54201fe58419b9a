package model

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Encode writes the projection as "json", "yaml" or colored "text".
func (p Projection) Encode(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(p)
		if err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		_, err := io.WriteString(w, FormatProjection(p))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
