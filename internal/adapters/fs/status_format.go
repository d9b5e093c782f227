package fs

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bft-labs/turingcv/internal/domain"
)

// Status output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteStatus renders status to w as indented JSON or YAML.
func WriteStatus(w io.Writer, status domain.Status, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(status); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown status format %q", format)
	}
}
