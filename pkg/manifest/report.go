package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is the machine-readable summary printed by "goreqs scan"
type Report struct {
	Root       string   `json:"root" yaml:"root"`
	Files      int      `json:"files" yaml:"files"`
	Dirs       int      `json:"dirs" yaml:"dirs"`
	LocalNames []string `json:"local_names" yaml:"local_names"`
	Candidates []string `json:"candidates" yaml:"candidates"`
	ThirdParty []string `json:"third_party" yaml:"third_party"`
}

// Output formats understood by WriteReport
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteReport renders r in the given format. Text output lists one
// third-party package per line.
func WriteReport(w io.Writer, r Report, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		for _, name := range r.ThirdParty {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (expected text, json or yaml)", format)
	}
}
