package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Metadata is the project information block emitted at the top of the
// combined output.
type Metadata struct {
	Module    string
	GoVersion string
	Readme    string
}

// Common README file names, tried in order.
var readmeNames = []string{"README.md", "README", "Readme.md"}

// Metadata gathers the project information block for the manifest,
// embedding the first readable README found in the manifest directory.
func (p *Project) Metadata() *Metadata {
	m := &Metadata{
		Module:    p.ModulePath,
		GoVersion: p.GoVersion,
	}
	for _, name := range readmeNames {
		content, err := os.ReadFile(filepath.Join(p.Dir, name))
		if err == nil {
			m.Readme = string(content)
			break
		}
	}
	return m
}

// Format renders the metadata block as comment lines. Every line it emits
// ends with a newline, so callers can count lines by counting newlines.
func (m *Metadata) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Project: %s\n", m.Module)
	if m.GoVersion != "" {
		fmt.Fprintf(&b, "// Go: %s\n", m.GoVersion)
	}
	b.WriteString("\n")

	if m.Readme != "" {
		b.WriteString("// README\n")
		b.WriteString("// ======\n")
		for _, line := range strings.Split(strings.TrimSuffix(m.Readme, "\n"), "\n") {
			fmt.Fprintf(&b, "// %s\n", line)
		}
		b.WriteString("// ======\n\n")
	}

	return b.String()
}
