package onefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Document is the fully ordered content of the output stream: optional
// header bytes, optional metadata block, optional table of contents, then
// one block per file.
type Document struct {
	Header    []byte       // Prepended verbatim.
	Metadata  string       // Formatted metadata block, may be empty.
	TOC       bool         // Emit the table-of-contents block.
	Separator string       // Written before each file's path.
	Files     []LoadedFile // Must already be sorted.
}

var newline = []byte("\n")

// TableOfContents renders the TOC block, predicting for every file the
// 1-based line number at which its separator line will appear in the final
// output. The counter is seeded with the newline counts of the header and
// metadata blocks plus the TOC's own lines (one per entry plus three
// decoration lines); each entry then advances it by the file's newline
// count plus two, one for the separator line and one for the newline the
// assembler appends after the content. Render emits exactly those bytes, so
// the prediction is exact even for files without a trailing newline.
func (d *Document) TableOfContents() []byte {
	var b bytes.Buffer
	b.WriteString("// Table of Contents\n")
	b.WriteString("// ==================\n")

	line := bytes.Count(d.Header, newline) +
		bytes.Count([]byte(d.Metadata), newline) +
		len(d.Files) + 3 + 1
	for _, f := range d.Files {
		fmt.Fprintf(&b, "// Ln%d : %s\n", line, f.Path)
		line += bytes.Count(f.Content, newline) + 2
	}

	b.WriteString("// ==================\n")
	return b.Bytes()
}

// Render assembles the document onto w: header, metadata, table of
// contents, then for each file a separator line, the raw content, and a
// trailing newline. A write failure is fatal to the run.
func (d *Document) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if len(d.Header) > 0 {
		if _, err := bw.Write(d.Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if d.Metadata != "" {
		if _, err := bw.WriteString(d.Metadata); err != nil {
			return fmt.Errorf("writing metadata: %w", err)
		}
	}
	if d.TOC && len(d.Files) > 0 {
		if _, err := bw.Write(d.TableOfContents()); err != nil {
			return fmt.Errorf("writing table of contents: %w", err)
		}
	}

	for _, f := range d.Files {
		if _, err := fmt.Fprintf(bw, "%s %s\n", d.Separator, f.Path); err != nil {
			return fmt.Errorf("writing separator for %s: %w", f.Path, err)
		}
		if _, err := bw.Write(f.Content); err != nil {
			return fmt.Errorf("writing content of %s: %w", f.Path, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing content of %s: %w", f.Path, err)
		}
	}

	return bw.Flush()
}

// countLines counts the lines of content the way a reader would: a final
// partial line still counts.
func countLines(content []byte) int {
	n := bytes.Count(content, newline)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		n++
	}
	return n
}
