// Package export renders documents as canonical .feature text, JSON or
// Markdown. Rendering is deterministic: the same document always produces
// the same bytes.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
)

// Format selects a renderer.
type Format int

const (
	FormatFeature Format = iota
	FormatJSON
	FormatMarkdown
)

var formatNames = [...]string{"feature", "json", "markdown"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// Extension returns the conventional file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	default:
		return ".feature"
	}
}

// ParseFormat accepts feature, json, markdown and md, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "feature":
		return FormatFeature, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return 0, fmt.Errorf("unknown format %q (want feature, json or markdown)", s)
}

// RenderError reports a failed render or write. Path is empty when nothing
// was being written.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path == "" {
		return "render: " + e.Err.Error()
	}
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Render renders doc in format.
func Render(doc *gherkin.Document, format Format) (string, error) {
	switch format {
	case FormatFeature:
		return FormatDocument(doc), nil
	case FormatJSON:
		out, err := EncodeJSON(doc)
		if err != nil {
			return "", &RenderError{Err: err}
		}
		return out, nil
	case FormatMarkdown:
		return RenderMarkdown(doc), nil
	}
	return "", &RenderError{Err: fmt.Errorf("unknown format %d", int(format))}
}

// Export renders doc and writes it to path, replacing any existing file
// only once the new content is fully written.
func Export(doc *gherkin.Document, path string, format Format) error {
	content, err := Render(doc, format)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, []byte(content)); err != nil {
		return &RenderError{Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
