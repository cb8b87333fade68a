// ABOUTME: Markdown-with-frontmatter file helpers backed by an afero filesystem.
// ABOUTME: Renders and parses YAML frontmatter and writes files atomically via temp file + rename.
package mdfile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// TimeLayout is the timestamp format used inside frontmatter.
const TimeLayout = time.RFC3339Nano

// FormatTime formats t for frontmatter.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a frontmatter timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, strings.TrimSpace(s))
}

// RenderFrontmatter marshals fm as YAML and prepends it to body.
func RenderFrontmatter(fm any, body string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(delimiter + "\n")
	sb.Write(buf.Bytes())
	sb.WriteString(delimiter + "\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// ParseFrontmatter splits content into its YAML frontmatter and body.
// Returns an empty yaml string if content has no frontmatter.
func ParseFrontmatter(content string) (yamlStr, body string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, delimiter+"\n") {
		return "", content
	}
	rest := content[len(delimiter)+1:]

	end := strings.Index(rest, "\n"+delimiter+"\n")
	if end == -1 {
		if strings.HasSuffix(rest, "\n"+delimiter) {
			return rest[:len(rest)-len(delimiter)-1], ""
		}
		return "", content
	}
	return rest[:end], rest[end+len(delimiter)+2:]
}

// AtomicWrite writes data to path so readers see either the old or the new file, never a partial one.
func AtomicWrite(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = fs.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

// WriteYAML encodes v as YAML and writes it atomically to path.
func WriteYAML(fs afero.Fs, path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return AtomicWrite(fs, path, data)
}
