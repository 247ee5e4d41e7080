package sink

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fmDelim = "---"

// renderFrontmatter writes fm as a YAML block followed by body.
func renderFrontmatter(fm any, body string) ([]byte, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("sink: encode frontmatter: %w", err)
	}
	var b bytes.Buffer
	b.WriteString(fmDelim + "\n")
	b.Write(data)
	b.WriteString(fmDelim + "\n\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

// splitFrontmatter separates the leading YAML block from the Markdown body.
// Without a well-formed block fm is nil and body is the whole input.
func splitFrontmatter(data []byte) (map[string]any, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(fmDelim)) {
		return nil, string(data)
	}

	rest := trimmed[len(fmDelim):]
	idx := bytes.Index(rest, []byte("\n"+fmDelim))
	if idx < 0 {
		return nil, string(data)
	}

	var fm map[string]any
	if err := yaml.Unmarshal(rest[:idx], &fm); err != nil {
		return nil, string(data)
	}
	body := strings.TrimLeft(string(rest[idx+1+len(fmDelim):]), "\n\r")
	return fm, body
}
