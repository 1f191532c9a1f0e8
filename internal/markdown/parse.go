package markdown

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Document is a Markdown file with optional YAML frontmatter.
type Document struct {
	Frontmatter map[string]any
	Body        string
	raw         []byte
}

// Decode unmarshals the frontmatter into v.
func (d Document) Decode(v any) error {
	if len(d.raw) == 0 {
		return errors.New("markdown: document has no frontmatter")
	}
	return yaml.Unmarshal(d.raw, v)
}

// ParseFile reads path and splits frontmatter from body.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse splits r into frontmatter and body. Frontmatter must start on the
// first line and end at the next line containing only "---".
func Parse(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(len(fence))
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	hasFM := string(peek) == fence

	var fm bytes.Buffer
	if hasFM {
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Document{}, err
			}
			if strings.TrimSpace(l) == fence {
				break
			}
			fm.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return Document{}, err
	}

	d := Document{Frontmatter: map[string]any{}, Body: string(body)}
	if hasFM {
		if err := yaml.Unmarshal(fm.Bytes(), &d.Frontmatter); err != nil {
			return Document{}, err
		}
		if d.Frontmatter == nil {
			d.Frontmatter = map[string]any{}
		}
		d.raw = fm.Bytes()
	}
	return d, nil
}

// Render writes frontmatter and body as a Markdown document.
func Render(w io.Writer, frontmatter any, body string) error {
	fm, err := yaml.Marshal(frontmatter)
	if err != nil {
		return err
	}
	var b bytes.Buffer
	b.WriteString(fence + "\n")
	b.Write(fm)
	b.WriteString(fence + "\n\n")
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n")
	_, err = w.Write(b.Bytes())
	return err
}
