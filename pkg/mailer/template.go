package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// Template is a markdown email template split into frontmatter and body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// Subject returns the "Subject" frontmatter value, if any.
func (t *Template) Subject() string {
	s, _ := t.Metadata["Subject"].(string)
	return s
}

// ParseTemplate splits content into YAML frontmatter and markdown body.
// Content without a leading "---" line has no metadata.
func ParseTemplate(content []byte) (*Template, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(content, frontmatterDelimiter) {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(content[len(frontmatterDelimiter):], "\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	head, body, found := bytes.Cut(rest, frontmatterDelimiter)
	if !found {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}
	body = bytes.TrimPrefix(body, []byte("\n"))

	metadata := map[string]any{}
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{Metadata: metadata, Body: string(body)}, nil
}
