package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns markdown templates with YAML frontmatter into HTML
// wrapped in a layout. Parsed templates are cached; rendered output is not.
type Renderer struct {
	fs        fs.FS
	md        goldmark.Markdown
	layoutDir string

	mu        sync.RWMutex
	templates map[string]*parsedTemplate
	layouts   map[string]*template.Template
}

type parsedTemplate struct {
	meta    *Template
	body    *texttemplate.Template
	subject *texttemplate.Template
}

// RenderResult contains the rendered HTML, plain text, subject and metadata.
type RenderResult struct {
	Metadata map[string]any
	Subject  string // Executed "Subject" frontmatter, empty if absent
	HTML     string
	Text     string // Processed markdown before HTML conversion
}

// NewRenderer creates a renderer reading templates from the root of fsys
// and layouts from layoutDir ("layouts" if empty).
// Single newlines in markdown are kept as line breaks.
func NewRenderer(fsys fs.FS, layoutDir string) *Renderer {
	if layoutDir == "" {
		layoutDir = "layouts"
	}
	return &Renderer{
		fs:        fsys,
		layoutDir: layoutDir,
		md:        goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		templates: make(map[string]*parsedTemplate),
		layouts:   make(map[string]*template.Template),
	}
}

// Render executes templateName with data and wraps the HTML in layout.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	tpl, err := r.template(templateName)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := tpl.body.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, templateName, err)
	}

	var subject bytes.Buffer
	if tpl.subject != nil {
		if err := tpl.subject.Execute(&subject, data); err != nil {
			return nil, fmt.Errorf("%w: execute subject: %v", ErrRenderFailed, err)
		}
	}

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %v", ErrRenderFailed, err)
	}

	lt, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := lt.Execute(&out, map[string]any{
		"Content":  template.HTML(content.String()),
		"Metadata": tpl.meta.Metadata,
		"Subject":  subject.String(),
	}); err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: tpl.meta.Metadata,
		Subject:  subject.String(),
		HTML:     out.String(),
		Text:     markdown.String(),
	}, nil
}

func (r *Renderer) template(name string) (*parsedTemplate, error) {
	r.mu.RLock()
	tpl, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	content, err := fs.ReadFile(r.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	meta, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	tpl = &parsedTemplate{meta: meta}
	if tpl.body, err = texttemplate.New(name).Parse(meta.Body); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	if s := meta.Subject(); s != "" {
		if tpl.subject, err = texttemplate.New(name + ":subject").Parse(s); err != nil {
			return nil, fmt.Errorf("%w: parse subject of %s: %v", ErrRenderFailed, name, err)
		}
	}

	r.mu.Lock()
	r.templates[name] = tpl
	r.mu.Unlock()
	return tpl, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	lt, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return lt, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	lt, err = template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, name, err)
	}

	r.mu.Lock()
	r.layouts[name] = lt
	r.mu.Unlock()
	return lt, nil
}
