package contact

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/dmitrymomot/contactmail/pkg/mailer"
	"github.com/dmitrymomot/contactmail/pkg/sanitizer"
)

//go:embed templates
var templatesFS embed.FS

const testTemplate = "test.md"

var contactHTML = template.Must(template.New("contact.html").
	Funcs(template.FuncMap{"nl2br": nl2br}).
	ParseFS(templatesFS, "templates/contact.html"))

// newRenderer serves the markdown test mail and its layout.
func newRenderer() *mailer.Renderer {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return mailer.NewRenderer(sub, "layouts")
}

// DefaultSubject is used when the submitter leaves the subject empty.
func DefaultSubject(name string) string {
	return "Nuevo mensaje de " + name
}

// compose builds the outbound message for a submission. The sender is always
// the configured identity; the submitter only appears as Reply-To.
func compose(sub *Submission, s Settings) (*mailer.Email, error) {
	subject := sub.Subject
	if subject == "" {
		subject = DefaultSubject(sub.Name)
	}

	var html bytes.Buffer
	if err := contactHTML.Execute(&html, sub); err != nil {
		return nil, fmt.Errorf("%w: contact body: %v", mailer.ErrRenderFailed, err)
	}

	return &mailer.Email{
		From:    mailer.Address(s.SenderName, s.SenderEmail),
		To:      []string{s.Recipient},
		ReplyTo: sub.Email,
		Subject: subject,
		Text:    fmt.Sprintf("Nombre: %s\nEmail: %s\nMensaje: %s", sub.Name, sub.Email, sub.Message),
		HTML:    sanitizer.SanitizeEmailHTML(html.String()),
		Headers: map[string]string{"X-Contact-Source": "contact-form"},
	}, nil
}

// nl2br escapes s and turns its line breaks into <br>.
func nl2br(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = template.HTMLEscapeString(l)
	}
	return template.HTML(strings.Join(lines, "<br>")) //nolint:gosec // every line is escaped above
}
