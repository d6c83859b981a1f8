package smtp

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/contactmail/pkg/mailer"
)

var headerValueCleaner = strings.NewReplacer("\r", "", "\n", "")

// newMessageID returns an RFC 5322 Message-ID in the sender's domain.
func newMessageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// buildMessage renders email as a multipart/alternative MIME message.
func buildMessage(email *mailer.Email, messageID string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf, "From", email.From)
	writeHeader(&buf, "To", strings.Join(email.To, ", "))
	if email.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", email.ReplyTo)
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", messageID)
	writeHeader(&buf, "MIME-Version", "1.0")

	keys := make([]string, 0, len(email.Headers))
	for k := range email.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		writeHeader(&buf, textproto.CanonicalMIMEHeaderKey(k), email.Headers[k])
	}

	mw := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	if email.Text != "" {
		if err := writePart(mw, "text/plain; charset=utf-8", email.Text); err != nil {
			return nil, err
		}
	}
	if err := writePart(mw, "text/html; charset=utf-8", email.HTML); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(headerValueCleaner.Replace(value))
	buf.WriteString("\r\n")
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}
