package smtp

import (
	"context"
	"log/slog"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactmail/pkg/mailer"
)

// fakeServer speaks just enough SMTP for the provider.
type fakeServer struct {
	ln         net.Listener
	authOK     bool
	rejectRcpt bool

	mu       sync.Mutex
	commands []string
	data     string
}

func newFakeServer(t *testing.T, opts ...func(*fakeServer)) *fakeServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeServer{ln: ln, authOK: true}
	for _, opt := range opts {
		opt(s)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go s.serve()
	return s
}

func (s *fakeServer) config() Config {
	return Config{
		Host:     "127.0.0.1",
		Port:     s.ln.Addr().(*net.TCPAddr).Port,
		Username: "owner@example.com",
		Password: "secret",
	}
}

func (s *fakeServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP fake")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()

		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			_ = tp.PrintfLine("250-localhost\r\n250-AUTH PLAIN\r\n250 8BITMIME")
		case strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250 localhost")
		case strings.HasPrefix(cmd, "AUTH"):
			if s.authOK {
				_ = tp.PrintfLine("235 2.7.0 Accepted")
			} else {
				_ = tp.PrintfLine("535 5.7.8 Username and Password not accepted")
			}
		case strings.HasPrefix(cmd, "MAIL FROM"):
			_ = tp.PrintfLine("250 2.1.0 OK")
		case strings.HasPrefix(cmd, "RCPT TO"):
			if s.rejectRcpt {
				_ = tp.PrintfLine("550 5.1.1 No such user")
			} else {
				_ = tp.PrintfLine("250 2.1.5 OK")
			}
		case cmd == "DATA":
			_ = tp.PrintfLine("354 Go ahead")
			b, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = string(b)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 OK queued as fake123")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 2.0.0 Bye")
			return
		default:
			_ = tp.PrintfLine("502 5.5.1 Unrecognized command")
		}
	}
}

func (s *fakeServer) snapshot() ([]string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...), s.data
}

func testEmail() *mailer.Email {
	return &mailer.Email{
		From:    mailer.Address("Portfolio Contact", "owner@example.com"),
		To:      []string{"owner@example.com"},
		ReplyTo: "visitor@example.org",
		Subject: "Hello",
		Text:    "Nombre: Jane\nMensaje: hi",
		HTML:    "<p>hi</p>",
	}
}

func TestProvider_Send(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t)
	p := New(srv.config())

	receipt, err := p.Send(context.Background(), testEmail())
	require.NoError(t, err)
	require.Equal(t, 250, receipt.StatusCode)
	require.Equal(t, "250 2.0.0 OK queued as fake123", receipt.Response)
	require.True(t, strings.HasPrefix(receipt.ID, "<"))
	require.True(t, strings.HasSuffix(receipt.ID, "@example.com>"))

	commands, data := srv.snapshot()
	require.Contains(t, commands, "MAIL FROM:<owner@example.com> BODY=8BITMIME")
	require.Contains(t, commands, "RCPT TO:<owner@example.com>")
	require.Contains(t, data, "Reply-To: visitor@example.org")
	require.Contains(t, data, "Subject: Hello")
	require.Contains(t, data, "Message-ID: "+receipt.ID)
	require.Contains(t, data, "multipart/alternative")
	require.Contains(t, data, "Nombre: Jane")
	require.Contains(t, data, "<p>hi</p>")
}

func TestProvider_Send_DefaultsSender(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t)
	email := testEmail()
	email.From = ""

	_, err := New(srv.config()).Send(context.Background(), email)
	require.NoError(t, err)
	require.Empty(t, email.From, "caller's email must not be modified")

	_, data := srv.snapshot()
	require.Contains(t, data, "From: owner@example.com")
}

func TestProvider_Verify(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t)
	require.NoError(t, New(srv.config()).Verify(context.Background()))

	commands, _ := srv.snapshot()
	require.Contains(t, commands, "QUIT")
}

func TestProvider_AuthFailure(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t, func(s *fakeServer) { s.authOK = false })

	err := New(srv.config()).Verify(context.Background())
	require.Error(t, err)

	pe, ok := mailer.AsProviderError(err)
	require.True(t, ok)
	require.Equal(t, mailer.CodeAuth, pe.Code)
	require.Equal(t, 535, pe.StatusCode)
	require.Equal(t, "smtp", pe.Provider)
	require.Contains(t, pe.Message, "Username and Password not accepted")
}

func TestProvider_RecipientRejected(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t, func(s *fakeServer) { s.rejectRcpt = true })

	_, err := New(srv.config()).Send(context.Background(), testEmail())
	require.Error(t, err)

	pe, ok := mailer.AsProviderError(err)
	require.True(t, ok)
	require.Equal(t, mailer.CodeEnvelope, pe.Code)
	require.Equal(t, 550, pe.StatusCode)
}

func TestProvider_ConnectionRefused(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	p := New(Config{Host: "127.0.0.1", Port: port, Username: "u", Password: "p"})
	err = p.Verify(context.Background())
	require.Error(t, err)

	pe, ok := mailer.AsProviderError(err)
	require.True(t, ok)
	require.Equal(t, mailer.CodeSocket, pe.Code)
}

func TestProvider_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(srv.config()).Verify(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	_, ok := mailer.AsProviderError(err)
	require.True(t, ok)
}

func TestProvider_Describe(t *testing.T) {
	t.Parallel()

	p := New(Config{Host: "smtp.gmail.com", Port: 465, Username: "owner@example.com", Password: "secret"})

	attrs := map[string]slog.Value{}
	for _, a := range p.Describe() {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, "own***", attrs["user"].String())
	require.Equal(t, int64(6), attrs["password_length"].Int64())
	for _, v := range attrs {
		require.NotContains(t, v.String(), "secret")
	}
}

func TestConfig_Configured(t *testing.T) {
	t.Parallel()

	require.True(t, Config{Host: "h", Username: "u", Password: "p"}.Configured())
	require.False(t, Config{Host: "h", Username: "u"}.Configured())
	require.False(t, Config{Host: "h", Password: "p"}.Configured())
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.ReplyTo = "visitor@example.org\r\nBcc: evil@example.net"
	email.Subject = "Nuevo mensaje de José"
	email.Headers = map[string]string{"x-source": "contact-form"}

	raw, err := buildMessage(email, "<id@example.com>", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	msg := string(raw)
	require.NotContains(t, msg, "\r\nBcc:")
	require.Contains(t, msg, "Reply-To: visitor@example.orgBcc: evil@example.net\r\n")
	require.Contains(t, msg, "Subject: =?utf-8?q?")
	require.Contains(t, msg, "X-Source: contact-form\r\n")
	require.Contains(t, msg, "Date: Tue, 02 Jan 2024 03:04:05 +0000\r\n")
	require.Contains(t, msg, "Content-Type: text/plain; charset=utf-8")
	require.Contains(t, msg, "Content-Type: text/html; charset=utf-8")
}

func TestNewMessageID(t *testing.T) {
	t.Parallel()

	require.True(t, strings.HasSuffix(newMessageID("owner@example.com"), "@example.com>"))
	require.True(t, strings.HasSuffix(newMessageID("nodomain"), "@localhost>"))
	require.NotEqual(t, newMessageID("a@b.c"), newMessageID("a@b.c"))
}
