package mailer

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider is a mock implementation of the Provider interface.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Verify(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProvider) Send(ctx context.Context, email *Email) (*Receipt, error) {
	args := m.Called(ctx, email)
	receipt, _ := args.Get(0).(*Receipt)
	return receipt, args.Error(1)
}

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html><body>{{.Content}}</body></html>`),
		},
		"welcome.md": &fstest.MapFile{
			Data: []byte("---\nSubject: Welcome {{.Name}}\n---\nHello **{{.Name}}**!\n"),
		},
		"plain.md": &fstest.MapFile{
			Data: []byte("No frontmatter here.\n"),
		},
	}
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	m := New(provider, NewRenderer(testTemplates(), ""))

	provider.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.To[0] == "alice@example.com" &&
			email.Subject == "Welcome Alice" &&
			email.From == "team@example.com" &&
			len(email.HTML) > 0 &&
			len(email.Text) > 0
	})).Return(&Receipt{ID: "msg-1"}, nil)

	receipt, err := m.Send(context.Background(), SendParams{
		To:       "alice@example.com",
		From:     "team@example.com",
		Template: "welcome.md",
		Data:     map[string]string{"Name": "Alice"},
	})
	require.NoError(t, err)
	require.Equal(t, "msg-1", receipt.ID)
	provider.AssertExpectations(t)
}

func TestMailer_Send_SubjectOverride(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	m := New(provider, NewRenderer(testTemplates(), ""))

	provider.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.Subject == "Custom"
	})).Return(&Receipt{ID: "msg-2"}, nil)

	_, err := m.Send(context.Background(), SendParams{
		To:       "alice@example.com",
		Template: "welcome.md",
		Subject:  "Custom",
		Data:     map[string]string{"Name": "Alice"},
	})
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestMailer_Send_NoSubjectAnywhere(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	m := New(provider, NewRenderer(testTemplates(), ""))

	_, err := m.Send(context.Background(), SendParams{To: "alice@example.com", Template: "plain.md"})
	require.ErrorIs(t, err, ErrNoSubject)
	provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	m := New(provider, NewRenderer(testTemplates(), ""))

	_, err := m.Send(context.Background(), SendParams{Template: "welcome.md"})
	require.ErrorIs(t, err, ErrNoRecipient)
}

func TestMailer_Send_TemplateNotFound(t *testing.T) {
	t.Parallel()

	m := New(&MockProvider{}, NewRenderer(testTemplates(), ""))

	_, err := m.Send(context.Background(), SendParams{To: "a@example.com", Template: "missing.md"})
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestMailer_Send_ProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	m := New(provider, NewRenderer(testTemplates(), ""))

	providerErr := NewProviderError("test", CodeEnvelope, errors.New("recipient rejected"))
	provider.On("Send", mock.Anything, mock.Anything).Return(nil, providerErr)

	_, err := m.Send(context.Background(), SendParams{
		To:       "alice@example.com",
		Template: "welcome.md",
		Data:     map[string]string{"Name": "Alice"},
	})
	require.ErrorIs(t, err, ErrSendFailed)

	pe, ok := AsProviderError(err)
	require.True(t, ok)
	require.Equal(t, CodeEnvelope, pe.Code)
}

func TestMailer_SendRaw_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email *Email
		want  error
	}{
		{"no recipient", &Email{Subject: "s", HTML: "<p>x</p>"}, ErrNoRecipient},
		{"no subject", &Email{To: []string{"a@example.com"}, HTML: "<p>x</p>"}, ErrNoSubject},
		{"no content", &Email{To: []string{"a@example.com"}, Subject: "s"}, ErrNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &MockProvider{}
			_, err := New(provider, nil).SendRaw(context.Background(), tt.email)
			require.ErrorIs(t, err, tt.want)
			provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestMailer_Verify(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		provider := &MockProvider{}
		provider.On("Verify", mock.Anything).Return(nil)
		require.NoError(t, New(provider, nil).Verify(context.Background()))
	})

	t.Run("failure keeps provider error", func(t *testing.T) {
		t.Parallel()

		provider := &MockProvider{}
		provider.On("Verify", mock.Anything).Return(NewProviderError("test", CodeAuth, errors.New("bad credentials")))

		err := New(provider, nil).Verify(context.Background())
		require.ErrorIs(t, err, ErrVerifyFailed)

		pe, ok := AsProviderError(err)
		require.True(t, ok)
		require.Equal(t, CodeAuth, pe.Code)
	})
}
