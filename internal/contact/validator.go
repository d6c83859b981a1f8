package contact

import (
	"context"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/contactmail/pkg/logger"
)

// Submission is one validated contact-form payload.
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// Validator checks raw payloads before anything talks to a provider.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator. A nil logger discards output.
func NewValidator(log *slog.Logger) *Validator {
	if log == nil {
		log = logger.NewNope()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, logger: log}
}

// Validate turns a decoded JSON object into a Submission.
// Values that are not strings count as missing. The email address is only
// checked for presence; it ends up as Reply-To, never as the sender.
func (v *Validator) Validate(ctx context.Context, payload map[string]any) (*Submission, error) {
	v.logger.DebugContext(ctx, "contact submission received", slog.Any("payload", payload))

	sub := &Submission{
		Name:    stringField(payload, "name"),
		Email:   stringField(payload, "email"),
		Subject: stringField(payload, "subject"),
		Message: stringField(payload, "message"),
	}

	err := v.validate.StructCtx(ctx, sub)
	if err == nil {
		return sub, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, &Error{Kind: KindUnknown, Code: CodeUnknown, Message: "Unknown error", Err: err}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" is required")
	}
	return nil, validationError(fields)
}

// Reject builds the validation error for a body that is not a JSON object.
func Reject(reason string) error {
	return validationError([]string{reason})
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}
