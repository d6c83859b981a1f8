// Package contact validates contact-form submissions and relays them to the
// operator inbox through a mail provider.
//
// A request flows through two steps:
//
//	sub, err := validator.Validate(ctx, payload)   // 400 on *Error{Kind: KindValidation}
//	res, err := dispatcher.Relay(ctx, sub)         // 500 on any other *Error
//
// Every failure is an *Error whose Kind is one of KindValidation,
// KindConfiguration, KindProviderConnection, KindProviderSend or KindUnknown.
// Provider codes (EAUTH, ESOCKET, ...) are carried in Error.Code.
//
// The HTML body escapes the submitted text, turns line breaks into <br> and
// passes the result through the email sanitizer policy.
package contact
