package mailbridge_errors

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/customeros/mailbridge/internal/enum"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrNoRecipients      = errors.New("at least one recipient is required")
)

// ProviderError is the failure every adapter returns. It keeps the producing
// provider so the HTTP layer can render provider specific diagnostics.
type ProviderError struct {
	Provider   enum.Provider
	Kind       enum.ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewCredentialRejected(p enum.Provider, err error) *ProviderError {
	return &ProviderError{
		Provider:   p,
		Kind:       enum.ErrorKindCredentialRejected,
		StatusCode: 401,
		Message:    "credential rejected by upstream",
		Err:        err,
	}
}

func NewUpstream(p enum.Provider, statusCode int, body string) *ProviderError {
	return &ProviderError{
		Provider:   p,
		Kind:       enum.ErrorKindUpstream,
		StatusCode: statusCode,
		Message:    "upstream returned an error",
		Err:        bodyError(body),
	}
}

func NewUnreachable(p enum.Provider, err error) *ProviderError {
	return &ProviderError{
		Provider: p,
		Kind:     enum.ErrorKindUnreachable,
		Message:  "upstream unreachable",
		Err:      err,
	}
}

func NewEnvelopeMalformed(p enum.Provider, err error) *ProviderError {
	return &ProviderError{
		Provider: p,
		Kind:     enum.ErrorKindEnvelopeMalformed,
		Message:  "message envelope malformed",
		Err:      err,
	}
}

func NewUnsupported(p enum.Provider, message string) *ProviderError {
	return &ProviderError{
		Provider: p,
		Kind:     enum.ErrorKindUnsupported,
		Message:  message,
	}
}

func NewValidation(p enum.Provider, message string, err error) *ProviderError {
	return &ProviderError{
		Provider: p,
		Kind:     enum.ErrorKindValidation,
		Message:  message,
		Err:      err,
	}
}

// FromStatus classifies a non-2xx upstream response.
func FromStatus(p enum.Provider, statusCode int, body string) *ProviderError {
	if statusCode == 401 {
		return NewCredentialRejected(p, bodyError(body))
	}
	return NewUpstream(p, statusCode, body)
}

// KindOf returns the kind of a ProviderError anywhere in the chain.
func KindOf(err error) (enum.ErrorKind, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

func bodyError(body string) error {
	if body == "" {
		return nil
	}
	return errors.New(body)
}
