package errors

import (
	"strings"
)

// MultiErrors collects request validation failures per field. Fields keep
// the order in which they first failed.
type MultiErrors struct {
	Errors map[string][]ErrorInfo
	fields []string
}

type ErrorInfo struct {
	Message  string
	RawError error
}

func NewMultiErrors() *MultiErrors {
	return &MultiErrors{
		Errors: make(map[string][]ErrorInfo),
	}
}

func (e *MultiErrors) Add(field, message string, err error) {
	if _, seen := e.Errors[field]; !seen {
		e.fields = append(e.fields, field)
	}
	e.Errors[field] = append(e.Errors[field], ErrorInfo{
		Message:  message,
		RawError: err,
	})
}

func (e *MultiErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Messages returns the messages recorded for a field.
func (e *MultiErrors) Messages(field string) []string {
	infos := e.Errors[field]
	messages := make([]string, 0, len(infos))
	for _, info := range infos {
		messages = append(messages, info.Message)
	}
	return messages
}

func (e *MultiErrors) Error() string {
	var parts []string
	for _, field := range e.fields {
		for _, message := range e.Messages(field) {
			parts = append(parts, field+": "+message)
		}
	}
	return strings.Join(parts, " | ")
}
