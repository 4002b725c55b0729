package utils

import (
	"strings"

	"github.com/customeros/mailsherpa/mailvalidate"
)

func UniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	unique := make([]string, 0, len(emails))

	for _, email := range emails {
		if _, exists := seen[email]; !exists {
			seen[email] = struct{}{}
			unique = append(unique, email)
		}
	}

	return unique
}

// CleanRecipients trims and de-duplicates recipient addresses, dropping blanks.
func CleanRecipients(emails []string) []string {
	cleaned := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email != "" {
			cleaned = append(cleaned, email)
		}
	}
	return UniqueEmails(cleaned)
}

// InvalidEmails returns the addresses that fail syntax validation.
func InvalidEmails(emails []string) []string {
	var invalid []string
	for _, email := range emails {
		result := mailvalidate.ValidateEmailSyntax(email)
		if !result.IsValid {
			invalid = append(invalid, email)
		}
	}
	return invalid
}

// SenderAddress builds a mailbox address from a company display name:
// spaces removed, lower-cased, joined to domain.
func SenderAddress(company, domain string) string {
	local := strings.ToLower(strings.ReplaceAll(company, " ", ""))
	return local + "@" + domain
}
