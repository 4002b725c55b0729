package enum

import "strings"

type Provider string

const (
	ProviderGmail    Provider = "gmail"
	ProviderOutlook  Provider = "outlook"
	ProviderPostmark Provider = "postmark"
)

func (p Provider) String() string {
	return string(p)
}

// DisplayName is the upstream name used in client facing diagnostics.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGmail:
		return "Gmail"
	case ProviderOutlook:
		return "Outlook"
	case ProviderPostmark:
		return "Postmark"
	default:
		return string(p)
	}
}

// ParseProvider resolves the provider query parameter. An empty value selects
// Gmail.
func ParseProvider(s string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gmail", "google":
		return ProviderGmail, true
	case "outlook", "microsoft":
		return ProviderOutlook, true
	case "postmark":
		return ProviderPostmark, true
	default:
		return "", false
	}
}
