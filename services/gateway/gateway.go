package gateway

import (
	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/interfaces"
	"github.com/customeros/mailbridge/internal/enum"
)

// PostmarkFactory binds the send-only adapter to the requesting company.
type PostmarkFactory func(company string) interfaces.EmailProvider

// Gateway resolves the adapter serving a request. Selection depends only on
// the request parameters.
type Gateway struct {
	gmail    interfaces.EmailProvider
	outlook  interfaces.EmailProvider
	postmark PostmarkFactory
}

func NewGateway(gmail, outlook interfaces.EmailProvider, postmark PostmarkFactory) *Gateway {
	return &Gateway{
		gmail:    gmail,
		outlook:  outlook,
		postmark: postmark,
	}
}

func (g *Gateway) Select(provider, company string) (interfaces.EmailProvider, error) {
	p, ok := enum.ParseProvider(provider)
	if !ok {
		return nil, mailbridge_errors.NewValidation("", "Invalid provider: "+provider, mailbridge_errors.ErrInvalidProvider)
	}

	switch p {
	case enum.ProviderOutlook:
		return g.outlook, nil
	case enum.ProviderPostmark:
		return g.postmark(company), nil
	default:
		return g.gmail, nil
	}
}

// Thread returns the thread view of an adapter, if it has one.
func (g *Gateway) Thread(provider interfaces.EmailProvider) (interfaces.ThreadReader, error) {
	if reader, ok := provider.(interfaces.ThreadReader); ok {
		return reader, nil
	}
	return nil, mailbridge_errors.NewUnsupported(provider.Name(), "Thread view not supported for "+provider.Name().DisplayName())
}
