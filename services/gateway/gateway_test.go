package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/mailbridge/dto"
	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/interfaces"
	"github.com/customeros/mailbridge/internal/enum"
)

type stubProvider struct {
	name    enum.Provider
	company string
}

func (s *stubProvider) Name() enum.Provider { return s.name }
func (s *stubProvider) ListMessages(context.Context, string, dto.ListQuery) (*dto.ListResult, error) {
	return dto.EmptyListResult(1), nil
}
func (s *stubProvider) GetMessage(context.Context, string, string) (*dto.MessageDetail, error) {
	return nil, nil
}
func (s *stubProvider) SendMessage(context.Context, string, dto.SendMessageRequest) (*dto.SendReceipt, error) {
	return nil, nil
}
func (s *stubProvider) ListLabels(context.Context, string) ([]dto.Label, error) { return nil, nil }
func (s *stubProvider) BatchModifyLabels(context.Context, string, dto.BatchModifyRequest) error {
	return nil
}
func (s *stubProvider) GetProfile(context.Context, string) (*dto.Profile, error) { return nil, nil }

type stubThreadProvider struct {
	stubProvider
}

func (s *stubThreadProvider) GetThread(context.Context, string, string) (*dto.Thread, error) {
	return &dto.Thread{}, nil
}

func newTestGateway() *Gateway {
	return NewGateway(
		&stubThreadProvider{stubProvider{name: enum.ProviderGmail}},
		&stubProvider{name: enum.ProviderOutlook},
		func(company string) interfaces.EmailProvider {
			return &stubProvider{name: enum.ProviderPostmark, company: company}
		},
	)
}

func TestSelect(t *testing.T) {
	g := newTestGateway()

	cases := map[string]enum.Provider{
		"":          enum.ProviderGmail,
		"gmail":     enum.ProviderGmail,
		"Google":    enum.ProviderGmail,
		"outlook":   enum.ProviderOutlook,
		"microsoft": enum.ProviderOutlook,
		"postmark":  enum.ProviderPostmark,
	}
	for in, want := range cases {
		p, err := g.Select(in, "")
		require.NoError(t, err, in)
		assert.Equal(t, want, p.Name(), in)
	}
}

func TestSelect_PostmarkBindsCompany(t *testing.T) {
	g := newTestGateway()

	p, err := g.Select("postmark", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", p.(*stubProvider).company)
}

func TestSelect_InvalidProvider(t *testing.T) {
	g := newTestGateway()

	_, err := g.Select("yahoo", "")
	var pe *mailbridge_errors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, enum.ErrorKindValidation, pe.Kind)
	assert.ErrorIs(t, err, mailbridge_errors.ErrInvalidProvider)
}

func TestThread(t *testing.T) {
	g := newTestGateway()

	gmail, _ := g.Select("gmail", "")
	reader, err := g.Thread(gmail)
	require.NoError(t, err)
	assert.NotNil(t, reader)

	outlook, _ := g.Select("outlook", "")
	_, err = g.Thread(outlook)
	kind, ok := mailbridge_errors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, enum.ErrorKindUnsupported, kind)
}
