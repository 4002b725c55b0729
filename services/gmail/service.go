package gmail

import (
	"context"
	stderrors "errors"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/interfaces"
	"github.com/customeros/mailbridge/internal/enum"
	"github.com/customeros/mailbridge/internal/logger"
)

const gmailUserID = "me"

// PageOrderWarning is returned instead of results when a page beyond the
// first is requested before the page leading to it was listed.
const PageOrderWarning = "Page token not found. Please navigate sequentially from Page 1."

type Config struct {
	// Endpoint overrides the Gmail API base URL. Empty keeps the default.
	Endpoint    string
	FanOutLimit int
}

type gmailService struct {
	httpClient *http.Client
	cfg        Config
	cursors    interfaces.CursorCache
	log        logger.Logger
}

// NewGmailService returns the raw-message adapter. The result also
// implements interfaces.ThreadReader.
func NewGmailService(httpClient *http.Client, cfg Config, cursors interfaces.CursorCache, log logger.Logger) interfaces.EmailProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &gmailService{
		httpClient: httpClient,
		cfg:        cfg,
		cursors:    cursors,
		log:        log,
	}
}

func (s *gmailService) Name() enum.Provider {
	return enum.ProviderGmail
}

// client builds a Gmail API client authorised with the caller's bearer
// token. It shares the base client's transport and timeout.
func (s *gmailService) client(ctx context.Context, credential string) (*gmail.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"})
	authed := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient), ts)
	authed.Timeout = s.httpClient.Timeout

	opts := []option.ClientOption{option.WithHTTPClient(authed)}
	if s.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.cfg.Endpoint))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, mailbridge_errors.NewUnreachable(enum.ProviderGmail, err)
	}
	return svc, nil
}

// classify turns a client library failure into a ProviderError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		body := apiErr.Message
		if body == "" {
			body = apiErr.Body
		}
		return mailbridge_errors.FromStatus(enum.ProviderGmail, apiErr.Code, body)
	}
	var pe *mailbridge_errors.ProviderError
	if stderrors.As(err, &pe) {
		return err
	}
	return mailbridge_errors.NewUnreachable(enum.ProviderGmail, err)
}
