package outlook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/interfaces"
	"github.com/customeros/mailbridge/internal/enum"
	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/internal/tracing"
)

const (
	preferTextBody = `outlook.body-content-type="text"`
	maxErrorBody   = 4096
)

type Config struct {
	BaseURL     string
	FanOutLimit int
}

type outlookService struct {
	httpClient *http.Client
	cfg        Config
	log        logger.Logger
}

func NewOutlookService(httpClient *http.Client, cfg Config, log logger.Logger) interfaces.EmailProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &outlookService{
		httpClient: httpClient,
		cfg:        cfg,
		log:        log,
	}
}

func (s *outlookService) Name() enum.Provider {
	return enum.ProviderOutlook
}

func (s *outlookService) client(ctx context.Context, credential string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"})
	authed := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient), ts)
	authed.Timeout = s.httpClient.Timeout
	return authed
}

func (s *outlookService) doGet(ctx context.Context, client *http.Client, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", preferTextBody)
	return s.do(ctx, client, req, result)
}

func (s *outlookService) doPost(ctx context.Context, client *http.Client, path string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(ctx, client, req, result)
}

func (s *outlookService) do(ctx context.Context, client *http.Client, req *http.Request, result any) error {
	span := tracing.StartUpstreamSpan(ctx, "OutlookService.graph", req)
	defer span.Finish()

	resp, err := client.Do(req)
	if err != nil {
		err = mailbridge_errors.NewUnreachable(enum.ProviderOutlook, err)
		tracing.TraceErr(span, err)
		return err
	}
	defer resp.Body.Close()
	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return mailbridge_errors.FromStatus(enum.ProviderOutlook, resp.StatusCode, string(body))
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusAccepted {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return mailbridge_errors.NewUpstream(enum.ProviderOutlook, resp.StatusCode, "invalid response body: "+err.Error())
	}
	return nil
}
