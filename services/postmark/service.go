package postmark

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	"github.com/customeros/mailbridge/dto"
	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/interfaces"
	"github.com/customeros/mailbridge/internal/enum"
	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/internal/utils"
)

const (
	DefaultCompany      = "Unknown"
	DefaultSenderDomain = "drayinsight.com"
	serverTokenHeader   = "X-Postmark-Server-Token"
	viewingNotSupported = "Message viewing not supported for Postmark"
	labelsNotSupported  = "Labels not supported for Postmark"
	maxErrorBody        = 4096
)

type Config struct {
	Url          string
	ServerToken  string
	SenderDomain string
}

// postmarkService is send-only. It is bound to the company the sender
// address is derived from.
type postmarkService struct {
	httpClient *http.Client
	cfg        Config
	company    string
	log        logger.Logger
}

func NewPostmarkService(httpClient *http.Client, cfg Config, company string, log logger.Logger) interfaces.EmailProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.Url = strings.TrimRight(cfg.Url, "/")
	if cfg.SenderDomain == "" {
		cfg.SenderDomain = DefaultSenderDomain
	}
	if strings.TrimSpace(company) == "" {
		company = DefaultCompany
	}
	return &postmarkService{
		httpClient: httpClient,
		cfg:        cfg,
		company:    company,
		log:        log,
	}
}

func (s *postmarkService) Name() enum.Provider {
	return enum.ProviderPostmark
}

func (s *postmarkService) sender() string {
	return utils.SenderAddress(s.company, s.cfg.SenderDomain)
}

func (s *postmarkService) ListMessages(ctx context.Context, credential string, q dto.ListQuery) (*dto.ListResult, error) {
	return dto.EmptyListResult(q.Page()), nil
}

func (s *postmarkService) GetMessage(ctx context.Context, credential, id string) (*dto.MessageDetail, error) {
	return nil, mailbridge_errors.NewUnsupported(enum.ProviderPostmark, viewingNotSupported)
}

func (s *postmarkService) ListLabels(ctx context.Context, credential string) ([]dto.Label, error) {
	return nil, mailbridge_errors.NewUnsupported(enum.ProviderPostmark, labelsNotSupported)
}

func (s *postmarkService) BatchModifyLabels(ctx context.Context, credential string, req dto.BatchModifyRequest) error {
	return mailbridge_errors.NewUnsupported(enum.ProviderPostmark, labelsNotSupported)
}

func (s *postmarkService) GetProfile(ctx context.Context, credential string) (*dto.Profile, error) {
	return &dto.Profile{Email: s.sender(), Name: utils.Ptr(s.company)}, nil
}

type attachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
}

type emailRequest struct {
	From        string       `json:"From"`
	To          string       `json:"To"`
	Cc          string       `json:"Cc,omitempty"`
	Subject     string       `json:"Subject"`
	HtmlBody    string       `json:"HtmlBody"`
	Attachments []attachment `json:"Attachments"`
}

type emailResponse struct {
	MessageID string `json:"MessageID"`
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

func (s *postmarkService) buildEmail(req dto.SendMessageRequest) emailRequest {
	email := emailRequest{
		From:        s.sender(),
		To:          utils.SliceToString(req.To),
		Cc:          utils.SliceToString(req.Cc),
		Subject:     req.Subject,
		HtmlBody:    req.Body,
		Attachments: make([]attachment, 0, len(req.Attachments)),
	}
	for _, a := range req.Attachments {
		contentType := a.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		email.Attachments = append(email.Attachments, attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: contentType,
		})
	}
	return email
}

func (s *postmarkService) SendMessage(ctx context.Context, credential string, req dto.SendMessageRequest) (*dto.SendReceipt, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "PostmarkService.SendMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogFields(log.String("from", s.sender()), log.Int("recipients", len(req.To)+len(req.Cc)))

	token := credential
	if token == "" {
		token = s.cfg.ServerToken
	}

	payload, err := json.Marshal(s.buildEmail(req))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to marshal postmark email")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Url+"/email", bytes.NewReader(payload))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(serverTokenHeader, token)
	upstreamSpan := tracing.StartUpstreamSpan(ctx, "PostmarkService.postEmail", httpReq)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		err = mailbridge_errors.NewUnreachable(enum.ProviderPostmark, err)
		tracing.TraceErr(upstreamSpan, err)
		upstreamSpan.Finish()
		tracing.TraceErr(span, err)
		return nil, err
	}
	defer resp.Body.Close()
	ext.HTTPStatusCode.Set(upstreamSpan, uint16(resp.StatusCode))
	upstreamSpan.Finish()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = mailbridge_errors.NewUnreachable(enum.ProviderPostmark, err)
		tracing.TraceErr(span, err)
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		s.log.Errorf("Postmark API error: %s", string(body))
		err = mailbridge_errors.FromStatus(enum.ProviderPostmark, resp.StatusCode, string(body))
		tracing.TraceErr(span, err)
		return nil, err
	}

	var parsed emailResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		err = mailbridge_errors.NewUpstream(enum.ProviderPostmark, resp.StatusCode, "invalid response body: "+err.Error())
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &dto.SendReceipt{
		Provider: enum.ProviderPostmark.String(),
		ID:       parsed.MessageID,
		Status:   "sent",
		Upstream: json.RawMessage(body),
	}, nil
}
