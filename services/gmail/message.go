package gmail

import (
	"context"
	"sort"

	"github.com/opentracing/opentracing-go/log"
	"google.golang.org/api/gmail/v1"

	"github.com/customeros/mailbridge/dto"
	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/internal/enum"
	"github.com/customeros/mailbridge/internal/envelope"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/internal/utils"
	"github.com/customeros/mailbridge/services/aggregator"
)

func (s *gmailService) GetMessage(ctx context.Context, credential, id string) (*dto.MessageDetail, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "GmailService.GetMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, id)

	svc, err := s.client(ctx, credential)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	detail, err := s.fetchDetail(ctx, svc, id)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return detail, nil
}

func (s *gmailService) fetchDetail(ctx context.Context, svc *gmail.Service, id string) (*dto.MessageDetail, error) {
	msg, err := svc.Users.Messages.Get(gmailUserID, id).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	decoded, err := envelope.DecodeTransport(msg.Raw)
	if err != nil {
		return nil, mailbridge_errors.NewEnvelopeMalformed(enum.ProviderGmail, err)
	}
	detail := decoded.ToDetail(id, msg.Snippet)
	return &detail, nil
}

func (s *gmailService) SendMessage(ctx context.Context, credential string, req dto.SendMessageRequest) (*dto.SendReceipt, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "GmailService.SendMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogFields(log.Int("recipients", len(req.To)+len(req.Cc)), log.Int("attachments", len(req.Attachments)))

	svc, err := s.client(ctx, credential)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	outgoing := &gmail.Message{
		Raw:      envelope.EncodeTransport(req),
		ThreadId: utils.GetOrDefault(req.ThreadID, ""),
	}

	sent, err := svc.Users.Messages.Send(gmailUserID, outgoing).Context(ctx).Do()
	if err != nil {
		err = classify(err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	upstream, err := sent.MarshalJSON()
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Warnf("failed to marshal gmail send response for message %s: %v", sent.Id, err)
	}
	return &dto.SendReceipt{
		Provider: enum.ProviderGmail.String(),
		ID:       sent.Id,
		ThreadID: sent.ThreadId,
		Status:   "sent",
		Upstream: upstream,
	}, nil
}

// GetThread returns every decodable message of a thread, oldest first.
func (s *gmailService) GetThread(ctx context.Context, credential, threadID string) (*dto.Thread, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "GmailService.GetThread")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, threadID)

	svc, err := s.client(ctx, credential)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	thread, err := svc.Users.Threads.Get(gmailUserID, threadID).Format("minimal").Context(ctx).Do()
	if err != nil {
		err = classify(err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	ids := make([]string, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		ids = append(ids, m.Id)
	}
	outcomes := aggregator.FanOut(ctx, ids, s.cfg.FanOutLimit,
		func(ctx context.Context, id string) (*dto.MessageDetail, error) {
			return s.fetchDetail(ctx, svc, id)
		})
	details, failed := aggregator.Survivors(outcomes)
	if len(failed) > 0 {
		s.log.Warnf("Gmail thread %s dropped %d messages that failed to load: %v", threadID, len(failed), failed)
	}

	messages := make([]dto.MessageDetail, 0, len(details))
	for _, d := range details {
		messages = append(messages, *d)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return dateOf(messages[i]) < dateOf(messages[j])
	})

	return &dto.Thread{
		ThreadID:     threadID,
		MessageCount: len(messages),
		Messages:     messages,
	}, nil
}

func dateOf(m dto.MessageDetail) string {
	if m.Date == nil {
		return ""
	}
	return *m.Date
}
