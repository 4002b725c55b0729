package gmail

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go/log"
	"google.golang.org/api/gmail/v1"

	"github.com/customeros/mailbridge/dto"
	"github.com/customeros/mailbridge/internal/cursor"
	"github.com/customeros/mailbridge/internal/envelope"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/services/aggregator"
)

func (s *gmailService) ListMessages(ctx context.Context, credential string, q dto.ListQuery) (*dto.ListResult, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "GmailService.ListMessages")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.LogObjectAsJson(span, "query", q)

	page := q.Page()
	fingerprint := cursor.Fingerprint(credential, q)

	var pageToken string
	if page > 1 {
		switch {
		case q.PageToken != "":
			pageToken = q.PageToken
		default:
			cached, ok := s.cursors.Lookup(fingerprint, page)
			if !ok {
				span.LogFields(log.Bool("cursor.miss", true))
				result := dto.EmptyListResult(page)
				result.Warning = PageOrderWarning
				return result, nil
			}
			pageToken = cached
		}
	}

	svc, err := s.client(ctx, credential)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	call := svc.Users.Messages.List(gmailUserID).Context(ctx).MaxResults(q.PageSize())
	if q.Q != "" {
		call = call.Q(q.Q)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	if labels := q.Labels(); len(labels) > 0 {
		call = call.LabelIds(labels...)
	}

	resp, err := call.Do()
	if err != nil {
		err = classify(err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	if resp.NextPageToken != "" {
		s.cursors.Store(fingerprint, page+1, resp.NextPageToken)
	}

	outcomes := aggregator.FanOut(ctx, resp.Messages, s.cfg.FanOutLimit,
		func(ctx context.Context, ref *gmail.Message) (dto.MessageSummary, error) {
			return s.fetchSummary(ctx, svc, ref)
		})
	summaries, failed := aggregator.Survivors(outcomes)

	result := dto.EmptyListResult(page)
	result.NextPageToken = resp.NextPageToken
	result.ResultSizeEstimate = resp.ResultSizeEstimate
	if resp.NextPageToken != "" {
		next := page + 1
		result.NextPage = &next
	}
	if len(failed) > 0 {
		for _, ref := range failed {
			result.FailedIDs = append(result.FailedIDs, ref.Id)
		}
		span.LogFields(log.String("failed_ids", strings.Join(result.FailedIDs, ",")))
		s.log.Warnf("Gmail list dropped %d of %d messages whose metadata fetch failed: %v", len(failed), len(resp.Messages), result.FailedIDs)
	}

	if q.CollapseThreads {
		summaries = aggregator.Collapse(summaries)
	}
	result.Messages = summaries
	span.LogFields(log.Int("messages.count", len(summaries)))

	return result, nil
}

func (s *gmailService) fetchSummary(ctx context.Context, svc *gmail.Service, ref *gmail.Message) (dto.MessageSummary, error) {
	msg, err := svc.Users.Messages.Get(gmailUserID, ref.Id).
		Format("metadata").
		MetadataHeaders("Subject", "From", "Date").
		Context(ctx).
		Do()
	if err != nil {
		return dto.MessageSummary{}, classify(err)
	}

	summary := dto.MessageSummary{
		ID:       ref.Id,
		ThreadID: ref.ThreadId,
		Snippet:  msg.Snippet,
	}
	if summary.ThreadID == "" {
		summary.ThreadID = msg.ThreadId
	}
	for _, l := range msg.LabelIds {
		if l == "UNREAD" {
			summary.Unread = true
			break
		}
	}
	if msg.Payload != nil {
		summary.Subject = header(msg.Payload, "Subject")
		summary.From = header(msg.Payload, "From")
		summary.Date = header(msg.Payload, "Date")
		summary.HasAttachments = envelope.HasAttachments(msg.Payload,
			func(p *gmail.MessagePart) string { return p.Filename },
			func(p *gmail.MessagePart) []*gmail.MessagePart { return p.Parts })
	}
	return summary, nil
}

func header(part *gmail.MessagePart, name string) *string {
	for _, h := range part.Headers {
		if h.Name == name {
			v := h.Value
			return &v
		}
	}
	return nil
}
