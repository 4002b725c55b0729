package outlook

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/opentracing/opentracing-go/log"

	"github.com/customeros/mailbridge/dto"
	"github.com/customeros/mailbridge/internal/enum"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/internal/utils"
	"github.com/customeros/mailbridge/services/aggregator"
)

const selectFields = "id,subject,from,receivedDateTime,isRead,hasAttachments,bodyPreview,conversationId"

type emailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	ID               string      `json:"id"`
	Subject          *string     `json:"subject"`
	From             *recipient  `json:"from"`
	ToRecipients     []recipient `json:"toRecipients"`
	ReceivedDateTime *string     `json:"receivedDateTime"`
	IsRead           bool        `json:"isRead"`
	HasAttachments   bool        `json:"hasAttachments"`
	BodyPreview      string      `json:"bodyPreview"`
	ConversationID   string      `json:"conversationId"`
	Body             *itemBody   `json:"body"`
}

type graphAttachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	ContentID   string `json:"contentId"`
	IsInline    bool   `json:"isInline"`
}

// listPath builds the Graph path and query for a canonical list request.
func listPath(q dto.ListQuery) string {
	path := "/me/messages"
	if label := utils.FirstOrEmpty(q.Labels()); label != "" {
		path = "/me/mailFolders/" + url.PathEscape(FolderFor(label)) + "/messages"
	}

	top := q.PageSize()
	params := url.Values{}
	params.Set("$select", selectFields)
	params.Set("$top", strconv.FormatInt(top, 10))
	if page := q.Page(); page > 1 {
		params.Set("$skip", strconv.FormatInt(int64(page-1)*top, 10))
	}
	if q.Q != "" {
		params.Set("$search", `"`+strings.ReplaceAll(q.Q, `"`, `\"`)+`"`)
	}
	return path + "?" + params.Encode()
}

func (s *outlookService) ListMessages(ctx context.Context, credential string, q dto.ListQuery) (*dto.ListResult, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "OutlookService.ListMessages")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.LogObjectAsJson(span, "query", q)

	var resp struct {
		Value    []graphMessage `json:"value"`
		NextLink string         `json:"@odata.nextLink"`
	}
	if err := s.doGet(ctx, s.client(ctx, credential), listPath(q), &resp); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	summaries := make([]dto.MessageSummary, 0, len(resp.Value))
	for _, m := range resp.Value {
		summaries = append(summaries, toSummary(m))
	}
	if q.CollapseThreads {
		summaries = aggregator.Collapse(summaries)
	}

	page := q.Page()
	result := dto.EmptyListResult(page)
	result.Messages = summaries
	result.ResultSizeEstimate = int64(len(resp.Value))
	if resp.NextLink != "" {
		next := page + 1
		result.NextPage = &next
	}
	span.LogFields(log.Int("messages.count", len(summaries)))
	return result, nil
}

func toSummary(m graphMessage) dto.MessageSummary {
	return dto.MessageSummary{
		ID:             m.ID,
		ThreadID:       m.ConversationID,
		Snippet:        m.BodyPreview,
		Subject:        m.Subject,
		From:           senderName(m.From),
		Date:           m.ReceivedDateTime,
		Unread:         !m.IsRead,
		HasAttachments: m.HasAttachments,
	}
}

func senderName(r *recipient) *string {
	if r == nil {
		return nil
	}
	if r.EmailAddress.Name != "" {
		return &r.EmailAddress.Name
	}
	return utils.StringPtrOrNil(r.EmailAddress.Address)
}

func (s *outlookService) GetMessage(ctx context.Context, credential, id string) (*dto.MessageDetail, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "OutlookService.GetMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, id)

	client := s.client(ctx, credential)
	var m graphMessage
	if err := s.doGet(ctx, client, "/me/messages/"+url.PathEscape(id), &m); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	detail := &dto.MessageDetail{
		ID:          id,
		Subject:     m.Subject,
		From:        senderName(m.From),
		Date:        m.ReceivedDateTime,
		Snippet:     m.BodyPreview,
		Attachments: []dto.AttachmentSummary{},
	}
	if len(m.ToRecipients) > 0 {
		detail.To = utils.StringPtrOrNil(m.ToRecipients[0].EmailAddress.Address)
	}
	if m.Body != nil {
		content := m.Body.Content
		if strings.EqualFold(m.Body.ContentType, "html") {
			detail.BodyHTML = &content
		} else {
			detail.BodyText = &content
		}
	}

	if m.HasAttachments {
		attachments, err := s.listAttachments(ctx, client, id)
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
		detail.Attachments = attachments
	}
	return detail, nil
}

func (s *outlookService) listAttachments(ctx context.Context, client *http.Client, id string) ([]dto.AttachmentSummary, error) {
	var resp struct {
		Value []graphAttachment `json:"value"`
	}
	path := "/me/messages/" + url.PathEscape(id) + "/attachments?$select=id,name,contentType,size,contentId,isInline"
	if err := s.doGet(ctx, client, path, &resp); err != nil {
		return nil, err
	}

	out := make([]dto.AttachmentSummary, 0, len(resp.Value))
	for _, a := range resp.Value {
		name := a.Name
		if name == "" {
			name = "unnamed"
		}
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		out = append(out, dto.AttachmentSummary{
			Filename:    name,
			ContentType: contentType,
			Size:        a.Size,
			ContentID:   utils.StringPtrOrNil(a.ContentID),
		})
	}
	return out, nil
}

type fileAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

type outgoingMessage struct {
	Subject      string           `json:"subject"`
	Body         itemBody         `json:"body"`
	ToRecipients []recipient      `json:"toRecipients"`
	CcRecipients []recipient      `json:"ccRecipients,omitempty"`
	Attachments  []fileAttachment `json:"attachments,omitempty"`
}

type sendMailRequest struct {
	Message         outgoingMessage `json:"message"`
	SaveToSentItems bool            `json:"saveToSentItems"`
}

func buildSendMail(req dto.SendMessageRequest) sendMailRequest {
	msg := outgoingMessage{
		Subject:      req.Subject,
		Body:         itemBody{ContentType: "HTML", Content: req.Body},
		ToRecipients: recipients(req.To),
		CcRecipients: recipients(req.Cc),
	}
	for _, a := range req.Attachments {
		contentType := a.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		msg.Attachments = append(msg.Attachments, fileAttachment{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         a.Filename,
			ContentType:  contentType,
			ContentBytes: base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	return sendMailRequest{Message: msg, SaveToSentItems: true}
}

func recipients(addresses []string) []recipient {
	if len(addresses) == 0 {
		return nil
	}
	out := make([]recipient, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, recipient{EmailAddress: emailAddress{Address: a}})
	}
	return out
}

func (s *outlookService) SendMessage(ctx context.Context, credential string, req dto.SendMessageRequest) (*dto.SendReceipt, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "OutlookService.SendMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogFields(log.Int("recipients", len(req.To)+len(req.Cc)), log.Int("attachments", len(req.Attachments)))

	if err := s.doPost(ctx, s.client(ctx, credential), "/me/sendMail", buildSendMail(req), nil); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &dto.SendReceipt{
		Provider: enum.ProviderOutlook.String(),
		Status:   "sent",
		Upstream: []byte(`{"status":"sent"}`),
	}, nil
}
