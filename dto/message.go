package dto

import "encoding/json"

// MessageSummary is the list view of a message. MessagesInThread is only set
// when the listing was collapsed by conversation.
type MessageSummary struct {
	ID               string  `json:"id"`
	ThreadID         string  `json:"thread_id"`
	Snippet          string  `json:"snippet"`
	Subject          *string `json:"subject"`
	From             *string `json:"from"`
	Date             *string `json:"date"`
	Unread           bool    `json:"unread"`
	HasAttachments   bool    `json:"has_attachments"`
	MessagesInThread *int    `json:"messages_in_thread"`
}

// DateOrEmpty returns the date string used for ordering; a missing date
// orders before any present one.
func (m MessageSummary) DateOrEmpty() string {
	if m.Date == nil {
		return ""
	}
	return *m.Date
}

type MessageDetail struct {
	ID          string              `json:"id"`
	Subject     *string             `json:"subject"`
	From        *string             `json:"from"`
	To          *string             `json:"to"`
	Date        *string             `json:"date"`
	Snippet     string              `json:"snippet"`
	BodyText    *string             `json:"body_text"`
	BodyHTML    *string             `json:"body_html"`
	Attachments []AttachmentSummary `json:"attachments"`
}

type AttachmentSummary struct {
	Filename    string  `json:"filename"`
	ContentType string  `json:"content_type"`
	Size        int     `json:"size"`
	ContentID   *string `json:"id"`
}

// OutgoingAttachment content travels as base64 in JSON.
type OutgoingAttachment struct {
	Filename string `json:"filename" binding:"required"`
	Content  []byte `json:"content"`
	MimeType string `json:"mime_type"`
}

type SendMessageRequest struct {
	To          []string             `json:"to"`
	Cc          []string             `json:"cc,omitempty"`
	Subject     string               `json:"subject"`
	Body        string               `json:"body"`
	ThreadID    *string              `json:"thread_id,omitempty"`
	Attachments []OutgoingAttachment `json:"attachments,omitempty"`
}

func (r SendMessageRequest) HasAttachments() bool {
	return len(r.Attachments) > 0
}

// SendReceipt wraps whatever the upstream returned on a successful send.
type SendReceipt struct {
	Provider string          `json:"provider"`
	ID       string          `json:"id,omitempty"`
	ThreadID string          `json:"thread_id,omitempty"`
	Status   string          `json:"status"`
	Upstream json.RawMessage `json:"upstream,omitempty"`
}

type Thread struct {
	ThreadID     string          `json:"thread_id"`
	MessageCount int             `json:"message_count"`
	Messages     []MessageDetail `json:"messages"`
}
