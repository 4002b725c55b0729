package envelope

import (
	"bytes"
	"encoding/base64"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/customeros/mailbridge/dto"
)

// Decoded is the canonical view of a raw message. ID and Snippet are left to
// the caller, which knows them from the transport.
type Decoded struct {
	Subject     *string
	From        *string
	To          *string
	Date        *string
	BodyText    *string
	BodyHTML    *string
	Attachments []dto.AttachmentSummary
}

// DecodeTransport decodes URL-safe base64 (padding tolerated) and parses the
// resulting RFC 822 document.
func DecodeTransport(raw string) (*Decoded, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
	if err != nil {
		return nil, errors.Wrap(err, "invalid base64 payload")
	}
	return Decode(data)
}

func Decode(data []byte) (*Decoded, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty message")
	}
	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse MIME message")
	}

	d := &Decoded{
		Subject: firstHeader(env, "Subject"),
		From:    fromAddress(env),
		To:      toAddress(env),
		Date:    rfc3339Date(env),
	}
	d.BodyText, d.BodyHTML = bodies(env.Root)

	d.Attachments = attachmentSummaries(env)
	return d, nil
}

// attachmentSummaries lists attachment parts followed by inline parts. Inline
// text bodies without a filename are the message body, not attachments.
func attachmentSummaries(env *enmime.Envelope) []dto.AttachmentSummary {
	seen := make(map[*enmime.Part]struct{})
	out := make([]dto.AttachmentSummary, 0, len(env.Attachments)+len(env.Inlines))
	add := func(p *enmime.Part) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, attachmentSummary(p))
	}
	for _, p := range env.Attachments {
		add(p)
	}
	for _, p := range env.Inlines {
		if p.FileName == "" && isTextBody(p.ContentType) {
			continue
		}
		add(p)
	}
	return out
}

func isTextBody(ct string) bool {
	ct = strings.ToLower(ct)
	return ct == "text/plain" || ct == "text/html"
}

// ToDetail fills a MessageDetail from the decoded view.
func (d *Decoded) ToDetail(id, snippet string) dto.MessageDetail {
	return dto.MessageDetail{
		ID:          id,
		Subject:     d.Subject,
		From:        d.From,
		To:          d.To,
		Date:        d.Date,
		Snippet:     snippet,
		BodyText:    d.BodyText,
		BodyHTML:    d.BodyHTML,
		Attachments: d.Attachments,
	}
}

func firstHeader(env *enmime.Envelope, name string) *string {
	values := env.GetHeaderValues(name)
	if len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func fromAddress(env *enmime.Envelope) *string {
	if len(env.GetHeaderValues("From")) == 0 {
		return nil
	}
	unknown := "Unknown"
	list, err := env.AddressList("From")
	if err != nil || len(list) == 0 {
		return &unknown
	}
	switch {
	case list[0].Name != "":
		return &list[0].Name
	case list[0].Address != "":
		return &list[0].Address
	}
	return &unknown
}

func toAddress(env *enmime.Envelope) *string {
	if len(env.GetHeaderValues("To")) == 0 {
		return nil
	}
	unknown := "Unknown"
	list, err := env.AddressList("To")
	if err != nil || len(list) == 0 || list[0].Address == "" {
		return &unknown
	}
	return &list[0].Address
}

func rfc3339Date(env *enmime.Envelope) *string {
	raw := env.GetHeader("Date")
	if raw == "" {
		return nil
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// bodies returns the first text/plain and first text/html parts that are not
// attachments, in document order.
func bodies(root *enmime.Part) (text, html *string) {
	var walk func(p *enmime.Part)
	walk = func(p *enmime.Part) {
		for ; p != nil; p = p.NextSibling {
			if text != nil && html != nil {
				return
			}
			if p.FirstChild != nil {
				walk(p.FirstChild)
				continue
			}
			if isAttachment(p) {
				continue
			}
			content := string(p.Content)
			switch strings.ToLower(p.ContentType) {
			case "text/plain":
				if text == nil {
					text = &content
				}
			case "text/html":
				if html == nil {
					html = &content
				}
			}
		}
	}
	walk(root)
	return text, html
}

func isAttachment(p *enmime.Part) bool {
	return strings.EqualFold(p.Disposition, "attachment") || p.FileName != ""
}

func attachmentSummary(p *enmime.Part) dto.AttachmentSummary {
	filename := p.FileName
	if filename == "" {
		filename = p.ContentTypeParams["name"]
	}
	if filename == "" {
		filename = "unnamed"
	}

	var contentID *string
	if p.ContentID != "" {
		cid := p.ContentID
		contentID = &cid
	}

	return dto.AttachmentSummary{
		Filename:    filename,
		ContentType: mediaType(p.ContentType),
		Size:        len(p.Content),
		ContentID:   contentID,
	}
}

func mediaType(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	major, minor, found := strings.Cut(ct, "/")
	if !found || minor == "" {
		return major + "/octet-stream"
	}
	return major + "/" + minor
}
