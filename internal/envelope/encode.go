// Package envelope converts between canonical messages and the raw RFC 822
// form used by transports that only accept whole MIME documents.
package envelope

import (
	"encoding/base64"
	"strings"

	"github.com/customeros/mailbridge/dto"
)

// Boundary separates the parts of every multipart message this package
// writes. Bodies are never scanned for collisions.
const Boundary = "boundary_1234567890"

const crlf = "\r\n"

// headerValue keeps caller supplied values on a single header line.
var headerValue = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Encode renders a send request as an RFC 822 document. Addressing travels
// in the headers. Without attachments the body is a bare HTML document,
// otherwise a multipart/mixed document with the HTML first.
func Encode(req dto.SendMessageRequest) []byte {
	var b strings.Builder

	b.WriteString("To: " + headerValue.Replace(strings.Join(req.To, ", ")) + crlf)
	if len(req.Cc) > 0 {
		b.WriteString("Cc: " + headerValue.Replace(strings.Join(req.Cc, ", ")) + crlf)
	}
	b.WriteString("Subject: " + headerValue.Replace(req.Subject) + crlf)

	if !req.HasAttachments() {
		b.WriteString("Content-Type: text/html; charset=utf-8" + crlf + crlf)
		b.WriteString(req.Body)
		return []byte(b.String())
	}

	b.WriteString("MIME-Version: 1.0" + crlf)
	b.WriteString(`Content-Type: multipart/mixed; boundary="` + Boundary + `"` + crlf + crlf)

	b.WriteString("--" + Boundary + crlf)
	b.WriteString("Content-Type: text/html; charset=utf-8" + crlf)
	b.WriteString("Content-Disposition: inline" + crlf + crlf)
	b.WriteString(req.Body)
	b.WriteString(crlf)

	for _, att := range req.Attachments {
		filename := quoted(att.Filename)
		mimeType := headerValue.Replace(att.MimeType)
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		b.WriteString("--" + Boundary + crlf)
		b.WriteString("Content-Type: " + mimeType + `; name="` + filename + `"` + crlf)
		b.WriteString(`Content-Disposition: attachment; filename="` + filename + `"` + crlf)
		b.WriteString("Content-Transfer-Encoding: base64" + crlf + crlf)
		b.WriteString(base64.StdEncoding.EncodeToString(att.Content))
		b.WriteString(crlf)
	}
	b.WriteString("--" + Boundary + "--")

	return []byte(b.String())
}

// EncodeTransport is Encode wrapped in URL-safe base64 without padding.
func EncodeTransport(req dto.SendMessageRequest) string {
	return base64.RawURLEncoding.EncodeToString(Encode(req))
}

func quoted(s string) string {
	s = headerValue.Replace(s)
	return strings.ReplaceAll(s, `"`, `\"`)
}
