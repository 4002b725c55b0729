package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/internal/enum"
)

type ErrorResponse struct {
	Error    string `json:"error"`
	Details  string `json:"details,omitempty"`
	Provider string `json:"provider,omitempty"`
}

var credentialMessages = map[enum.Provider]string{
	enum.ProviderGmail:    "Invalid or expired Google Token",
	enum.ProviderOutlook:  "Invalid or expired Microsoft Token",
	enum.ProviderPostmark: "Invalid or expired Postmark Server Token",
}

var unreachableMessages = map[enum.Provider]string{
	enum.ProviderGmail:    "Failed to reach Gmail API",
	enum.ProviderOutlook:  "Failed to reach Microsoft Graph API",
	enum.ProviderPostmark: "Failed to reach Postmark API",
}

// StatusAndMessage maps an operation failure to the HTTP status and
// user-facing message returned to callers.
func StatusAndMessage(err error) (int, string) {
	var multi *MultiErrors
	if stderrors.As(err, &multi) {
		return http.StatusBadRequest, "Invalid request"
	}
	if stderrors.Is(err, mailbridge_errors.ErrMissingCredential) {
		return http.StatusUnauthorized, "Missing Authorization header"
	}

	pe, ok := asProviderError(err)
	if !ok {
		return http.StatusInternalServerError, "Internal server error"
	}

	switch pe.Kind {
	case enum.ErrorKindCredentialRejected:
		if msg, found := credentialMessages[pe.Provider]; found {
			return http.StatusUnauthorized, msg
		}
		return http.StatusUnauthorized, "Invalid or expired token"
	case enum.ErrorKindUpstream:
		msg := pe.Provider.DisplayName() + " API returned an error"
		switch {
		case pe.StatusCode == http.StatusNotFound:
			return http.StatusNotFound, msg
		case pe.StatusCode >= 400 && pe.StatusCode < 500:
			return http.StatusBadRequest, msg
		default:
			return http.StatusBadGateway, msg
		}
	case enum.ErrorKindUnreachable:
		if msg, found := unreachableMessages[pe.Provider]; found {
			return http.StatusBadGateway, msg
		}
		return http.StatusBadGateway, "Failed to reach upstream"
	case enum.ErrorKindEnvelopeMalformed:
		return http.StatusBadGateway, "Failed to decode message envelope"
	case enum.ErrorKindUnsupported, enum.ErrorKindValidation:
		return http.StatusBadRequest, pe.Message
	}
	return http.StatusInternalServerError, "Internal server error"
}

func Render(c *gin.Context, err error) {
	status, msg := StatusAndMessage(err)
	resp := ErrorResponse{Error: msg, Details: err.Error()}
	if pe, ok := asProviderError(err); ok {
		resp.Provider = pe.Provider.String()
	}
	c.AbortWithStatusJSON(status, resp)
}

func asProviderError(err error) (*mailbridge_errors.ProviderError, bool) {
	var pe *mailbridge_errors.ProviderError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
