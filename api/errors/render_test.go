package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/internal/enum"
)

func TestStatusAndMessage(t *testing.T) {
	multi := NewMultiErrors()
	multi.Add("to", "at least one recipient is required", mailbridge_errors.ErrNoRecipients)

	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"gmail credential", mailbridge_errors.NewCredentialRejected(enum.ProviderGmail, nil), 401, "Invalid or expired Google Token"},
		{"outlook credential", mailbridge_errors.FromStatus(enum.ProviderOutlook, 401, "expired"), 401, "Invalid or expired Microsoft Token"},
		{"postmark credential", mailbridge_errors.NewCredentialRejected(enum.ProviderPostmark, nil), 401, "Invalid or expired Postmark Server Token"},
		{"not found", mailbridge_errors.NewUpstream(enum.ProviderGmail, 404, "gone"), 404, "Gmail API returned an error"},
		{"client error", mailbridge_errors.NewUpstream(enum.ProviderOutlook, 403, ""), 400, "Outlook API returned an error"},
		{"server error", mailbridge_errors.NewUpstream(enum.ProviderPostmark, 503, ""), 502, "Postmark API returned an error"},
		{"gmail unreachable", mailbridge_errors.NewUnreachable(enum.ProviderGmail, fmt.Errorf("dial")), 502, "Failed to reach Gmail API"},
		{"graph unreachable", mailbridge_errors.NewUnreachable(enum.ProviderOutlook, fmt.Errorf("dial")), 502, "Failed to reach Microsoft Graph API"},
		{"envelope", mailbridge_errors.NewEnvelopeMalformed(enum.ProviderGmail, fmt.Errorf("bad")), 502, "Failed to decode message envelope"},
		{"unsupported", mailbridge_errors.NewUnsupported(enum.ProviderPostmark, "Message viewing not supported for Postmark"), 400, "Message viewing not supported for Postmark"},
		{"validation", mailbridge_errors.NewValidation("", "Invalid provider: x", nil), 400, "Invalid provider: x"},
		{"missing credential", errors.WithStack(mailbridge_errors.ErrMissingCredential), 401, "Missing Authorization header"},
		{"multi", multi, 400, "Invalid request"},
		{"wrapped", errors.Wrap(mailbridge_errors.NewUpstream(enum.ProviderGmail, 404, ""), "get"), 404, "Gmail API returned an error"},
		{"unknown", fmt.Errorf("boom"), 500, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := StatusAndMessage(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestRender(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Render(c, mailbridge_errors.NewCredentialRejected(enum.ProviderOutlook, fmt.Errorf("token expired")))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid or expired Microsoft Token", body.Error)
	assert.Equal(t, "outlook", body.Provider)
	assert.Contains(t, body.Details, "token expired")
}

func TestMultiErrors(t *testing.T) {
	errs := NewMultiErrors()
	assert.False(t, errs.HasErrors())

	errs.Add("to", "invalid email address: bob", nil)
	assert.True(t, errs.HasErrors())
	assert.Equal(t, "to: invalid email address: bob", errs.Error())
}

func TestMultiErrors_KeepsFieldOrder(t *testing.T) {
	errs := NewMultiErrors()
	errs.Add("to", "please provide at least one recipient", nil)
	errs.Add("cc", "invalid email address: x", nil)
	errs.Add("to", "invalid email address: y", nil)

	assert.Equal(t, []string{"please provide at least one recipient", "invalid email address: y"}, errs.Messages("to"))
	assert.Equal(t, "to: please provide at least one recipient | to: invalid email address: y | cc: invalid email address: x", errs.Error())
}
