package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/interfaces"
	"github.com/customeros/mailbridge/internal/enum"
	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/internal/utils"
	"github.com/customeros/mailbridge/services/gateway"
)

const legacyTokenHeader = "x-google-token"

type ProviderHandler struct {
	gateway *gateway.Gateway
	log     logger.Logger
}

func NewProviderHandler(gw *gateway.Gateway, log logger.Logger) *ProviderHandler {
	return &ProviderHandler{
		gateway: gw,
		log:     log,
	}
}

// Credential returns the caller's upstream credential: the bearer token of
// the Authorization header, or the legacy x-google-token header.
func Credential(header http.Header) string {
	if auth := strings.TrimSpace(header.Get("Authorization")); auth != "" {
		if token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); token != "" {
			return token
		}
	}
	return strings.TrimSpace(header.Get(legacyTokenHeader))
}

// resolve selects the adapter for the request and extracts the credential.
// Postmark falls back to the server token, so it may go without one.
func (h *ProviderHandler) resolve(ctx context.Context, c *gin.Context) (context.Context, interfaces.EmailProvider, string, error) {
	provider, err := h.gateway.Select(c.Query("provider"), c.Query("company"))
	if err != nil {
		return ctx, nil, "", err
	}
	ctx = utils.SetProviderInContext(ctx, provider.Name().String())

	credential := Credential(c.Request.Header)
	if credential == "" && provider.Name() != enum.ProviderPostmark {
		return ctx, nil, "", errors.WithStack(mailbridge_errors.ErrMissingCredential)
	}
	return ctx, provider, credential, nil
}
