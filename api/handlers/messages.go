package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	apierrors "github.com/customeros/mailbridge/api/errors"
	"github.com/customeros/mailbridge/dto"
	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/internal/utils"
)

func (h *ProviderHandler) ListMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProviderHandler.ListMessages")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		ctx, provider, credential, err := h.resolve(ctx, c)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		var query dto.ListQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			h.respondWithError(c, span, mailbridge_errors.NewValidation(provider.Name(), "Invalid query parameters", err))
			return
		}

		result, err := provider.ListMessages(ctx, credential, query)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *ProviderHandler) GetMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProviderHandler.GetMessage")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		ctx, provider, credential, err := h.resolve(ctx, c)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		detail, err := provider.GetMessage(ctx, credential, c.Param("id"))
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, detail)
	}
}

func (h *ProviderHandler) SendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProviderHandler.SendMessage")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		ctx, provider, credential, err := h.resolve(ctx, c)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		var request dto.SendMessageRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			h.respondWithError(c, span, mailbridge_errors.NewValidation(provider.Name(), "Invalid request format", err))
			return
		}

		if errs := validateSendRequest(ctx, &request); errs.HasErrors() {
			h.respondWithError(c, span, errs)
			return
		}

		receipt, err := provider.SendMessage(ctx, credential, request)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, receipt)
	}
}

// validateSendRequest cleans the recipient lists in place and checks their
// syntax.
func validateSendRequest(ctx context.Context, request *dto.SendMessageRequest) *apierrors.MultiErrors {
	span, _ := opentracing.StartSpanFromContext(ctx, "ProviderHandler.validateSendRequest")
	defer span.Finish()

	errs := apierrors.NewMultiErrors()

	request.To = utils.CleanRecipients(request.To)
	request.Cc = utils.CleanRecipients(request.Cc)

	if len(request.To) == 0 {
		errs.Add("to", "please provide at least one recipient", mailbridge_errors.ErrNoRecipients)
	}
	for _, email := range utils.InvalidEmails(request.To) {
		errs.Add("to", "invalid email address: "+email, errors.New("invalid email format"))
	}
	for _, email := range utils.InvalidEmails(request.Cc) {
		errs.Add("cc", "invalid email address: "+email, errors.New("invalid email format"))
	}
	for i, attachment := range request.Attachments {
		if strings.TrimSpace(attachment.Filename) == "" {
			errs.Add("attachments", "attachment filename is required", errors.Errorf("attachment %d has no filename", i))
		}
	}

	span.LogFields(log.Bool("valid", !errs.HasErrors()))
	return errs
}

func (h *ProviderHandler) GetThread() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProviderHandler.GetThread")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		ctx, provider, credential, err := h.resolve(ctx, c)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		reader, err := h.gateway.Thread(provider)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		thread, err := reader.GetThread(ctx, credential, c.Param("id"))
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, thread)
	}
}

func (h *ProviderHandler) respondWithError(c *gin.Context, span opentracing.Span, err error) {
	tracing.TraceErr(span, err)
	status, _ := apierrors.StatusAndMessage(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	apierrors.Render(c, err)
}
