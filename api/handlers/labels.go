package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	apierrors "github.com/customeros/mailbridge/api/errors"
	"github.com/customeros/mailbridge/dto"
	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/internal/tracing"
)

func (h *ProviderHandler) ListLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProviderHandler.ListLabels")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		ctx, provider, credential, err := h.resolve(ctx, c)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		labels, err := provider.ListLabels(ctx, credential)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}
		if labels == nil {
			labels = []dto.Label{}
		}

		c.JSON(http.StatusOK, labels)
	}
}

func (h *ProviderHandler) BatchModifyLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProviderHandler.BatchModifyLabels")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		ctx, provider, credential, err := h.resolve(ctx, c)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		var request dto.BatchModifyRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			h.respondWithError(c, span, mailbridge_errors.NewValidation(provider.Name(), "Invalid request format", err))
			return
		}
		if len(request.IDs) == 0 {
			errs := apierrors.NewMultiErrors()
			errs.Add("ids", "please provide at least one message id", errors.New("ids is empty"))
			h.respondWithError(c, span, errs)
			return
		}

		if err := provider.BatchModifyLabels(ctx, credential, request); err != nil {
			h.respondWithError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (h *ProviderHandler) GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProviderHandler.GetProfile")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		ctx, provider, credential, err := h.resolve(ctx, c)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		profile, err := provider.GetProfile(ctx, credential)
		if err != nil {
			h.respondWithError(c, span, err)
			return
		}

		c.JSON(http.StatusOK, profile)
	}
}
