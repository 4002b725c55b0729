package utils

import (
	"context"

	"github.com/gin-gonic/gin"
)

type CustomContext struct {
	AppSource string
	RequestId string
	Provider  string
	Company   string
}

type contextKey string

const customContextKey contextKey = "CUSTOM_CONTEXT"

func WithCustomContext(ctx context.Context, customContext *CustomContext) context.Context {
	return context.WithValue(ctx, customContextKey, customContext)
}

func WithCustomContextFromGinRequest(c *gin.Context, appSource string) context.Context {
	customContext := &CustomContext{
		AppSource: appSource,
		RequestId: c.GetString("RequestId"),
		Provider:  c.Query("provider"),
		Company:   c.Query("company"),
	}
	return WithCustomContext(c.Request.Context(), customContext)
}

func GetContext(ctx context.Context) *CustomContext {
	customContext, ok := ctx.Value(customContextKey).(*CustomContext)
	if !ok {
		return new(CustomContext)
	}
	return customContext
}

func GetAppSourceFromContext(ctx context.Context) string {
	return GetContext(ctx).AppSource
}

func GetRequestIdFromContext(ctx context.Context) string {
	return GetContext(ctx).RequestId
}

func GetProviderFromContext(ctx context.Context) string {
	return GetContext(ctx).Provider
}

func SetProviderInContext(ctx context.Context, provider string) context.Context {
	customContext := *GetContext(ctx)
	customContext.Provider = provider
	return WithCustomContext(ctx, &customContext)
}
