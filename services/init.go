package services

import (
	"net/http"

	"github.com/customeros/mailbridge/config"
	"github.com/customeros/mailbridge/interfaces"
	"github.com/customeros/mailbridge/internal/cursor"
	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/services/gateway"
	"github.com/customeros/mailbridge/services/gmail"
	"github.com/customeros/mailbridge/services/outlook"
	"github.com/customeros/mailbridge/services/postmark"
)

type Services struct {
	HTTPClient *http.Client
	Cursors    *cursor.Cache
	Gateway    *gateway.Gateway
}

func InitServices(cfg *config.Config, log logger.Logger) *Services {
	httpClient := &http.Client{Timeout: cfg.AppConfig.UpstreamTimeout}
	cursors := cursor.NewCache()

	gmailService := gmail.NewGmailService(httpClient, gmail.Config{
		Endpoint:    cfg.GmailConfig.ApiEndpoint,
		FanOutLimit: cfg.AppConfig.FanOutConcurrency,
	}, cursors, log)

	outlookService := outlook.NewOutlookService(httpClient, outlook.Config{
		BaseURL:     cfg.GraphConfig.Url,
		FanOutLimit: cfg.AppConfig.FanOutConcurrency,
	}, log)

	postmarkConfig := postmark.Config{
		Url:          cfg.PostmarkConfig.Url,
		ServerToken:  cfg.PostmarkConfig.ServerToken,
		SenderDomain: cfg.PostmarkConfig.SenderDomain,
	}
	postmarkFactory := func(company string) interfaces.EmailProvider {
		return postmark.NewPostmarkService(httpClient, postmarkConfig, company, log)
	}

	return &Services{
		HTTPClient: httpClient,
		Cursors:    cursors,
		Gateway:    gateway.NewGateway(gmailService, outlookService, postmarkFactory),
	}
}
