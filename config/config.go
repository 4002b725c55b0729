package config

import "time"

type AppConfig struct {
	APIPort           string        `env:"PORT,required" envDefault:"12222"`
	APIKey            string        `env:"API_KEY,required,notEmpty"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
	FanOutConcurrency int           `env:"FANOUT_CONCURRENCY" envDefault:"0"`
	CursorCacheTTL    time.Duration `env:"CURSOR_CACHE_TTL" envDefault:"0"`
}

type GmailConfig struct {
	// Empty keeps the client library default endpoint.
	ApiEndpoint string `env:"GMAIL_API_ENDPOINT"`
}

type GraphConfig struct {
	Url string `env:"GRAPH_API_URL" envDefault:"https://graph.microsoft.com/v1.0"`
}

type PostmarkConfig struct {
	Url          string `env:"POSTMARK_API_URL" envDefault:"https://api.postmarkapp.com"`
	ServerToken  string `env:"POSTMARK_API_TOKEN"`
	SenderDomain string `env:"POSTMARK_SENDER_DOMAIN" envDefault:"drayinsight.com"`
}
