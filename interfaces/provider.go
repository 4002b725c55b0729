package interfaces

import (
	"context"

	"github.com/customeros/mailbridge/dto"
	"github.com/customeros/mailbridge/internal/enum"
)

// EmailProvider is the capability set every upstream adapter exposes.
// Failures are *errors.ProviderError values tagged with the adapter.
type EmailProvider interface {
	Name() enum.Provider
	ListMessages(ctx context.Context, credential string, query dto.ListQuery) (*dto.ListResult, error)
	GetMessage(ctx context.Context, credential, id string) (*dto.MessageDetail, error)
	SendMessage(ctx context.Context, credential string, req dto.SendMessageRequest) (*dto.SendReceipt, error)
	ListLabels(ctx context.Context, credential string) ([]dto.Label, error)
	BatchModifyLabels(ctx context.Context, credential string, req dto.BatchModifyRequest) error
	GetProfile(ctx context.Context, credential string) (*dto.Profile, error)
}

type ThreadReader interface {
	GetThread(ctx context.Context, credential, threadID string) (*dto.Thread, error)
}
