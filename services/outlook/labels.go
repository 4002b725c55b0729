package outlook

import (
	"context"
	"net/url"

	"github.com/opentracing/opentracing-go/log"
	"golang.org/x/sync/errgroup"

	"github.com/customeros/mailbridge/dto"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/internal/utils"
)

const folderLabelType = "user"

func (s *outlookService) ListLabels(ctx context.Context, credential string) ([]dto.Label, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "OutlookService.ListLabels")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	var resp struct {
		Value []struct {
			ID          string `json:"id"`
			DisplayName string `json:"displayName"`
		} `json:"value"`
	}
	if err := s.doGet(ctx, s.client(ctx, credential), "/me/mailFolders?$top=100", &resp); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	labels := make([]dto.Label, 0, len(resp.Value))
	for _, f := range resp.Value {
		labels = append(labels, dto.Label{
			ID:   f.ID,
			Name: f.DisplayName,
			Type: utils.Ptr(folderLabelType),
		})
	}
	return labels, nil
}

// BatchModifyLabels moves every message to the folder of the first added
// label. Graph has no label removal, so removals are ignored.
func (s *outlookService) BatchModifyLabels(ctx context.Context, credential string, req dto.BatchModifyRequest) error {
	span, ctx := tracing.StartTracerSpan(ctx, "OutlookService.BatchModifyLabels")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogFields(log.Int("ids", len(req.IDs)))

	if len(req.AddLabelIDs) == 0 {
		return nil
	}
	destination := FolderFor(utils.FirstOrEmpty(req.AddLabelIDs))
	span.LogFields(log.String("destination", destination))

	client := s.client(ctx, credential)
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.FanOutLimit > 0 {
		g.SetLimit(s.cfg.FanOutLimit)
	}
	for _, id := range req.IDs {
		id := id
		g.Go(func() error {
			body := map[string]string{"destinationId": destination}
			return s.doPost(gctx, client, "/me/messages/"+url.PathEscape(id)+"/move", body, nil)
		})
	}
	if err := g.Wait(); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (s *outlookService) GetProfile(ctx context.Context, credential string) (*dto.Profile, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "OutlookService.GetProfile")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	var me struct {
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
		DisplayName       string `json:"displayName"`
	}
	if err := s.doGet(ctx, s.client(ctx, credential), "/me", &me); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	email := me.Mail
	if email == "" {
		email = me.UserPrincipalName
	}
	return &dto.Profile{Email: email, Name: utils.StringPtrOrNil(me.DisplayName)}, nil
}
