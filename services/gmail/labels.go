package gmail

import (
	"context"

	"google.golang.org/api/gmail/v1"

	"github.com/customeros/mailbridge/dto"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/internal/utils"
)

func (s *gmailService) ListLabels(ctx context.Context, credential string) ([]dto.Label, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "GmailService.ListLabels")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	svc, err := s.client(ctx, credential)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	resp, err := svc.Users.Labels.List(gmailUserID).Context(ctx).Do()
	if err != nil {
		err = classify(err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	labels := make([]dto.Label, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		labels = append(labels, dto.Label{
			ID:   l.Id,
			Name: l.Name,
			Type: utils.StringPtrOrNil(l.Type),
		})
	}
	return labels, nil
}

func (s *gmailService) BatchModifyLabels(ctx context.Context, credential string, req dto.BatchModifyRequest) error {
	span, ctx := tracing.StartTracerSpan(ctx, "GmailService.BatchModifyLabels")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.LogObjectAsJson(span, "request", req)

	svc, err := s.client(ctx, credential)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	err = svc.Users.Messages.BatchModify(gmailUserID, &gmail.BatchModifyMessagesRequest{
		Ids:            req.IDs,
		AddLabelIds:    req.AddLabelIDs,
		RemoveLabelIds: req.RemoveLabelIDs,
	}).Context(ctx).Do()
	if err != nil {
		err = classify(err)
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (s *gmailService) GetProfile(ctx context.Context, credential string) (*dto.Profile, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "GmailService.GetProfile")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	svc, err := s.client(ctx, credential)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	profile, err := svc.Users.GetProfile(gmailUserID).Context(ctx).Do()
	if err != nil {
		err = classify(err)
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &dto.Profile{Email: profile.EmailAddress}, nil
}
