package postmark

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/mailbridge/dto"
	mailbridge_errors "github.com/customeros/mailbridge/errors"
	"github.com/customeros/mailbridge/internal/enum"
	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/internal/utils"
)

type captured struct {
	token  string
	path   string
	accept string
	body   map[string]any
}

func newTestService(t *testing.T, company string, status int, respBody string) (*postmarkService, *captured, *int32) {
	t.Helper()
	got := &captured{}
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		got.token = r.Header.Get(serverTokenHeader)
		got.path = r.URL.Path
		got.accept = r.Header.Get("Accept")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)

	svc := NewPostmarkService(srv.Client(), Config{Url: srv.URL, ServerToken: "server-token"}, company, logger.NewNopLogger())
	return svc.(*postmarkService), got, &calls
}

func TestSendMessage_Payload(t *testing.T) {
	svc, got, _ := newTestService(t, "Acme Corp", http.StatusOK, `{"To":"a@x.com","MessageID":"pm-1","ErrorCode":0,"Message":"OK"}`)

	receipt, err := svc.SendMessage(context.Background(), "", dto.SendMessageRequest{
		To:      []string{"a@x.com", "b@x.com"},
		Subject: "hi",
		Body:    "<p>hi</p>",
		Attachments: []dto.OutgoingAttachment{
			{Filename: "a.txt", Content: []byte("abc"), MimeType: "text/plain"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "pm-1", receipt.ID)
	assert.Equal(t, "postmark", receipt.Provider)
	assert.Equal(t, "sent", receipt.Status)

	assert.Equal(t, "/email", got.path)
	assert.Equal(t, "server-token", got.token)
	assert.Equal(t, "application/json", got.accept)
	assert.Equal(t, "acmecorp@drayinsight.com", got.body["From"])
	assert.Equal(t, "a@x.com,b@x.com", got.body["To"])
	assert.NotContains(t, got.body, "Cc")
	assert.Equal(t, "<p>hi</p>", got.body["HtmlBody"])

	atts, ok := got.body["Attachments"].([]any)
	require.True(t, ok)
	require.Len(t, atts, 1)
	att := atts[0].(map[string]any)
	assert.Equal(t, "a.txt", att["Name"])
	assert.Equal(t, "YWJj", att["Content"])
	assert.Equal(t, "text/plain", att["ContentType"])
}

func TestSendMessage_CredentialAndCc(t *testing.T) {
	svc, got, _ := newTestService(t, "", http.StatusOK, `{"MessageID":"pm-2"}`)

	_, err := svc.SendMessage(context.Background(), "caller-token", dto.SendMessageRequest{
		To: []string{"a@x.com"},
		Cc: []string{"c@x.com", "d@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "caller-token", got.token)
	assert.Equal(t, "c@x.com,d@x.com", got.body["Cc"])
	assert.Equal(t, "unknown@drayinsight.com", got.body["From"])
}

func TestSendMessage_TracesUpstreamCall(t *testing.T) {
	tracer := mocktracer.New()
	previous := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(tracer)
	t.Cleanup(func() { opentracing.SetGlobalTracer(previous) })

	svc, _, _ := newTestService(t, "Acme", http.StatusOK, `{"MessageID":"pm-3"}`)
	ctx := utils.WithCustomContext(context.Background(), &utils.CustomContext{Provider: "postmark"})
	_, err := svc.SendMessage(ctx, "", dto.SendMessageRequest{To: []string{"a@x.com"}})
	require.NoError(t, err)

	spans := map[string]*mocktracer.MockSpan{}
	for _, span := range tracer.FinishedSpans() {
		spans[span.OperationName] = span
	}
	require.Contains(t, spans, "PostmarkService.postEmail")
	require.Contains(t, spans, "PostmarkService.SendMessage")
	upstream := spans["PostmarkService.postEmail"]
	assert.Equal(t, tracing.SpanTagComponentUpstream, upstream.Tag(tracing.SpanTagComponent))
	assert.Equal(t, uint16(http.StatusOK), upstream.Tag("http.status_code"))
	assert.Equal(t, "postmark", spans["PostmarkService.SendMessage"].Tag(tracing.SpanTagProvider))
}

func TestSendMessage_Rejected(t *testing.T) {
	svc, _, _ := newTestService(t, "Acme", http.StatusUnauthorized, `{"ErrorCode":10,"Message":"No Account or Server API tokens were supplied"}`)

	_, err := svc.SendMessage(context.Background(), "bad", dto.SendMessageRequest{To: []string{"a@x.com"}})
	kind, ok := mailbridge_errors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, enum.ErrorKindCredentialRejected, kind)
}

func TestSendMessage_UnprocessableIsUpstream(t *testing.T) {
	svc, _, _ := newTestService(t, "Acme", http.StatusUnprocessableEntity, `{"ErrorCode":300,"Message":"Invalid email request"}`)

	_, err := svc.SendMessage(context.Background(), "tok", dto.SendMessageRequest{To: []string{"a@x.com"}})
	var pe *mailbridge_errors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, enum.ErrorKindUpstream, pe.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.StatusCode)
	assert.Contains(t, pe.Error(), "Invalid email request")
}

func TestReadOperations(t *testing.T) {
	svc, _, calls := newTestService(t, "Acme Corp", http.StatusOK, `{}`)
	ctx := context.Background()

	res, err := svc.ListMessages(ctx, "", dto.ListQuery{PageNumber: utils.Ptr(2)})
	require.NoError(t, err)
	assert.Empty(t, res.Messages)
	assert.Equal(t, 2, res.Page)
	assert.Zero(t, res.ResultSizeEstimate)

	_, err = svc.GetMessage(ctx, "", "m1")
	var pe *mailbridge_errors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, enum.ErrorKindUnsupported, pe.Kind)
	assert.Equal(t, "Message viewing not supported for Postmark", pe.Message)

	_, err = svc.ListLabels(ctx, "")
	kind, _ := mailbridge_errors.KindOf(err)
	assert.Equal(t, enum.ErrorKindUnsupported, kind)

	err = svc.BatchModifyLabels(ctx, "", dto.BatchModifyRequest{IDs: []string{"m1"}})
	kind, _ = mailbridge_errors.KindOf(err)
	assert.Equal(t, enum.ErrorKindUnsupported, kind)

	profile, err := svc.GetProfile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "acmecorp@drayinsight.com", profile.Email)
	assert.Equal(t, "Acme Corp", *profile.Name)

	assert.Zero(t, atomic.LoadInt32(calls))
}
