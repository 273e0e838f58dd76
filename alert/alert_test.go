package alert

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"cpuwatch/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// webhookServer is an in-memory Discord stand-in.
type webhookServer struct {
	ln *fasthttputil.InmemoryListener

	mu       sync.Mutex
	received []Payload
	paths    []string
}

func newWebhookServer(t *testing.T, handle func(ctx *fasthttp.RequestCtx)) *webhookServer {
	s := &webhookServer{ln: fasthttputil.NewInmemoryListener()}
	go fasthttp.Serve(s.ln, func(ctx *fasthttp.RequestCtx) {
		var p Payload
		_ = json.Unmarshal(ctx.PostBody(), &p)
		s.mu.Lock()
		s.received = append(s.received, p)
		s.paths = append(s.paths, string(ctx.Path()))
		s.mu.Unlock()
		handle(ctx)
	})
	t.Cleanup(func() { s.ln.Close() })
	return s
}

func (s *webhookServer) sink(path string) *WebhookSink {
	sink := NewWebhookSink("http://webhook.test" + path)
	sink.Client.Dial = func(addr string) (net.Conn, error) { return s.ln.Dial() }
	return sink
}

func (s *webhookServer) payloads() []Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Payload(nil), s.received...)
}

func TestWebhookSink_PostsJSON(t *testing.T) {
	var contentType, method string
	srv := newWebhookServer(t, func(ctx *fasthttp.RequestCtx) {
		contentType = string(ctx.Request.Header.ContentType())
		method = string(ctx.Method())
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	})

	out := srv.sink("/api/webhooks/1/abc").Send(context.Background(), Payload{Username: "bot", Content: "hi\nthere"})
	require.NoError(t, out.Err)
	assert.Equal(t, fasthttp.StatusNoContent, out.StatusCode)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, fasthttp.MethodPost, method)
	assert.Equal(t, []Payload{{Username: "bot", Content: "hi\nthere"}}, srv.payloads())
}

func TestWebhookSink_ReturnsStatusAndBody(t *testing.T) {
	srv := newWebhookServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
		ctx.SetBodyString(`{"message": "You are being rate limited."}`)
	})

	out := srv.sink("/hook").Send(context.Background(), Payload{})
	require.NoError(t, out.Err)
	assert.Equal(t, fasthttp.StatusTooManyRequests, out.StatusCode)
	assert.Equal(t, `Status Code: 429, Message: {"message": "You are being rate limited."}`, out.String())
}

func TestWebhookSink_Timeout(t *testing.T) {
	srv := newWebhookServer(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(500 * time.Millisecond)
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	})
	sink := srv.sink("/slow")
	sink.Timeout = 50 * time.Millisecond

	start := time.Now()
	out := sink.Send(context.Background(), Payload{})
	assert.Error(t, out.Err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestWebhookSink_PlaceholderURL(t *testing.T) {
	out := NewWebhookSink("[YOUR DISCORD WEBHOOK REPORT URL HERE]").Send(context.Background(), Payload{})
	assert.Error(t, out.Err)
	assert.Zero(t, out.StatusCode)
}

func TestDryRunSink(t *testing.T) {
	out := DryRunSink{Logger: logging.Discard()}.Send(context.Background(), Payload{Content: "x"})
	assert.NoError(t, out.Err)
	assert.Equal(t, fasthttp.StatusNoContent, out.StatusCode)
}

// recordingSink answers from a fixed Outcome and keeps what it was sent.
type recordingSink struct {
	out  Outcome
	sent []Payload
}

func (s *recordingSink) Send(ctx context.Context, p Payload) Outcome {
	s.sent = append(s.sent, p)
	return s.out
}

func newController(reportOut, panicOut Outcome) (*Controller, *recordingSink, *recordingSink) {
	report := &recordingSink{out: reportOut}
	alarm := &recordingSink{out: panicOut}
	return &Controller{
		Report:   report,
		Panic:    alarm,
		Username: "cpu-bot",
		Logger:   logging.Discard(),
	}, report, alarm
}

func TestController_Delivered(t *testing.T) {
	c, report, alarm := newController(Outcome{StatusCode: 204}, Outcome{})

	res := c.Deliver(context.Background(), "body")
	assert.Equal(t, StateNormal, res.State)
	assert.Equal(t, Delivered, res.Delivery)
	assert.Nil(t, res.Panic)
	assert.Equal(t, []Payload{{Username: "cpu-bot", Content: "body"}}, report.sent)
	assert.Empty(t, alarm.sent)
}

func TestController_PossiblyDelivered(t *testing.T) {
	c, report, alarm := newController(Outcome{StatusCode: 200, Body: "{}"}, Outcome{})

	res := c.Deliver(context.Background(), "body")
	assert.Equal(t, StateNormal, res.State)
	assert.Equal(t, PossiblyDelivered, res.Delivery)
	assert.Len(t, report.sent, 1)
	assert.Empty(t, alarm.sent)
}

func TestController_PanicOnFailure(t *testing.T) {
	cases := []struct {
		name      string
		reportOut Outcome
		panicOut  Outcome
		failure   string
	}{
		{
			name:      "bad status, alert accepted",
			reportOut: Outcome{StatusCode: 404, Body: `{"message": "Unknown Webhook"}`},
			panicOut:  Outcome{StatusCode: 204},
			failure:   `Error sending message. Status Code: 404, Message: {"message": "Unknown Webhook"}`,
		},
		{
			name:      "bad status, alert also fails",
			reportOut: Outcome{StatusCode: 500, Body: "oops"},
			panicOut:  Outcome{StatusCode: 500, Body: "still oops"},
			failure:   "Error sending message. Status Code: 500, Message: oops",
		},
		{
			name:      "transport error, alert unreachable",
			reportOut: Outcome{Err: assert.AnError},
			panicOut:  Outcome{Err: assert.AnError},
			failure:   "Error sending message: " + assert.AnError.Error(),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, report, alarm := newController(tc.reportOut, tc.panicOut)

			res := c.Deliver(context.Background(), "body")
			assert.Equal(t, StatePanic, res.State)
			assert.Equal(t, Failed, res.Delivery)
			assert.Equal(t, tc.failure, res.Failure)
			require.NotNil(t, res.Panic)
			assert.Equal(t, tc.panicOut, *res.Panic)

			assert.Len(t, report.sent, 1)
			require.Len(t, alarm.sent, 1)
			assert.Equal(t, PanicUsername, alarm.sent[0].Username)
			assert.True(t, strings.HasPrefix(alarm.sent[0].Content, "Failure occurred: \n"))
			assert.Equal(t, PanicPrefix+tc.failure, alarm.sent[0].Content)
		})
	}
}

func TestController_OverHTTP(t *testing.T) {
	srv := newWebhookServer(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) == "/report" {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			ctx.SetBodyString("bad")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	})
	c := &Controller{
		Report:   srv.sink("/report"),
		Panic:    srv.sink("/panic"),
		Username: "cpu-bot",
		Logger:   logging.Discard(),
	}

	res := c.Deliver(context.Background(), "Heavy processes found!\n\n")
	assert.Equal(t, StatePanic, res.State)
	require.NotNil(t, res.Panic)
	assert.Equal(t, fasthttp.StatusNoContent, res.Panic.StatusCode)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, []string{"/report", "/panic"}, srv.paths)
	assert.Equal(t, "Failure occurred: \nError sending message. Status Code: 400, Message: bad", srv.received[1].Content)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "NORMAL", StateNormal.String())
	assert.Equal(t, "PANIC", StatePanic.String())
}
