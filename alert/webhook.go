package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"cpuwatch/logging"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

// DefaultTimeout bounds one webhook call; a slower sink counts as failed.
const DefaultTimeout = 10 * time.Second

// Payload is the JSON body posted to both webhooks.
type Payload struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// Outcome is what a sink answered. Err is set when no HTTP response was
// received at all (bad URL, refused connection, timeout).
type Outcome struct {
	StatusCode int
	Body       string
	Err        error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return fmt.Sprintf("Status Code: %d, Message: %s", o.StatusCode, o.Body)
}

// Sink is a notification endpoint.
type Sink interface {
	Send(ctx context.Context, p Payload) Outcome
}

// WebhookSink posts payloads to a Discord-style webhook over fasthttp.
type WebhookSink struct {
	URL     string
	Timeout time.Duration
	Client  *fasthttp.Client
}

func NewWebhookSink(endpoint string) *WebhookSink {
	return &WebhookSink{
		URL:     endpoint,
		Timeout: DefaultTimeout,
		Client: &fasthttp.Client{
			Name:         "cpuwatch",
			ReadTimeout:  DefaultTimeout,
			WriteTimeout: DefaultTimeout,
		},
	}
}

func (s *WebhookSink) Send(ctx context.Context, p Payload) Outcome {
	// catches the placeholder URLs of a freshly created config before
	// fasthttp tries to dial them
	if u, err := url.Parse(s.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Outcome{Err: errors.Errorf("invalid webhook URL %q", s.URL)}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return Outcome{Err: errors.Wrap(err, "encode payload")}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(s.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	timeout := s.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return Outcome{Err: errors.Wrap(context.DeadlineExceeded, "post webhook")}
	}

	if err := s.Client.DoTimeout(req, resp, timeout); err != nil {
		return Outcome{Err: errors.Wrap(err, "post webhook")}
	}
	return Outcome{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
}

// DryRunSink stands in for a webhook in test mode. It never opens a
// connection and always answers 204 No Content.
type DryRunSink struct {
	Logger *logging.Logger
}

func (s DryRunSink) Send(ctx context.Context, p Payload) Outcome {
	s.Logger.Infof("Test mode, not sending message")
	return Outcome{StatusCode: fasthttp.StatusNoContent}
}
