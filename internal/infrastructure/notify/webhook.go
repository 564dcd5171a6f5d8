package notify

import (
	"context"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/frogcrew/internal/domain/invitation"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/platform/resilience"
)

const eventInvitationIssued = "crew.invitation.issued"

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookNotifier posts each issued invitation to a mail relay as JSON.
type WebhookNotifier struct {
	client  *fasthttp.Client
	url     string
	token   string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

type invitationPayload struct {
	Event        string `json:"event"`
	InvitationID string `json:"invitationId"`
	Email        string `json:"email"`
	Link         string `json:"link,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

func NewWebhookNotifier(cfg WebhookConfig, logger *logging.Logger) (*WebhookNotifier, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("notify webhook circuit state changed", "from", from, "to", to)
	})

	return &WebhookNotifier{
		client: &fasthttp.Client{
			Name:                     "frogcrew-notifier",
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxIdleConnDuration:      time.Minute,
			NoDefaultUserAgentHeader: true,
		},
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		breaker: breaker,
		logger:  logger,
	}, nil
}

func (n *WebhookNotifier) NotifyInvitation(ctx context.Context, inv invitation.Invitation, link string) error {
	var permanent error
	err := n.breaker.Execute(ctx, func(ctx context.Context) error {
		callErr := n.post(ctx, inv, link)
		if callErr != nil && !crerr.Is(callErr, errWebhookTransient) {
			// 4xx responses do not count against the breaker.
			permanent = callErr
			return nil
		}
		return callErr
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		return crerr.Wrap(err, "notify webhook is temporarily unavailable")
	}
	if err != nil {
		return err
	}
	return permanent
}

func (n *WebhookNotifier) post(ctx context.Context, inv invitation.Invitation, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	payload := invitationPayload{
		Event:        eventInvitationIssued,
		InvitationID: inv.ID,
		Email:        inv.Email,
		Link:         link,
		CreatedAt:    inv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return crerr.Wrap(err, "encode invitation payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.url", n.url),
			attribute.String("notify.invitation_id", inv.ID),
		)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}
	req.Header.Set("Idempotency-Key", inv.ID)
	req.SetBody(buf.B)

	if err := n.client.DoTimeout(req, resp, n.callTimeout(ctx)); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "post invitation invitation_id=%s", inv.ID), errWebhookTransient)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		n.logger.DebugContext(ctx, "invitation notification delivered", "invitation_id", inv.ID, "status", status)
		return nil
	}

	body := truncateForLog(string(resp.Body()), 1024)
	if isRetryableStatus(status) {
		return crerr.Mark(crerr.Newf("post invitation status=%d invitation_id=%s body=%s", status, inv.ID, body), errWebhookTransient)
	}
	return crerr.Newf("post invitation rejected status=%d invitation_id=%s body=%s", status, inv.ID, body)
}

// callTimeout shortens the configured timeout to the context deadline.
func (n *WebhookNotifier) callTimeout(ctx context.Context) time.Duration {
	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = max(remaining, time.Millisecond)
		}
	}
	return timeout
}

func (n *WebhookNotifier) State() resilience.CircuitState {
	return n.breaker.State()
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func truncateForLog(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}
