package notify

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cardroom/scorepad/internal/platform/logging"
	"github.com/cardroom/scorepad/internal/platform/resilience"
	"github.com/cardroom/scorepad/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookPublisherConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	Workers        int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher delivers change events to an external observer
// endpoint. Delivery runs on a worker pool so recording a score never
// waits on the observer; failed deliveries are logged and dropped.
type WebhookPublisher struct {
	client         *http.Client
	url            string
	token          string
	logger         *logging.Logger
	pool           *ants.Pool
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) (*WebhookPublisher, error) {
	endpoint, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid WEBHOOK_URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg == (resilience.CircuitBreakerConfig{}) {
		breakerCfg = resilience.DefaultCircuitBreakerConfig()
	}

	// Nonblocking: a saturated pool drops the event instead of making
	// the caller wait.
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, crerr.Wrap(err, "create webhook worker pool")
	}

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		url:            endpoint,
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		pool:           pool,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}, nil
}

var _ usecase.ChangeNotifier = (*WebhookPublisher)(nil)

func (p *WebhookPublisher) RubberChanged(ctx context.Context, event usecase.ChangeEvent) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.url", p.url),
			attribute.String("webhook.event_kind", string(event.Kind)),
			attribute.String("webhook.rubber_id", event.RubberID),
		)
	}

	if err := p.pool.Submit(func() {
		deliverCtx, cancel := context.WithTimeout(context.Background(), p.client.Timeout+time.Second)
		defer cancel()
		if err := p.deliver(deliverCtx, event); err != nil {
			p.logger.Warn("webhook delivery failed", "rubber_id", event.RubberID, "kind", event.Kind, "error", err)
		}
	}); err != nil {
		p.logger.WarnContext(ctx, "webhook delivery dropped", "rubber_id", event.RubberID, "kind", event.Kind, "error", err)
	}
}

// Close drains the worker pool. Events still queued are dropped.
func (p *WebhookPublisher) Close() {
	p.pool.Release()
}

func (p *WebhookPublisher) deliver(ctx context.Context, event usecase.ChangeEvent) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			return fmt.Errorf("webhook endpoint is temporarily unavailable: %w", err)
		}
	}

	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal change event")
	}
	p.logger.DebugContext(ctx, "webhook delivery request",
		"url", p.url,
		"curl_preview", buildWebhookCurlPreview(p.url, truncateForLog(string(body), 4096), p.token != ""),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: post change event url=%s: %v", errWebhookTransient, p.url, err)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		callErr := fmt.Errorf(
			"post change event status=%d url=%s body=%s",
			resp.StatusCode,
			p.url,
			strings.TrimSpace(string(raw)),
		)
		if isWebhookRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: %v", errWebhookTransient, callErr)
		}
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.recordCircuitResult(nil)
	return nil
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errWebhookTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isWebhookRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
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

	return strings.TrimRight(candidate, "/"), nil
}

func buildWebhookCurlPreview(endpoint, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(endpoint))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
