package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookSink 安全告警 webhook
// 只转发 DENY 事件（跨租户访问、superadmin 越权、缺失租户上下文），
// ALLOW 事件不触发告警
type WebhookSink struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookSink 创建 webhook sink
func NewWebhookSink(url string) *WebhookSink {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &WebhookSink{httpClient: client, url: url}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Emit(ctx context.Context, ev Event) error {
	if ev.Outcome != OutcomeDeny {
		return nil
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(ev).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("failed to post security alert: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("security alert webhook returned status %d", resp.StatusCode())
	}
	return nil
}
