// Package mail sends account-lifecycle notifications through the Resend
// REST API. Sending is always best-effort: an unconfigured sender is not an
// error, it simply reports that nothing was sent.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/interview-pilot/internal/deletion"
	"go.uber.org/zap"
)

const defaultEndpoint = "https://api.resend.com/emails"

const defaultAppName = "InterviewPilot AI"

// Config holds the Resend credentials. APIKey and From must both be set for
// the sender to be considered configured.
type Config struct {
	APIKey  string
	From    string
	AppName string
}

// Sender implements deletion.Mailer on top of the Resend API.
type Sender struct {
	cfg      Config
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewSender creates a Sender. A zero-value Config produces an unconfigured
// sender whose Send reports Configured=false without error.
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	if cfg.AppName == "" {
		cfg.AppName = defaultAppName
	}
	return &Sender{
		cfg:      cfg,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// Configured reports whether both the API key and the from address are set.
func (s *Sender) Configured() bool {
	return s.cfg.APIKey != "" && s.cfg.From != ""
}

// Send delivers one templated notification. Unknown templates are an error;
// an unconfigured sender returns a zero SendResult with no error.
func (s *Sender) Send(ctx context.Context, to string, template deletion.Template, params map[string]string) (deletion.SendResult, error) {
	if !s.Configured() {
		return deletion.SendResult{}, nil
	}

	subject, html, err := s.render(template, params)
	if err != nil {
		return deletion.SendResult{}, err
	}

	payload, err := json.Marshal(map[string]any{
		"from":    s.cfg.From,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return deletion.SendResult{}, fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return deletion.SendResult{}, fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return deletion.SendResult{}, fmt.Errorf("email request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return deletion.SendResult{}, fmt.Errorf("resend API error: %d %s", resp.StatusCode, string(body))
	}

	s.logger.Debug("notification sent",
		zap.String("template", string(template)),
		zap.String("to", to))

	return deletion.SendResult{Configured: true, Sent: true}, nil
}

func (s *Sender) render(template deletion.Template, params map[string]string) (subject, html string, err error) {
	switch template {
	case deletion.TemplateScheduled:
		subject = fmt.Sprintf("%s：アカウント削除の受付（%s日後に削除）", s.cfg.AppName, params["grace_period_days"])
		html = fmt.Sprintf(`<div style="font-family: ui-sans-serif, system-ui; line-height: 1.6; color: #1A1F36;">
  <p>%s のアカウント削除を受け付けました。</p>
  <p style="margin-top: 8px; color: #697386;">受付日時: %s</p>
  <p style="margin-top: 8px; color: #697386;">削除予定日時: %s</p>
  <p style="margin-top: 16px;">削除予定日までは、アカウント設定から削除予約を取り消すことができます。</p>
  <p style="margin-top: 16px;">この操作に心当たりがない場合は、至急サポートまでご連絡ください。</p>
</div>`, s.cfg.AppName, params["requested_at"], params["scheduled_for"])
		return subject, html, nil

	case deletion.TemplateCompleted:
		subject = fmt.Sprintf("%s：アカウント削除が完了しました", s.cfg.AppName)
		html = fmt.Sprintf(`<div style="font-family: ui-sans-serif, system-ui; line-height: 1.6; color: #1A1F36;">
  <p>%s のアカウント削除が完了しました。</p>
  <p style="margin-top: 8px; color: #697386;">削除日時: %s</p>
  <p style="margin-top: 16px;">この操作に心当たりがない場合は、至急サポートまでご連絡ください。</p>
</div>`, s.cfg.AppName, params["deleted_at"])
		return subject, html, nil

	default:
		return "", "", fmt.Errorf("unknown notification template: %s", template)
	}
}
