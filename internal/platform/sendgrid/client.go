package sendgrid

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/znznow/agreements-backend/internal/pkg/httpx"
	"github.com/znznow/agreements-backend/internal/platform/envutil"
	"github.com/znznow/agreements-backend/internal/platform/logger"
)

// Client sends agreement notices through the SendGrid v3 mail API.
type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	Timeout          time.Duration
	MaxRetries       int
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:           strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		BaseURL:          strings.TrimSpace(os.Getenv("SENDGRID_BASE_URL")),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", "agreements@znznow.com"),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "ZNZNOW"),
		Timeout:          time.Duration(envutil.Int("SENDGRID_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 3),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &client{
		log:        log.With("client", "SendGridClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

type SendEmailRequest struct {
	From        EmailAddress
	To          []EmailAddress
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type SendEmailResult struct {
	StatusCode int
	MessageID  string
}

// SendGrid mail send wire types.
type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             EmailAddress      `json:"from"`
	Subject          string            `json:"subject,omitempty"`
	Content          []mailContent     `json:"content,omitempty"`
	Attachments      []sgAttachment    `json:"attachments,omitempty"`
}

type personalization struct {
	To []EmailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgAttachment struct {
	Content     string `json:"content"`
	Type        string `json:"type,omitempty"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition,omitempty"`
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("sendgrid client unavailable")
	}

	if strings.TrimSpace(req.From.Email) == "" {
		req.From.Email = c.cfg.DefaultFromEmail
		req.From.Name = c.cfg.DefaultFromName
	}
	if req.From.Email == "" {
		return nil, fmt.Errorf("sendgrid: From.Email required (or set SENDGRID_FROM_EMAIL)")
	}
	if len(req.To) == 0 {
		return nil, fmt.Errorf("sendgrid: To required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("sendgrid: Subject required")
	}

	contents := []mailContent{}
	if t := strings.TrimSpace(req.Text); t != "" {
		contents = append(contents, mailContent{Type: "text/plain", Value: t})
	}
	if h := strings.TrimSpace(req.HTML); h != "" {
		contents = append(contents, mailContent{Type: "text/html", Value: h})
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("sendgrid: Text or HTML content required")
	}

	atts := make([]sgAttachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		if a.Filename == "" || len(a.Content) == 0 {
			return nil, fmt.Errorf("sendgrid: attachment requires filename and content")
		}
		atts = append(atts, sgAttachment{
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			Type:        a.MIMEType,
			Filename:    a.Filename,
			Disposition: "attachment",
		})
	}

	wire := mailSendRequest{
		Personalizations: []personalization{{To: req.To}},
		From:             req.From,
		Subject:          req.Subject,
		Content:          contents,
		Attachments:      atts,
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("sendgrid: marshal request: %w", err)
	}

	url := c.cfg.BaseURL + "/v3/mail/send"
	backoff := time.Second

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(httpx.Jitter(backoff)):
			}
			backoff *= 2
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("sendgrid: build request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("sendgrid: send request: %w", err)
			c.log.Warn("mail send attempt failed", "attempt", attempt, "error", err)
			continue
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		_ = resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &SendEmailResult{
				StatusCode: resp.StatusCode,
				MessageID:  resp.Header.Get("X-Message-Id"),
			}, nil
		}

		lastErr = fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if !httpx.RetryableStatus(resp.StatusCode) {
			return nil, lastErr
		}
		backoff = httpx.RetryAfter(resp, backoff, 30*time.Second)
		c.log.Warn("mail send attempt rejected", "attempt", attempt, "status", resp.StatusCode)
	}

	return nil, lastErr
}
