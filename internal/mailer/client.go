// Package mailer talks to the outbound email delivery API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client sends transactional email through the delivery server's JSON API.
// Every call is bounded by the configured timeout and authenticated with the
// server token; there are no retries here.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	sender      string
	serverToken string
}

// NewClient builds a mail client for the given delivery server.
func NewClient(baseURL, sender, serverToken string, timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		sender:      sender,
		serverToken: serverToken,
	}
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// Send delivers one email to the recipient. A non-2xx response from the
// delivery server is a transport error.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(sendEmailRequest{
		From:     c.sender,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Email-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email server responded with %s", resp.Status)
	}
	return nil
}
