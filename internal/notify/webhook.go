package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// Colors for Discord embeds
	colorRed   = 15158332 // 0xE74C3C - for failures
	colorGreen = 5763719  // 0x57F287 - for success

	// Default timeout for webhook requests
	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// NewRunCompletePayload creates a payload summarizing a finished collection
// run. uploadsOK/uploadsFailed count export files by upload outcome.
func NewRunCompletePayload(totalRecords int, runtime time.Duration, regionCount int, uploadsOK, uploadsFailed int) WebhookPayload {
	uploads := fmt.Sprintf("%d uploaded", uploadsOK)
	if uploadsFailed > 0 {
		uploads = fmt.Sprintf("%d uploaded, %d failed", uploadsOK, uploadsFailed)
	}

	return WebhookPayload{
		Embeds: []Embed{
			{
				Title: "✅ Ranked ETL Complete",
				Color: colorGreen,
				Fields: []EmbedField{
					{
						Name:   "Matches Collected",
						Value:  formatNumber(totalRecords),
						Inline: true,
					},
					{
						Name:   "Runtime",
						Value:  formatDuration(runtime),
						Inline: true,
					},
					{
						Name:   "Regions",
						Value:  strconv.Itoa(regionCount),
						Inline: true,
					},
					{
						Name:   "Uploads",
						Value:  uploads,
						Inline: true,
					},
				},
				Footer: &EmbedFooter{
					Text: "lol_ranked_etl",
				},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
}

// NewRunFailedPayload creates a payload for a run that aborted before
// producing exports.
func NewRunFailedPayload(reason string, runtime time.Duration) WebhookPayload {
	return WebhookPayload{
		Content: "@here Ranked ETL run failed!",
		Embeds: []Embed{
			{
				Title:       "🚨 Ranked ETL Failed",
				Description: reason,
				Color:       colorRed,
				Fields: []EmbedField{
					{
						Name:   "Runtime",
						Value:  formatDuration(runtime),
						Inline: true,
					},
				},
				Footer: &EmbedFooter{
					Text: "lol_ranked_etl",
				},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
}

// WebhookClient sends notifications to Discord webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendRunComplete sends a run completion notification
func (c *WebhookClient) SendRunComplete(ctx context.Context, totalRecords int, runtime time.Duration, regionCount, uploadsOK, uploadsFailed int) error {
	payload := NewRunCompletePayload(totalRecords, runtime, regionCount, uploadsOK, uploadsFailed)
	return c.sendPayload(ctx, payload)
}

// SendRunFailed sends a run failure notification
func (c *WebhookClient) SendRunFailed(ctx context.Context, reason string, runtime time.Duration) error {
	payload := NewRunFailedPayload(reason, runtime)
	return c.sendPayload(ctx, payload)
}

// sendPayload sends a webhook payload with retry on rate limiting
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Success - Discord returns 204 No Content
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		// Rate limited - wait and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			waitDuration := time.Second // Default wait
			if retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					waitDuration = time.Duration(seconds) * time.Second
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		// Other error
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// formatNumber formats a number with commas (e.g., 47832 -> "47,832")
func formatNumber(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}

	s := strconv.Itoa(n)
	var result bytes.Buffer
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}

// formatDuration formats a duration as "Xh Ym" or "Xm Ys" for short runs
func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
