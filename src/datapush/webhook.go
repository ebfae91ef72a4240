package datapush

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	RETRY_TIMES    = 3
	RETRY_INTERVAL = 2 * time.Second
)

// Message is the payload delivered to the configured webhook after a run.
type Message struct {
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Year        int      `json:"year"`
	GeneratedAt string   `json:"generated_at"`
	Attachments []string `json:"attachments,omitempty"` // report file paths
}

// PushSummary POSTs the run summary to the webhook with bounded retries.
// An empty URL disables delivery.
func PushSummary(webhookURL string, msg Message) error {
	if webhookURL == "" {
		return nil
	}
	if msg.GeneratedAt == "" {
		msg.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize summary payload: %w", err)
	}

	return retry(func() error {
		return post(webhookURL, payload)
	}, RETRY_TIMES, RETRY_INTERVAL)
}

func post(url string, payload []byte) error {
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook answered %s: %s", resp.Status, body)
	}
	return nil
}

func retry(fn func() error, times int, interval time.Duration) error {
	var err error
	for i := 0; i < times; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < times-1 {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("failed after %d attempts: %v", times, err)
}
