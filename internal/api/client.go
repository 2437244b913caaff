package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/voice-reminder/internal/config"
	"github.com/notexe/voice-reminder/internal/reminder"
)

const defaultTimeout = 10 * time.Second

// Client talks to the reminder REST API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a REST gateway for cfg.BaseURL.
func NewClient(cfg config.ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (c *Client) Create(ctx context.Context, text string) (int64, error) {
	resp, err := c.do(ctx, http.MethodPost, remindersPath, createRequest{Text: text}, http.StatusCreated)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("failed to decode create response: %w", err)
	}
	return created.ID, nil
}

func (c *Client) List(ctx context.Context) ([]reminder.Reminder, error) {
	resp, err := c.do(ctx, http.MethodGet, remindersPath, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reminders := []reminder.Reminder{}
	if err := json.NewDecoder(resp.Body).Decode(&reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminder list: %w", err)
	}
	return reminders, nil
}

func (c *Client) SetDone(ctx context.Context, id int64, done bool) error {
	resp, err := c.do(ctx, http.MethodPut, reminderPath(id), setDoneRequest{Done: &done}, http.StatusNoContent)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, reminderPath(id), nil, http.StatusNoContent)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Close releases resources (no-op for HTTP).
func (c *Client) Close() error {
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reminder API request failed: %w", err)
	}

	if resp.StatusCode != want {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(data))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", reminder.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", reminder.ErrValidation, msg)
	default:
		return fmt.Errorf("reminder API error (status %d): %s", resp.StatusCode, msg)
	}
}

func reminderPath(id int64) string {
	return remindersPath + "/" + strconv.FormatInt(id, 10)
}
