package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the control server of a running instance.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{BaseURL: base, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// Ping reports whether an instance answers on the address.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("control: health check returned %s", resp.Status)
	}
	return nil
}

func (c *Client) List(ctx context.Context) ([]TimerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/v1/timers", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var reply Reply
		_ = json.NewDecoder(resp.Body).Decode(&reply)
		return nil, &ReplyError{Status: resp.StatusCode, Reply: reply}
	}
	var timers []TimerInfo
	if err := json.NewDecoder(resp.Body).Decode(&timers); err != nil {
		return nil, fmt.Errorf("control: decode timers: %w", err)
	}
	return timers, nil
}

// Send runs a command line on the instance. A rejected command is returned
// as *ReplyError.
func (c *Client) Send(ctx context.Context, command, target string) (Reply, error) {
	payload, err := json.Marshal(CommandBody{Command: command, Target: target})
	if err != nil {
		return Reply{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/commands", bytes.NewReader(payload))
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Reply{}, err
	}
	defer resp.Body.Close()
	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("control: decode reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return reply, &ReplyError{Status: resp.StatusCode, Reply: reply}
	}
	return reply, nil
}

type ReplyError struct {
	Status int
	Reply  Reply
}

func (e *ReplyError) Error() string {
	if e.Reply.Error != "" {
		return e.Reply.Error
	}
	return fmt.Sprintf("control: request failed with status %d", e.Status)
}

func IsReplyCode(err error, code string) bool {
	var re *ReplyError
	return errors.As(err, &re) && re.Reply.Code == code
}
