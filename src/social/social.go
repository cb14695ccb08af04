/*
Posts published articles to the configured social account. The whole package
is best-effort by design: callers log failures and move on, and nothing here
may affect the publish transition that triggered the post.
*/
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"git.newshub.network/newshub/newshub/src/config"
	"git.newshub.network/newshub/newshub/src/oops"
	"git.newshub.network/newshub/newshub/src/utils"
	"github.com/jpillora/backoff"
)

type Client struct {
	cfg        config.SocialConfig
	httpClient *http.Client
}

func NewClient() *Client {
	return NewClientWithConfig(config.Config.Social)
}

func NewClientWithConfig(cfg config.SocialConfig) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Whether posting is configured at all. Unconfigured is not an error; dev
// environments run without a social account.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.PostUrl != ""
}

type postPayload struct {
	Status string `json:"status"`
}

// Announces a published article on the configured social account, retrying
// transient failures with backoff. Returns the last error when all attempts
// fail.
func (c *Client) PostArticle(ctx context.Context, title string, authorName string) error {
	if !c.Enabled() {
		return nil
	}

	payload, err := json.Marshal(postPayload{
		Status: fmt.Sprintf("%s, by %s - read it on %s", title, authorName, config.Config.BaseUrl),
	})
	if err != nil {
		return oops.New(err, "failed to marshal social post")
	}

	b := backoff.Backoff{
		Min: time.Second,
		Max: 30 * time.Second,
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := utils.SleepContext(ctx, b.Duration()); err != nil {
				return err
			}
		}

		lastErr = c.post(ctx, payload)
		if lastErr == nil {
			return nil
		}
	}

	return oops.New(lastErr, "failed to send social post after %d attempts", c.cfg.MaxAttempts)
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PostUrl, bytes.NewReader(payload))
	if err != nil {
		return oops.New(err, "failed to create social post request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("social post failed with status %d: %s", res.StatusCode, string(body))
	}
	return nil
}
