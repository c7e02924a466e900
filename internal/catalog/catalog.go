package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"prediction-api/internal/config"
)

// Client searches the imagery catalog for scenes covering a polygon within a
// time range. Authentication uses the client-credentials grant; tokens are
// cached until shortly before expiry.
type Client struct {
	cfg  config.CatalogConfig
	http *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Scene is one catalog entry for an acquisition.
type Scene struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	BBox       []float64 `json:"bbox,omitempty"`
	CloudCover float64   `json:"cloud_cover"`
}

type searchRequest struct {
	Collections []string        `json:"collections"`
	Intersects  json.RawMessage `json:"intersects"`
	Datetime    string          `json:"datetime"`
	Limit       int             `json:"limit"`
}

type searchResponse struct {
	Features []struct {
		ID         string    `json:"id"`
		BBox       []float64 `json:"bbox"`
		Properties struct {
			Datetime   time.Time `json:"datetime"`
			CloudCover float64   `json:"eo:cloud_cover"`
		} `json:"properties"`
	} `json:"features"`
}

// Search returns scenes from the configured collection that intersect the
// polygon and were acquired within [start, end].
func (c *Client) Search(ctx context.Context, polygon json.RawMessage, start, end time.Time) ([]Scene, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(searchRequest{
		Collections: []string{c.cfg.Collection},
		Intersects:  polygon,
		Datetime:    fmt.Sprintf("%s/%s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)),
		Limit:       100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog search: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog search returned status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	scenes := make([]Scene, 0, len(parsed.Features))
	for _, f := range parsed.Features {
		scenes = append(scenes, Scene{
			ID:         f.ID,
			Timestamp:  f.Properties.Datetime,
			BBox:       f.BBox,
			CloudCover: f.Properties.CloudCover,
		})
	}
	slog.Info("catalog search completed", "collection", c.cfg.Collection, "scenes", len(scenes))
	return scenes, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", fmt.Errorf("catalog credentials not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - 30*time.Second)
	return c.token, nil
}
