package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/ranking"
)

const (
	defaultVerifyTimeout = 30 * time.Second
	maxErrorBody         = 64 << 10
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// FetchDataset calls GET /api/data on baseURL.
func (c *HTTPClient) FetchDataset(ctx context.Context, baseURL string) (model.Dataset, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/data"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
			return model.Dataset{}, fmt.Errorf("GET %s: %d %s: %s", url, resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return model.Dataset{}, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	var ds model.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return model.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

func newVerifyCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Fetch the dataset of a running server and check its ranking invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := newHTTPClient(timeout).FetchDataset(cmd.Context(), baseURL)
			if err != nil {
				return err
			}
			if err := ranking.Verify(ds); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: dataset %s has %d technologies over %d periods (%d points)\n",
				ds.ID, len(ds.Entities), len(ds.Periods), len(ds.Points))
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:3000", "Base URL of the server")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultVerifyTimeout, "HTTP request timeout")
	return cmd
}
