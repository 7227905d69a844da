package monitor

import (
	"context"
	"fmt"
	"igmond/internal/models"
	"igmond/internal/providers"
	"igmond/internal/structures"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"
)

// ProfileFetcher is the boundary to the external profile source. Errors are
// advisory: callers treat any failure as an unknown observation, never as a
// reason to abort the cycle.
type ProfileFetcher interface {
	Fetch(ctx context.Context, username string) (*models.Profile, error)
}

func NewFetcher(conf *structures.Config, logger providers.Logger) ProfileFetcher {
	if conf.Monitor.FetchMode == "http" {
		return NewHTTPFetcher(conf, logger)
	}
	return &HeuristicFetcher{}
}

// HeuristicFetcher derives a status from the username alone. Used in
// development and as the default until a profile endpoint is configured.
type HeuristicFetcher struct{}

func (f *HeuristicFetcher) Fetch(_ context.Context, username string) (*models.Profile, error) {
	name := models.NormalizeUsername(username)
	profile := &models.Profile{Username: name, Status: models.StatusActive}
	if strings.Contains(name, "banned") || strings.Contains(name, "suspended") {
		profile.Status = models.StatusBanned
	}
	return profile, nil
}

// HTTPFetcher looks up a profile over HTTP with a bounded number of retries.
// A 404 means the account is gone (banned); any terminal failure surfaces as
// StatusUnknown alongside the error.
type HTTPFetcher struct {
	client   *http.Client
	baseURL  string
	retries  uint64
	interval time.Duration
	logger   providers.Logger
}

func NewHTTPFetcher(conf *structures.Config, logger providers.Logger) *HTTPFetcher {
	retries := conf.Monitor.FetchRetries
	if retries < 0 {
		retries = 0
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: conf.Monitor.FetchTimeout},
		baseURL:  strings.TrimSuffix(conf.Monitor.FetchBaseURL, "/"),
		retries:  uint64(retries),
		interval: 500 * time.Millisecond,
		logger:   logger,
	}
}

type profileResponse struct {
	Graphql struct {
		User struct {
			Username       string `json:"username"`
			FullName       string `json:"full_name"`
			EdgeFollowedBy struct {
				Count int `json:"count"`
			} `json:"edge_followed_by"`
		} `json:"user"`
	} `json:"graphql"`
}

func (f *HTTPFetcher) Fetch(ctx context.Context, username string) (*models.Profile, error) {
	name := models.NormalizeUsername(username)
	profile := models.UnknownProfile(name)

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/"+name+"/?__a=1&__d=dis", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "Instagram 219.0.0.12.117 Android")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Accept-Language", "en-US")

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			profile.Status = models.StatusBanned
			return nil
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, name)
		}

		var body profileResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode profile %s: %w", name, err)
		}
		profile.FullName = body.Graphql.User.FullName
		profile.Followers = body.Graphql.User.EdgeFollowedBy.Count
		profile.Status = models.StatusActive
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.interval), f.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		f.logger.Debugf(providers.TypeMonitor, "fetch %s failed: %s", name, err)
		return profile, err
	}
	return profile, nil
}
