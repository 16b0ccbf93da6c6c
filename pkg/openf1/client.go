// Package openf1 loads sessions, laps and telemetry from the OpenF1 HTTP API.
package openf1

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"f1duel/log"
	"f1duel/pkg/caster"
)

var (
	ErrRaceNotFound    = errors.New("race not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrStatus          = errors.New("unexpected response status")
	ErrNoLapWindow     = errors.New("lap has no start time or lap time")
)

// Cache stores raw response bodies keyed by request URL.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, body []byte) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *log.Logger
}

// NewClient builds a client for the API at baseURL. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache Cache) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		logger:     log.Default().Named("openf1"),
	}
}

func (c *Client) url(endpoint string, params ...string) string {
	if len(params) == 0 {
		return fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	}
	return fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, strings.Join(params, "&"))
}

// fetch gets endpoint and decodes the JSON array it returns. Params are raw
// "key=value" or "key>=value" filters.
func fetch[T any](ctx context.Context, c *Client, endpoint string, params ...string) ([]T, error) {
	url := c.url(endpoint, params...)
	var jc caster.JSONCaster[[]T]

	if c.cache != nil {
		body, ok, err := c.cache.Get(url)
		if err != nil {
			c.logger.Warn("cache read failed", log.String("url", url), log.ErrorField(err))
		} else if ok {
			c.logger.Debug("cache hit", log.String("url", url))
			return jc.From(body)
		}
	}

	c.logger.Debug("fetching", log.String("url", url))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", endpoint)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// the API answers 404 when a filter matches nothing
		return []T{}, nil
	default:
		return nil, errors.Wrapf(ErrStatus, "%d from %s", resp.StatusCode, url)
	}

	rows, err := jc.From(body)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", endpoint)
	}
	if c.cache != nil {
		if err := c.cache.Put(url, body); err != nil {
			c.logger.Warn("cache write failed", log.String("url", url), log.ErrorField(err))
		}
	}
	return rows, nil
}
