// Package store wraps the remote session store's REST API. It owns no state:
// no caching, no retries, no timeouts beyond the transport's own defaults.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mvillareal/gamenight/internal/session"
)

// RequestError is any transport failure or non-2xx response. Status is 0 when
// the request never produced a response.
type RequestError struct {
	Op     string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: store returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ListOptions are passed through verbatim; zero values are omitted from the
// query so the backend applies its own defaults.
type ListOptions struct {
	Limit  int
	Skip   int
	Sort   string
	Fields string
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}
}

func (c *Client) ListSessions(ctx context.Context, opts ListOptions) ([]session.Session, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		q.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Fields != "" {
		q.Set("fields", opts.Fields)
	}
	endpoint := c.baseURL + "/sessions"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var sessions []session.Session
	if err := c.do(ctx, "list sessions", http.MethodGet, endpoint, nil, &sessions); err != nil {
		return nil, err
	}
	for i := range sessions {
		if err := normalize(&sessions[i]); err != nil {
			return nil, &RequestError{Op: "list sessions", Err: err}
		}
	}
	return sessions, nil
}

func (c *Client) CreateSession(ctx context.Context, s session.Session) (session.Session, error) {
	var created session.Session
	if err := c.do(ctx, "create session", http.MethodPost, c.baseURL+"/sessions", s, &created); err != nil {
		return session.Session{}, err
	}
	if err := normalize(&created); err != nil {
		return session.Session{}, &RequestError{Op: "create session", Err: err}
	}
	return created, nil
}

// ReplaceSession persists the complete desired session state, unchanged
// fields included (whole-object replace).
func (c *Client) ReplaceSession(ctx context.Context, s session.Session) (session.Session, error) {
	var updated session.Session
	endpoint := c.baseURL + "/sessions/" + url.PathEscape(s.ID)
	if err := c.do(ctx, "update session", http.MethodPut, endpoint, s, &updated); err != nil {
		return session.Session{}, err
	}
	if err := normalize(&updated); err != nil {
		return session.Session{}, &RequestError{Op: "update session", Err: err}
	}
	return updated, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	endpoint := c.baseURL + "/sessions/" + url.PathEscape(id)
	return c.do(ctx, "delete session", http.MethodDelete, endpoint, nil, nil)
}

// DeleteGameAt removes the game record at index within the session's current
// ordering. Positional addressing is only safe because the tracker replaces
// its list wholesale after every mutation.
func (c *Client) DeleteGameAt(ctx context.Context, id string, index int) (session.Session, error) {
	var updated session.Session
	endpoint := c.baseURL + "/sessions/" + url.PathEscape(id) + "/games/" + strconv.Itoa(index)
	if err := c.do(ctx, "delete game", http.MethodDelete, endpoint, nil, &updated); err != nil {
		return session.Session{}, err
	}
	if err := normalize(&updated); err != nil {
		return session.Session{}, &RequestError{Op: "delete game", Err: err}
	}
	return updated, nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Err: err}
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	// Non-2xx responses are failures uniformly; error bodies are not parsed.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("store request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return &RequestError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// normalize shape-checks a wire session and backfills record ids so deletion
// by id always works, even for records written before ids existed.
func normalize(s *session.Session) error {
	if s.ID == "" {
		return fmt.Errorf("session missing id")
	}
	if s.Players == nil {
		s.Players = []string{}
	}
	if s.Games == nil {
		s.Games = []session.GameRecord{}
	}
	for i := range s.Games {
		g := &s.Games[i]
		if g.Game == "" {
			return fmt.Errorf("session %s: game record %d missing name", s.ID, i)
		}
		if g.Winner == "" {
			return fmt.Errorf("session %s: game record %d missing winner", s.ID, i)
		}
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
	}
	return nil
}
