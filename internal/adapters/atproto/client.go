// Package atproto implements the relationship source over the AT Protocol XRPC API.
package atproto

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

// XRPC method identifiers, also used as the metrics method label.
const (
	MethodCreateSession = "com.atproto.server.createSession"
	MethodResolveHandle = "com.atproto.identity.resolveHandle"
	MethodGetFollowers  = "app.bsky.graph.getFollowers"
	MethodGetFollows    = "app.bsky.graph.getFollows"
	MethodGetProfile    = "app.bsky.actor.getProfile"
)

// Client talks to one AT Protocol service. All calls share a rate limiter and
// a circuit breaker; once the breaker opens, calls fail fast with
// domain.ErrServiceUnavailable until the cooldown elapses.
type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	metrics  ports.Metrics
	logger   ports.Logger
	pageSize int

	mu    sync.RWMutex
	token string
}

// NewClient creates a new Client for cfg.
func NewClient(cfg domain.ServiceConfig, metrics ports.Metrics, logger ports.Logger) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.Host, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		metrics:  metrics,
		logger:   logger,
		pageSize: cfg.PageSize,
	}

	maxFailures := cfg.Breaker.MaxFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Host,
		MaxRequests: 1,
		Timeout:     cfg.Breaker.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn(fmt.Sprintf("service %s: circuit %s -> %s", name, from, to))
		},
		IsSuccessful: healthy,
	})
	return c
}

// Login creates a session and attaches its access token to every later call.
func (c *Client) Login(ctx context.Context, identifier, password string) error {
	if identifier == "" || password == "" {
		return domain.ErrMissingCredentials
	}

	var out struct {
		AccessJwt string `json:"accessJwt"`
		DID       string `json:"did"`
	}
	err := c.call(ctx, MethodCreateSession, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{
			"identifier": identifier,
			"password":   password,
		}).SetResult(&out).Post(xrpcPath(MethodCreateSession))
	})
	if err != nil {
		var xe *XRPCError
		if errors.As(err, &xe) && (xe.Status == 400 || xe.Status == 401) {
			return errors.Join(domain.ErrAuthenticationFailed, zerr.With(err, "identifier", identifier))
		}
		return zerr.With(err, "method", MethodCreateSession)
	}
	if out.AccessJwt == "" {
		return zerr.With(errMalformedResponse, "method", MethodCreateSession)
	}

	c.mu.Lock()
	c.token = out.AccessJwt
	c.mu.Unlock()
	return nil
}

// ResolveHandle resolves handle to its DID. A DID is returned unchanged.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (domain.AccountID, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if strings.HasPrefix(handle, "did:") {
		return domain.NewAccountID(handle), nil
	}

	var out struct {
		DID string `json:"did"`
	}
	err := c.call(ctx, MethodResolveHandle, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParam("handle", handle).SetResult(&out).Get(xrpcPath(MethodResolveHandle))
	})
	if err != nil {
		return domain.AccountID{}, zerr.With(err, "method", MethodResolveHandle)
	}
	if out.DID == "" {
		return domain.AccountID{}, zerr.With(errMalformedResponse, "method", MethodResolveHandle)
	}
	return domain.NewAccountID(out.DID), nil
}

// GetFollowers returns one page of the accounts following id.
func (c *Client) GetFollowers(ctx context.Context, id domain.AccountID, cursor string) (domain.Page, error) {
	var out struct {
		Followers []profileView `json:"followers"`
		Cursor    string        `json:"cursor"`
	}
	if err := c.list(ctx, MethodGetFollowers, id, cursor, &out); err != nil {
		return domain.Page{}, err
	}
	return toPage(out.Followers, out.Cursor), nil
}

// GetFollowing returns one page of the accounts id follows.
func (c *Client) GetFollowing(ctx context.Context, id domain.AccountID, cursor string) (domain.Page, error) {
	var out struct {
		Follows []profileView `json:"follows"`
		Cursor  string        `json:"cursor"`
	}
	if err := c.list(ctx, MethodGetFollows, id, cursor, &out); err != nil {
		return domain.Page{}, err
	}
	return toPage(out.Follows, out.Cursor), nil
}

// GetProfile returns the display metadata of id.
func (c *Client) GetProfile(ctx context.Context, id domain.AccountID) (domain.Profile, error) {
	var out profileView
	err := c.call(ctx, MethodGetProfile, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParam("actor", id.String()).SetResult(&out).Get(xrpcPath(MethodGetProfile))
	})
	if err != nil {
		return domain.Profile{}, zerr.With(err, "method", MethodGetProfile)
	}
	if out.DID == "" {
		out.DID = id.String()
	}
	return domain.Profile{
		ID:          domain.NewAccountID(out.DID),
		Handle:      out.Handle,
		DisplayName: out.DisplayName,
	}, nil
}

func (c *Client) list(ctx context.Context, method string, id domain.AccountID, cursor string, out any) error {
	err := c.call(ctx, method, func(r *resty.Request) (*resty.Response, error) {
		r.SetQueryParam("actor", id.String()).
			SetQueryParam("limit", strconv.Itoa(c.pageSize))
		if cursor != "" {
			r.SetQueryParam("cursor", cursor)
		}
		return r.SetResult(out).Get(xrpcPath(method))
	})
	if err != nil {
		return zerr.With(err, "method", method)
	}
	return nil
}

// call runs one rate-limited request through the breaker and records its outcome.
// The returned error is left unwrapped so callers can classify it.
func (c *Client) call(ctx context.Context, method string, send func(*resty.Request) (*resty.Response, error)) error {
	err := c.do(ctx, send)
	c.metrics.RemoteCall(method, err)
	return err
}

func (c *Client) do(ctx context.Context, send func(*resty.Request) (*resty.Response, error)) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (any, error) {
		xe := &XRPCError{}
		req := c.http.R().SetContext(ctx).SetError(xe)
		if token := c.accessToken(); token != "" {
			req.SetAuthToken(token)
		}

		resp, err := send(req)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			xe.Status = resp.StatusCode()
			return nil, xe
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(domain.ErrServiceUnavailable, err)
	}
	return err
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// healthy decides whether a call outcome counts against the breaker.
// Rejected requests and cancellations say nothing about the service.
func healthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var xe *XRPCError
	if errors.As(err, &xe) {
		return !xe.Temporary()
	}
	return false
}

type profileView struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}

func toPage(views []profileView, cursor string) domain.Page {
	items := make([]domain.AccountID, len(views))
	for i, v := range views {
		items[i] = domain.NewAccountID(v.DID)
	}
	return domain.Page{Items: items, Cursor: cursor}
}

func xrpcPath(method string) string {
	return "/xrpc/" + method
}
