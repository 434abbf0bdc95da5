package apic

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// REST endpoints used by the fault report.
const (
	loginPath   = "/api/aaaLogin.json"
	logoutPath  = "/api/aaaLogout.json"
	faultsPath  = "/api/node/class/faultInfo.json"
	healthPath  = "/api/node/mo/topology/health.json"
	tokenCookie = "APIC-cookie"

	// filterTimeLayout is the minute-precision timestamp used in
	// query-target-filter expressions.
	filterTimeLayout = "2006-01-02T15:04"

	maxErrorBody = 512
)

// Options is the transport policy for one fabric.
type Options struct {
	Scheme       string        // "https" or "http"
	VerifyTLS    bool          // verify the controller certificate
	Timeout      time.Duration // per request; zero means no timeout
	Retries      int           // retries on transport errors and 5xx
	ServerFilter bool          // push the age filter to the controller
}

// DefaultOptions returns HTTPS with certificate verification, a 30s request
// timeout, no retries and server-side age filtering.
func DefaultOptions() Options {
	return Options{
		Scheme:       "https",
		VerifyTLS:    true,
		Timeout:      30 * time.Second,
		ServerFilter: true,
	}
}

// Client talks to a single fabric controller.
type Client struct {
	host string
	opts Options
	api  *resty.Client
	log  *logrus.Entry
}

// NewClient creates a Client for host (hostname or address, optionally with
// a port, never with a scheme).
func NewClient(host string, opts Options, log *logrus.Entry) *Client {
	if opts.Scheme == "" {
		opts.Scheme = "https"
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("fabric", host)

	api := resty.New().
		SetBaseURL(opts.Scheme+"://"+host).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(log)
	if opts.Timeout > 0 {
		api.SetTimeout(opts.Timeout)
	}
	if !opts.VerifyTLS {
		api.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if opts.Retries > 0 {
		api.SetRetryCount(opts.Retries).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}

	return &Client{host: host, opts: opts, api: api, log: log}
}

// Login authenticates against the controller and returns an authenticated
// session. The returned error is a *NetworkError or an *AuthError.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	s := &Session{client: c, user: username, state: StateUnauthenticated}

	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(newAaaUser(username, password)).
		Post(loginPath)
	if err != nil {
		return nil, &NetworkError{Host: c.host, Op: "login", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, c.authError("login", resp)
	}

	var lr loginResponse
	if err := json.Unmarshal(resp.Body(), &lr); err == nil {
		for _, item := range lr.Imdata {
			if item.AaaLogin != nil && item.AaaLogin.Attributes.Token != "" {
				s.token = item.AaaLogin.Attributes.Token
				break
			}
		}
	}

	s.state = StateAuthenticated
	c.log.Debug("logged in")
	return s, nil
}

func (c *Client) authError(op string, resp *resty.Response) *AuthError {
	body := strings.TrimSpace(string(resp.Body()))
	var er errorResponse
	if err := json.Unmarshal(resp.Body(), &er); err == nil {
		for _, item := range er.Imdata {
			if item.Error != nil && item.Error.Attributes.Text != "" {
				body = item.Error.Attributes.Text
				break
			}
		}
	}
	if len(body) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return &AuthError{
		Host:       c.host,
		Op:         op,
		StatusCode: resp.StatusCode(),
		Body:       body,
		Err:        fmt.Errorf("HTTP %d", resp.StatusCode()),
	}
}

// State is the lifecycle state of a Session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is an authenticated conversation with one controller. It is not
// safe for concurrent use by multiple goroutines.
type Session struct {
	client *Client
	user   string
	token  string
	state  State
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State { return s.state }

func (s *Session) request(ctx context.Context) *resty.Request {
	req := s.client.api.R().SetContext(ctx)
	if s.token != "" {
		req.SetCookie(&http.Cookie{Name: tokenCookie, Value: s.token})
	}
	return req
}

func (s *Session) get(ctx context.Context, op, path string, query map[string]string, out any) error {
	c := s.client
	if s.state != StateAuthenticated {
		return &AuthError{Host: c.host, Op: op, Err: ErrNotAuthenticated}
	}

	resp, err := s.request(ctx).SetQueryParams(query).Get(path)
	if err != nil {
		return &NetworkError{Host: c.host, Op: op, Err: err}
	}
	if !resp.IsSuccess() {
		return c.authError(op, resp)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &QueryError{Host: c.host, Op: op, Err: err}
	}
	return nil
}

// Faults returns the raw fault records of the fabric. When server-side
// filtering is enabled only faults that transitioned after minAge are
// requested; the caller must still apply its own age predicate.
func (s *Session) Faults(ctx context.Context, minAge time.Time) ([]FaultEntry, error) {
	var query map[string]string
	if s.client.opts.ServerFilter && !minAge.IsZero() {
		query = map[string]string{
			"query-target-filter": fmt.Sprintf(`gt(faultInst.lastTransition,"%s")`,
				minAge.UTC().Format(filterTimeLayout)),
		}
	}

	var fr faultResponse
	if err := s.get(ctx, "fault query", faultsPath, query, &fr); err != nil {
		return nil, err
	}
	if fr.Imdata == nil {
		return nil, &QueryError{Host: s.client.host, Op: "fault query", Err: errors.New("missing imdata")}
	}
	s.client.log.WithField("count", len(fr.Imdata)).Debug("fetched fault records")
	return fr.Imdata, nil
}

// FabricHealth returns the current aggregate health score (0-100).
func (s *Session) FabricHealth(ctx context.Context) (int, error) {
	const op = "health query"
	var hr healthResponse
	if err := s.get(ctx, op, healthPath, nil, &hr); err != nil {
		return 0, err
	}
	if len(hr.Imdata) == 0 || hr.Imdata[0].FabricHealthTotal == nil {
		return 0, &QueryError{Host: s.client.host, Op: op, Err: errors.New("missing fabricHealthTotal")}
	}
	cur := strings.TrimSpace(string(hr.Imdata[0].FabricHealthTotal.Attributes.Cur))
	health, err := strconv.Atoi(cur)
	if err != nil {
		return 0, &QueryError{Host: s.client.host, Op: op, Err: fmt.Errorf("health %q: %w", cur, err)}
	}
	if health < 0 || health > 100 {
		return 0, &QueryError{Host: s.client.host, Op: op, Err: fmt.Errorf("health %d out of range", health)}
	}
	return health, nil
}

// Logout ends the session. Failures are logged and otherwise ignored; the
// session is closed either way.
func (s *Session) Logout(ctx context.Context) {
	if s.state != StateAuthenticated {
		s.state = StateClosed
		return
	}
	s.state = StateClosed

	log := s.client.log.WithField("op", "logout")
	resp, err := s.request(ctx).
		SetBody(newAaaUser(s.user, "")).
		Post(logoutPath)
	if err != nil {
		log.WithError(err).Debug("logout failed")
		return
	}
	if !resp.IsSuccess() {
		log.WithField("status", resp.StatusCode()).Debug("logout rejected")
		return
	}
	log.Debug("logged out")
}
