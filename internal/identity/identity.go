package identity

import (
	"context"
	"errors"
	"os"
	"sync"
)

// AllFabrics is the fabric name passed to a Provider when one set of
// credentials is requested for every fabric in the run.
const AllFabrics = ""

// Environment variables read by EnvProvider.
const (
	EnvUsername = "ACIFAULT_USERNAME"
	EnvPassword = "ACIFAULT_PASSWORD"
)

// ErrNoCredentials is returned when a provider has nothing to offer.
var ErrNoCredentials = errors.New("no credentials available")

// Credentials is a controller login. It lives in memory for one run and is
// never written anywhere.
type Credentials struct {
	Username string
	Password string
}

// String keeps the password out of logs and error messages.
func (c Credentials) String() string {
	return c.Username + ":********"
}

// Provider resolves the credentials to use for a fabric.
type Provider interface {
	Credentials(ctx context.Context, fabric string) (Credentials, error)
}

// EnvProvider reads ACIFAULT_USERNAME and ACIFAULT_PASSWORD.
type EnvProvider struct{}

func (EnvProvider) Credentials(_ context.Context, _ string) (Credentials, error) {
	user, pass := os.Getenv(EnvUsername), os.Getenv(EnvPassword)
	if user == "" || pass == "" {
		return Credentials{}, ErrNoCredentials
	}
	return Credentials{Username: user, Password: pass}, nil
}

// Chain tries each provider in order and returns the first success. Errors
// other than ErrNoCredentials stop the chain.
type Chain []Provider

func (c Chain) Credentials(ctx context.Context, fabric string) (Credentials, error) {
	for _, p := range c {
		creds, err := p.Credentials(ctx, fabric)
		if err == nil {
			return creds, nil
		}
		if !errors.Is(err, ErrNoCredentials) {
			return Credentials{}, err
		}
	}
	return Credentials{}, ErrNoCredentials
}

// SharedCache asks its provider once, for AllFabrics, and hands the same
// answer to every fabric afterwards. Nothing is persisted; call Forget when
// the run is over.
type SharedCache struct {
	mu    sync.Mutex
	next  Provider
	creds *Credentials
}

// NewSharedCache wraps next so it is consulted at most once per run.
func NewSharedCache(next Provider) *SharedCache {
	return &SharedCache{next: next}
}

func (s *SharedCache) Credentials(ctx context.Context, _ string) (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds != nil {
		return *s.creds, nil
	}
	creds, err := s.next.Credentials(ctx, AllFabrics)
	if err != nil {
		return Credentials{}, err
	}
	s.creds = &creds
	return creds, nil
}

// Forget drops the cached credentials.
func (s *SharedCache) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
}
