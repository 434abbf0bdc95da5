package apic_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonhe/acifault/internal/apic"
	"github.com/tonhe/acifault/internal/apic/apictest"
)

func testOptions() apic.Options {
	opts := apic.DefaultOptions()
	opts.Scheme = "http"
	opts.Timeout = 5 * time.Second
	return opts
}

func login(t *testing.T, fab *apictest.Fabric, opts apic.Options) *apic.Session {
	t.Helper()
	c := apic.NewClient(fab.Host(), opts, nil)
	s, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	return s
}

func TestLoginSuccess(t *testing.T) {
	fab := apictest.New(t)
	s := login(t, fab, testOptions())
	assert.Equal(t, apic.StateAuthenticated, s.State())
	assert.Equal(t, []string{"/api/aaaLogin.json"}, fab.Calls())
}

func TestLoginRejected(t *testing.T) {
	fab := apictest.New(t)
	c := apic.NewClient(fab.Host(), testOptions(), nil)

	_, err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)

	var authErr *apic.AuthError
	require.True(t, errors.As(err, &authErr), "expected *AuthError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "incorrect")
	assert.Contains(t, err.Error(), "401")
}

func TestLoginRejectedBodyCutOnRuneBoundary(t *testing.T) {
	// The leading byte puts offset 512 inside a two-byte rune.
	body := "x" + strings.Repeat("é", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := apic.NewClient(strings.TrimPrefix(srv.URL, "http://"), testOptions(), nil)
	_, err := c.Login(context.Background(), "admin", "secret")

	var authErr *apic.AuthError
	require.True(t, errors.As(err, &authErr), "expected *AuthError, got %T", err)
	assert.LessOrEqual(t, len(authErr.Body), 512)
	assert.Greater(t, len(authErr.Body), 500)
	assert.True(t, utf8.ValidString(authErr.Body), "body split inside a rune")
	assert.True(t, strings.HasPrefix(body, authErr.Body))
}

func TestLoginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	c := apic.NewClient(host, testOptions(), nil)
	_, err := c.Login(context.Background(), "admin", "secret")

	var netErr *apic.NetworkError
	require.True(t, errors.As(err, &netErr), "expected *NetworkError, got %T", err)
	assert.Equal(t, "login", netErr.Op)
}

func TestLoginTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Timeout = 50 * time.Millisecond
	c := apic.NewClient(strings.TrimPrefix(srv.URL, "http://"), opts, nil)
	_, err := c.Login(context.Background(), "admin", "secret")

	var netErr *apic.NetworkError
	assert.True(t, errors.As(err, &netErr), "expected *NetworkError, got %T: %v", err, err)
}

func TestLoginRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"imdata":[{"aaaLogin":{"attributes":{"token":"t"}}}]}`))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Retries = 2
	c := apic.NewClient(strings.TrimPrefix(srv.URL, "http://"), opts, nil)
	s, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, apic.StateAuthenticated, s.State())
	assert.Equal(t, int32(2), calls.Load())
}

func TestFaultsServerSideFilter(t *testing.T) {
	fab := apictest.New(t)
	s := login(t, fab, testOptions())

	minAge := time.Date(2024, 3, 1, 10, 15, 42, 0, time.UTC)
	_, err := s.Faults(context.Background(), minAge)
	require.NoError(t, err)
	assert.Equal(t, `gt(faultInst.lastTransition,"2024-03-01T10:15")`, fab.Filter())
}

func TestFaultsClientSideOnly(t *testing.T) {
	fab := apictest.New(t)
	opts := testOptions()
	opts.ServerFilter = false
	s := login(t, fab, opts)

	_, err := s.Faults(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, fab.Filter())
}

func TestFaultsDecodesTags(t *testing.T) {
	fab := apictest.New(t)
	fab.Faults = []map[string]any{
		apictest.FaultInst(map[string]string{"severity": "major", "code": "F0001", "occur": "3"}),
		apictest.FaultDelegate(map[string]string{"severity": "minor", "code": "F0002"}),
		{"eventRecord": map[string]any{"attributes": map[string]string{"code": "E1"}}},
	}
	s := login(t, fab, testOptions())

	entries, err := s.Faults(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, apic.TagFaultInst, entries[0].Tag)
	require.NotNil(t, entries[0].Attributes)
	assert.Equal(t, "F0001", entries[0].Attributes.Code)
	assert.Equal(t, apic.Scalar("3"), entries[0].Attributes.Occur)

	assert.Equal(t, apic.TagFaultDelegate, entries[1].Tag)
	require.NotNil(t, entries[1].Attributes)
	assert.Equal(t, "minor", entries[1].Attributes.Severity)

	assert.Equal(t, "eventRecord", entries[2].Tag)
	assert.Nil(t, entries[2].Attributes)
}

func TestFaultsTotalCountForms(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"string", `{"totalCount":"1","imdata":[{"faultInst":{"attributes":{"code":"F1"}}}]}`},
		{"number", `{"totalCount":1,"imdata":[{"faultInst":{"attributes":{"code":"F1"}}}]}`},
		{"absent", `{"imdata":[{"faultInst":{"attributes":{"code":"F1"}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fab := apictest.New(t)
			fab.RawFaultBody = tt.body
			s := login(t, fab, testOptions())

			entries, err := s.Faults(context.Background(), time.Time{})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			require.NotNil(t, entries[0].Attributes)
			assert.Equal(t, "F1", entries[0].Attributes.Code)
		})
	}
}

func TestFaultsKeepsMalformedRecord(t *testing.T) {
	fab := apictest.New(t)
	fab.RawFaultBody = `{"imdata":[{"faultInst":{"attributes":"oops"}},{"faultInst":{"attributes":{"code":"F1","occur":7}}}]}`
	s := login(t, fab, testOptions())

	entries, err := s.Faults(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Error(t, entries[0].DecodeErr)
	assert.Nil(t, entries[0].Attributes)
	require.NotNil(t, entries[1].Attributes)
	assert.Equal(t, apic.Scalar("7"), entries[1].Attributes.Occur)
}

func TestFaultsMalformedBody(t *testing.T) {
	fab := apictest.New(t)
	fab.RawFaultBody = `<html>maintenance</html>`
	s := login(t, fab, testOptions())

	_, err := s.Faults(context.Background(), time.Time{})
	var qErr *apic.QueryError
	assert.True(t, errors.As(err, &qErr), "expected *QueryError, got %T", err)
}

func TestFaultsRejected(t *testing.T) {
	fab := apictest.New(t)
	fab.FaultStatus = http.StatusForbidden
	s := login(t, fab, testOptions())

	_, err := s.Faults(context.Background(), time.Time{})
	var authErr *apic.AuthError
	require.True(t, errors.As(err, &authErr), "expected *AuthError, got %T", err)
	assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
}

func TestFabricHealth(t *testing.T) {
	tests := []struct {
		name    string
		cur     any
		want    int
		wantErr bool
	}{
		{"string", "87", 87, false},
		{"number", 55, 55, false},
		{"zero", "0", 0, false},
		{"not a number", "abc", 0, true},
		{"out of range", "140", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fab := apictest.New(t)
			fab.Health = tt.cur
			s := login(t, fab, testOptions())

			got, err := s.FabricHealth(context.Background())
			if tt.wantErr {
				var qErr *apic.QueryError
				assert.True(t, errors.As(err, &qErr), "expected *QueryError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryAfterLogout(t *testing.T) {
	fab := apictest.New(t)
	s := login(t, fab, testOptions())
	s.Logout(context.Background())
	assert.Equal(t, apic.StateClosed, s.State())
	assert.True(t, fab.LoggedOut())

	_, err := s.Faults(context.Background(), time.Time{})
	assert.ErrorIs(t, err, apic.ErrNotAuthenticated)

	_, err = s.FabricHealth(context.Background())
	assert.ErrorIs(t, err, apic.ErrNotAuthenticated)
}

func TestLogoutFailureIsSwallowed(t *testing.T) {
	fab := apictest.New(t)
	fab.LogoutStatus = http.StatusInternalServerError
	s := login(t, fab, testOptions())

	s.Logout(context.Background())
	assert.Equal(t, apic.StateClosed, s.State())
	assert.True(t, fab.LoggedOut())

	// A second logout is a no-op.
	s.Logout(context.Background())
	assert.Equal(t, apic.StateClosed, s.State())
}
