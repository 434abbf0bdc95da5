// Package apictest provides an in-process fake fabric controller for tests.
package apictest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const token = "fake-apic-token"

// Fabric is a fake controller serving the login, fault, health and logout
// endpoints. Fields may be changed before the first request.
type Fabric struct {
	Server *httptest.Server

	Username string
	Password string
	Health   any // value of fabricHealthTotal.attributes.cur
	Faults   []map[string]any

	// Status overrides; zero means "behave normally".
	LoginStatus  int
	FaultStatus  int
	HealthStatus int
	LogoutStatus int

	// RawFaultBody replaces the fault response body when set.
	RawFaultBody string

	mu        sync.Mutex
	filter    string
	calls     []string
	loggedOut bool
}

// New starts a fake controller that accepts admin/secret and reports a
// health of 100 with no faults.
func New(t testing.TB) *Fabric {
	t.Helper()
	f := &Fabric{Username: "admin", Password: "secret", Health: "100"}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/aaaLogin.json", f.login)
	mux.HandleFunc("/api/aaaLogout.json", f.logout)
	mux.HandleFunc("/api/node/class/faultInfo.json", f.faults)
	mux.HandleFunc("/api/node/mo/topology/health.json", f.health)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// Host returns host:port of the fake, suitable as a fabric identifier.
func (f *Fabric) Host() string {
	return strings.TrimPrefix(f.Server.URL, "http://")
}

// Filter returns the query-target-filter of the last fault query.
func (f *Fabric) Filter() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

// Calls returns the endpoint paths hit so far, in order.
func (f *Fabric) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// LoggedOut reports whether a logout request was received.
func (f *Fabric) LoggedOut() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedOut
}

func (f *Fabric) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.URL.Path)
}

func (f *Fabric) authorized(r *http.Request) bool {
	c, err := r.Cookie("APIC-cookie")
	return err == nil && c.Value == token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apicError(w http.ResponseWriter, status int, code, text string) {
	writeJSON(w, status, map[string]any{
		"totalCount": "1",
		"imdata": []any{map[string]any{
			"error": map[string]any{"attributes": map[string]string{"code": code, "text": text}},
		}},
	})
}

func (f *Fabric) login(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if f.LoginStatus != 0 {
		apicError(w, f.LoginStatus, "401", "Username or password is incorrect")
		return
	}
	var body struct {
		AaaUser struct {
			Attributes struct {
				Name string `json:"name"`
				Pwd  string `json:"pwd"`
			} `json:"attributes"`
		} `json:"aaaUser"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apicError(w, http.StatusBadRequest, "400", "malformed login body")
		return
	}
	if body.AaaUser.Attributes.Name != f.Username || body.AaaUser.Attributes.Pwd != f.Password {
		apicError(w, http.StatusUnauthorized, "401", "Username or password is incorrect")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "APIC-cookie", Value: token, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]any{
		"totalCount": "1",
		"imdata": []any{map[string]any{
			"aaaLogin": map[string]any{"attributes": map[string]string{"token": token}},
		}},
	})
}

func (f *Fabric) logout(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	f.mu.Lock()
	f.loggedOut = true
	f.mu.Unlock()
	if f.LogoutStatus != 0 {
		apicError(w, f.LogoutStatus, "500", "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totalCount": "0", "imdata": []any{}})
}

func (f *Fabric) faults(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if !f.authorized(r) {
		apicError(w, http.StatusForbidden, "403", "Token was invalid")
		return
	}
	f.mu.Lock()
	f.filter = r.URL.Query().Get("query-target-filter")
	f.mu.Unlock()
	if f.FaultStatus != 0 {
		apicError(w, f.FaultStatus, "400", "fault query failed")
		return
	}
	if f.RawFaultBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.RawFaultBody))
		return
	}
	imdata := f.Faults
	if imdata == nil {
		imdata = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"totalCount": strconv.Itoa(len(imdata)), "imdata": imdata})
}

func (f *Fabric) health(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if !f.authorized(r) {
		apicError(w, http.StatusForbidden, "403", "Token was invalid")
		return
	}
	if f.HealthStatus != 0 {
		apicError(w, f.HealthStatus, "500", "health query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalCount": "1",
		"imdata": []any{map[string]any{
			"fabricHealthTotal": map[string]any{"attributes": map[string]any{"cur": f.Health}},
		}},
	})
}

// FaultInst wraps attrs as a faultInst imdata entry.
func FaultInst(attrs map[string]string) map[string]any {
	return map[string]any{"faultInst": map[string]any{"attributes": attrs}}
}

// FaultDelegate wraps attrs as a faultDelegate imdata entry.
func FaultDelegate(attrs map[string]string) map[string]any {
	return map[string]any{"faultDelegate": map[string]any{"attributes": attrs}}
}
