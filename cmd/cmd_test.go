package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonhe/acifault/internal/apic/apictest"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/internal/identity"
	"github.com/tonhe/acifault/internal/inventory"
)

type run struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) run {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return run{stdout: out.String(), stderr: errOut.String(), err: err}
}

// isolate points the defaults file at an empty temp dir and clears the
// credential environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(identity.EnvUsername, "")
	t.Setenv(identity.EnvPassword, "")
	return dir
}

func envCreds(t *testing.T) {
	t.Setenv(identity.EnvUsername, "admin")
	t.Setenv(identity.EnvPassword, "secret")
}

func fabricFile(t *testing.T, hosts ...string) string {
	t.Helper()
	data, err := json.Marshal(hosts)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "fabrics.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func recentFault(sev, code string) map[string]any {
	return apictest.FaultInst(map[string]string{
		"severity":       sev,
		"ack":            "no",
		"code":           code,
		"cause":          "threshold-crossed",
		"domain":         "infra",
		"descr":          "fault " + code,
		"lastTransition": time.Now().Add(-time.Hour).Format(fault.TimeLayout),
	})
}

func TestReportJSONWithPartialFailure(t *testing.T) {
	isolate(t)
	envCreds(t)

	good, bad := apictest.New(t), apictest.New(t)
	good.Health = "75"
	good.Faults = []map[string]any{recentFault("major", "F0532")}
	bad.LoginStatus = http.StatusUnauthorized

	r := execute(t, "", "-f", fabricFile(t, good.Host(), bad.Host()), "-o", "json", "--unsecure-transport")
	require.NoError(t, r.err, "per-fabric failures must not fail the run")

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "F0532", got[0]["code"])
	assert.Equal(t, float64(75), got[0]["fabricHealth"])

	assert.Contains(t, r.stderr, "1 of 2 fabrics could not be polled")
	assert.Contains(t, r.stderr, bad.Host())
}

func TestReportPlaceholderForQuietFabric(t *testing.T) {
	isolate(t)
	envCreds(t)
	quiet := apictest.New(t)

	r := execute(t, "", "-f", fabricFile(t, quiet.Host()), "-o", "csv", "-d", "3", "--unsecure-transport")
	require.NoError(t, r.err)

	records, err := csv.NewReader(strings.NewReader(r.stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, fault.PlaceholderCause, records[1][6])
	assert.Equal(t, "No new faults in 3 days", records[1][7])
}

func TestReportSeverityFilter(t *testing.T) {
	isolate(t)
	envCreds(t)
	fab := apictest.New(t)
	fab.Faults = []map[string]any{recentFault("critical", "F1"), recentFault("minor", "F2")}

	r := execute(t, "", "-f", fabricFile(t, fab.Host()), "-o", "json", "--faults", "critical", "--unsecure-transport")
	require.NoError(t, r.err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "F1", got[0]["code"])
}

func TestReportSameCredentialsPromptsOnce(t *testing.T) {
	isolate(t)
	a, b := apictest.New(t), apictest.New(t)

	r := execute(t, "admin\nsecret\n",
		"-f", fabricFile(t, a.Host(), b.Host()), "-o", "json", "--same-credentials", "--unsecure-transport")
	require.NoError(t, r.err)

	assert.Equal(t, 1, strings.Count(r.stderr, "Username for all fabrics"))
	assert.True(t, a.LoggedOut())
	assert.True(t, b.LoggedOut())
}

func TestReportPromptsPerFabric(t *testing.T) {
	isolate(t)
	a, b := apictest.New(t), apictest.New(t)

	r := execute(t, "admin\nsecret\nadmin\nsecret\n",
		"-f", fabricFile(t, a.Host(), b.Host()), "-o", "json", "--unsecure-transport")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "Username to fabric "+a.Host())
	assert.Contains(t, r.stderr, "Username to fabric "+b.Host())
}

func TestReportConfigErrors(t *testing.T) {
	isolate(t)

	r := execute(t, "", "-f", filepath.Join(t.TempDir(), "missing.json"))
	var cfgErr *inventory.ConfigError
	require.ErrorAs(t, r.err, &cfgErr)

	r = execute(t, "", "-f", fabricFile(t, "apic1"), "--faults", "critical,urgent")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "urgent")

	r = execute(t, "", "-f", fabricFile(t, "apic1"), "-o", "xml")
	require.Error(t, r.err)

	r = execute(t, "", "--no-such-flag")
	require.Error(t, r.err)

	for _, args := range [][]string{
		{"-d", "200000"},
		{"-d", "-1"},
		{"--max-desc-length", "-1"},
		{"--parallel", "-4"},
	} {
		r = execute(t, "", append([]string{"-f", fabricFile(t, "apic1")}, args...)...)
		assert.Error(t, r.err, "args %v", args)
	}
}

func TestConfigFileDefaultsAndFlagOverride(t *testing.T) {
	isolate(t)
	envCreds(t)
	fab := apictest.New(t)
	fab.Faults = []map[string]any{recentFault("warning", "F9")}

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	content := "output = \"csv\"\nforce_http = true\nfabric_file = \"" + filepath.ToSlash(fabricFile(t, fab.Host())) + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	r := execute(t, "", "--config", cfgPath)
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "Fabric,Fabric Health,"), "config output=csv should apply, got %q", r.stdout)

	r = execute(t, "", "--config", cfgPath, "-o", "json")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "["), "flag should override config, got %q", r.stdout)
}

func TestMalformedConfigIsFatal(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output = \n"), 0644))

	r := execute(t, "", "--config", cfgPath, "-f", fabricFile(t, "apic1"))
	require.Error(t, r.err)
}

func TestCheckCommand(t *testing.T) {
	isolate(t)
	envCreds(t)
	fab := apictest.New(t)
	fab.Health = "93"
	fab.Faults = []map[string]any{recentFault("critical", "F1"), recentFault("critical", "F2"), recentFault("bogus", "F3")}

	r := execute(t, "", "check", fab.Host(), "--unsecure-transport")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "health 93")
	assert.Contains(t, r.stdout, "critical  2")
	assert.Contains(t, r.stdout, "malformed 1")
	assert.True(t, fab.LoggedOut())
}

func TestThemesAndConfigTheme(t *testing.T) {
	isolate(t)

	r := execute(t, "", "themes")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "solarized-dark")

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	r = execute(t, "", "--config", cfgPath, "config", "theme", "nord")
	require.NoError(t, r.err)

	r = execute(t, "", "--config", cfgPath, "config", "show")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, `theme = "nord"`)

	r = execute(t, "", "--config", cfgPath, "config", "theme", "no-such-theme")
	require.Error(t, r.err)
}

func TestVersion(t *testing.T) {
	r := execute(t, "", "version")
	require.NoError(t, r.err)
	assert.Equal(t, "acifault v"+Version+"\n", r.stdout)
}
