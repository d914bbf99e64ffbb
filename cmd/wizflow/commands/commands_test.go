package commands

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIZFLOW_CONFIG", "")
	t.Setenv("WIZFLOW_BACKEND_DELAY", "0s")
	t.Setenv("WIZFLOW_BACKEND_BCRYPT_COST", "4")
	t.Setenv("WIZFLOW_WIZARD_LOCALE", "en_US.UTF-8")
	t.Setenv("WIZFLOW_LOG_LEVEL", "error")
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("WIZFLOW_STORAGE_DRIVER", "sqlite")
	t.Setenv("WIZFLOW_STORAGE_PATH", filepath.Join(t.TempDir(), "wizflow.db"))
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func sessionID(t *testing.T, out string) string {
	t.Helper()
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		if id, ok := strings.CutPrefix(sc.Text(), "session "); ok {
			return id
		}
	}
	t.Fatalf("no session id in output:\n%s", out)
	return ""
}

func TestRun_SignInAndCheckout(t *testing.T) {
	setupEnv(t)

	script := `
wait
signin
user lorem
password loremipsum
confirm
wait
select 2
next
`
	out, err := runCLI(t, script, "run")
	require.NoError(t, err)
	require.Contains(t, out, "-> stage delivery-method")
	require.Contains(t, out, "checkout: Lorem Ipsum <lorem@ipsum.com>")
	require.Contains(t, out, "via Paczkomat")
}

func TestRun_UserNotFound(t *testing.T) {
	setupEnv(t)

	script := `
user nobody
password whatever1
confirm
wait
show
quit
`
	out, err := runCLI(t, script, "run")
	require.NoError(t, err)
	require.Contains(t, out, "! User not found.")
	require.Contains(t, out, "stage:     recipient-data")
	require.Contains(t, out, "signed in: false")
	require.NotContains(t, out, "checkout:")
}

func TestRun_NextWithEmptyFormShowsErrors(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "next\nshow\nbogus\n", "run")
	require.NoError(t, err)
	require.Contains(t, out, "This field is required.")
	require.Contains(t, out, "stage:     recipient-data")
	require.Contains(t, out, `error: unknown command "bogus"`)
}

func TestRun_SimulatedFailure(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "wait\nshow\nquit\n", "run", "--simulate-failure")
	require.NoError(t, err)
	require.Contains(t, out, "No connection to the server")
	require.NotContains(t, out, "delivery:")
}

func TestSeedRunAndHistory_SQLite(t *testing.T) {
	setupEnv(t)
	useSQLite(t)

	out, err := runCLI(t, "", "seed",
		"--username", "jan",
		"--email", "Jan@Example.com",
		"--password", "secret123",
		"--name", "Jan",
		"--surname", "Kowalski",
		"--phone", "512345678",
		"--country", "PL",
	)
	require.NoError(t, err)
	require.Contains(t, out, `Registered account "jan"`)

	script := `
wait
user jan@example.com
password secret123
confirm
wait
select 3
next
`
	out, err = runCLI(t, script, "run")
	require.NoError(t, err)
	require.Contains(t, out, "checkout: Jan Kowalski")
	require.Contains(t, out, "via Pickup in person")
	id := sessionID(t, out)

	out, err = runCLI(t, "", "history")
	require.NoError(t, err)
	require.Contains(t, out, id)

	out, err = runCLI(t, "", "history", id)
	require.NoError(t, err)
	require.Contains(t, out, "session.started")
	require.Contains(t, out, "stage.advanced")
	require.Contains(t, out, "session.ended")
	require.NotContains(t, out, "secret123")

	_, err = runCLI(t, "", "history", "missing")
	require.Error(t, err)
}

func TestCountries(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "", "countries", "poland")
	require.NoError(t, err)
	require.Contains(t, out, "PL\t+48 🇵🇱\tPoland")

	out, err = runCLI(t, "", "countries", "--lang", "pl", "pl")
	require.NoError(t, err)
	require.Contains(t, out, "Polska")
}

func TestLoadConfigError(t *testing.T) {
	setupEnv(t)
	t.Setenv("WIZFLOW_STORAGE_DRIVER", "mongo")

	_, err := runCLI(t, "", "history")
	require.ErrorContains(t, err, "storage.driver")
}
