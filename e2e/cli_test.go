package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regattadev/boatrace/internal/api"
	"github.com/regattadev/boatrace/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "boatctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/boatctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Registry:    app.Registry,
		Storage:     app.Storage,
		Gateway:     app.Gateway,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Account struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	} `json:"account"`
	SessionToken string `json:"session_token"`
}

type raceResponse struct {
	ID        string `json:"id"`
	CreatorID string `json:"creator_id"`
	Status    string `json:"status"`
	Players   []struct {
		UserID    string `json:"user_id"`
		Connected bool   `json:"connected"`
		Screen    int    `json:"screen"`
		Ready     bool   `json:"ready"`
	} `json:"players"`
}

type raceListResponse struct {
	Races []raceResponse `json:"races"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AccountCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("account", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "Alice", authResp.Account.DisplayName)
	assert.True(t, authResp.Account.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("account", "me")
	require.NoError(t, err, "output: %s", output)

	var account struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &account))
	assert.Equal(t, "Alice", account.DisplayName)
	assert.Equal(t, authResp.Account.ID, account.ID)
}

func TestCLI_RegisterAndLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("account", "register", "--name", "Alice", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var registered authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &registered))
	assert.False(t, registered.Account.IsGuest)

	output, err = cli.run("account", "login", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var loggedIn authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &loggedIn))
	assert.Equal(t, registered.Account.ID, loggedIn.Account.ID)
	assert.NotEmpty(t, loggedIn.SessionToken)
}

func TestCLI_RaceCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	// Separate token files so each player keeps their own session
	cli1 := newCLIRunner(t, ts.addr)
	cli2 := &cliRunner{
		binaryPath: cli1.binaryPath,
		serverURL:  cli1.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	// Create two players
	output, err := cli1.run("account", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var auth1 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth1))
	token1 := auth1.SessionToken

	output, err = cli2.run("account", "guest", "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	var auth2 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth2))
	token2 := auth2.SessionToken

	// Alice creates a race
	output, err = cli1.runWithToken(token1, "race", "create")
	require.NoError(t, err, "output: %s", output)
	var created raceResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "waiting", created.Status)
	assert.Equal(t, auth1.Account.ID, created.CreatorID)
	raceID := created.ID
	t.Logf("Created race: %s", raceID)

	// Both players join the roster
	output, err = cli1.runWithToken(token1, "race", "join", raceID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli2.runWithToken(token2, "race", "join", raceID)
	require.NoError(t, err, "output: %s", output)
	var joined raceResponse
	require.NoError(t, json.Unmarshal([]byte(output), &joined))
	assert.Len(t, joined.Players, 2)

	// List includes the race
	output, err = cli1.runWithToken(token1, "race", "list")
	require.NoError(t, err, "output: %s", output)
	var list raceListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Races, 1)
	assert.Equal(t, raceID, list.Races[0].ID)

	// Get the race
	output, err = cli1.runWithToken(token1, "race", "get", raceID)
	require.NoError(t, err, "output: %s", output)
	var fetched raceResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fetched))
	assert.Equal(t, raceID, fetched.ID)
	assert.Len(t, fetched.Players, 2)
}

func TestCLI_RaceReady(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("account", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var auth1 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth1))
	token := auth1.SessionToken

	output, err = cli.runWithToken(token, "race", "create")
	require.NoError(t, err, "output: %s", output)
	var created raceResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	// ready opens a websocket, joins, claims the screen and waits for the
	// confirming event before exiting
	output, err = cli.runWithToken(token, "race", "ready", created.ID, "--screen", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "player_ready")
}

func TestCLI_RaceLeave(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("account", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var auth1 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth1))
	token := auth1.SessionToken

	output, err = cli.runWithToken(token, "race", "create")
	require.NoError(t, err, "output: %s", output)
	var created raceResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	output, err = cli.runWithToken(token, "race", "leave", created.ID)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Left race")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get account without auth
	output, err := cli.run("account", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "authentication required")

	// Get non-existent race
	output, err = cli.run("account", "guest", "--name", "Alice")
	require.NoError(t, err)
	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))

	output, err = cli.runWithToken(auth.SessionToken, "race", "get", "NOPE01")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
