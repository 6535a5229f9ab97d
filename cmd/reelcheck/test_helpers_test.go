package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	safeReply     = `{"safe":"Yes","explicit_content":{"Violence":["No","None"]}}`
	gamblingReply = `Analysis: {"safe":"No","explicit_content":{"Gambling":["Yes","Low"]},"annotations":{"Gambling":["00:10"]}}`
)

type cliTestEnv struct {
	configPath string
	baseDir    string
	server     *httptest.Server
}

// setupCLITestEnv writes a config whose provider points at a fake API that
// answers /generate from replies and lists replies' keys as the index.
func setupCLITestEnv(t *testing.T, replies map[string]string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("TWELVE_LABS_API_KEY", "")
	t.Setenv("TWELVE_LABS_INDEX_ID", "")

	order := make([]string, 0, len(replies))
	for id := range replies {
		order = append(order, id)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/generate":
			var body struct {
				VideoID string `json:"video_id"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			reply, ok := replies[body.VideoID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "gen", "data": reply})
		case r.Method == http.MethodGet && r.URL.Path == "/indexes/idx-test/videos":
			data := make([]map[string]any, 0, len(order))
			for _, id := range order {
				data = append(data, map[string]any{"_id": id, "metadata": map[string]any{"filename": id + ".mp4", "duration": 12.0}})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "page_info": map[string]any{"total_page": 1}})
		case r.Method == http.MethodGet && r.URL.Path == "/indexes":
			_, _ = w.Write([]byte(`{"data":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[provider]
api_key = "test-key"
base_url = %q
index_id = "idx-test"
retry_attempts = 1

[checks]
concurrency = 2
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), server.URL)
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, baseDir: base, server: server}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
