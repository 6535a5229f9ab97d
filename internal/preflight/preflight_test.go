package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcheck/internal/config"
	"reelcheck/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckProvider_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	result := CheckProvider(context.Background(), config.Provider{APIKey: "good-key", BaseURL: srv.URL})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckProvider_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckProvider(context.Background(), config.Provider{APIKey: "bad", BaseURL: srv.URL})
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
	if !strings.Contains(result.Detail, "invalid api key") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckProvider_MissingKey(t *testing.T) {
	result := CheckProvider(context.Background(), config.Provider{})
	if result.Passed || !strings.Contains(result.Detail, "TWELVE_LABS_API_KEY") {
		t.Fatalf("expected missing key failure, got %#v", result)
	}
}

func TestCheckPolicies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckPolicies(cfg); !result.Passed || !strings.Contains(result.Detail, "3 jurisdictions") {
		t.Fatalf("expected built-in table to pass, got %#v", result)
	}

	broken := testsupport.NewConfig(t, testsupport.WithPolicyFile("broken.toml", "[[jurisdiction]]\nname = \"\"\n"))
	if result := CheckPolicies(broken); result.Passed {
		t.Fatal("expected invalid policy file to fail")
	}
}

func TestRunAllOffline(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results := RunAll(context.Background(), cfg, false)
	if len(results) != 4 {
		t.Fatalf("expected 4 offline checks, got %d", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all offline checks to pass: %#v", results)
	}

	cfg.Provider.IndexID = ""
	if AllPassed(RunAll(context.Background(), cfg, false)) {
		t.Fatal("missing index should fail")
	}
}
