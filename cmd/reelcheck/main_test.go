package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcheck/internal/compliance"
)

func TestEvaluateSafeFile(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	input := writeFile(t, env.baseDir, "reply.txt", safeReply)

	out, _, err := runCLI(t, []string{"evaluate", input}, env.configPath, "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	requireContains(t, out, "[OK] video is safe")
}

func TestEvaluateViolationsExitCode(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"--json", "evaluate", "-"}, env.configPath, gamblingReply)
	if err == nil {
		t.Fatal("expected violations exit")
	}
	if code := exitCode(err); code != exitViolations {
		t.Fatalf("expected exit code %d, got %d (%v)", exitViolations, code, err)
	}
	if !isSilentExit(err) {
		t.Fatalf("violations exit should not print an error, got %v", err)
	}

	var payload struct {
		Outcome string          `json:"outcome"`
		Source  string          `json:"source"`
		Verdict json.RawMessage `json:"verdict"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.Outcome != "violations" || payload.Source != "stdin" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if string(payload.Verdict) != `{"USA":"Safe","China":["Gambling"],"India":"Safe"}` {
		t.Fatalf("unexpected verdict %s", payload.Verdict)
	}
}

func TestEvaluateUnparseableInputFails(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	out, _, err := runCLI(t, []string{"evaluate"}, env.configPath, "no json here")
	if err == nil {
		t.Fatal("expected extraction failure")
	}
	if exitCode(err) != exitFailure {
		t.Fatalf("expected exit code 1, got %d", exitCode(err))
	}
	requireContains(t, out, "undetermined")
}

func TestCheckSingleVideoRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"vid-1": gamblingReply})

	out, _, err := runCLI(t, []string{"check", "vid-1"}, env.configPath, "")
	if exitCode(err) != exitViolations {
		t.Fatalf("expected violations exit, got %v", err)
	}
	requireContains(t, out, "vid-1")
	requireContains(t, out, "China")
	requireContains(t, out, "Gambling")

	out, _, err = runCLI(t, []string{"--json", "history", "--video", "vid-1"}, env.configPath, "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []struct {
		VideoID string             `json:"video_id"`
		Outcome string             `json:"outcome"`
		Verdict compliance.Verdict `json:"verdict"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].Outcome != "violations" {
		t.Fatalf("unexpected history: %+v", entries)
	}
	if china, ok := entries[0].Verdict.Result("China"); !ok || china.Safe() {
		t.Fatalf("expected China violation in history, got %s", entries[0].Verdict)
	}
}

func TestCheckAllUsesIndex(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a": safeReply, "b": safeReply})

	out, _, err := runCLI(t, []string{"check", "--all"}, env.configPath, "")
	if err != nil {
		t.Fatalf("check --all: %v", err)
	}
	requireContains(t, out, "Summary")
	if strings.Count(out, "video is safe") != 2 {
		t.Fatalf("expected two safe videos, got:\n%s", out)
	}
}

func TestCheckUnknownVideoIsUndetermined(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{})
	out, _, err := runCLI(t, []string{"check", "missing"}, env.configPath, "")
	if err == nil || exitCode(err) != exitFailure {
		t.Fatalf("expected failure, got %v", err)
	}
	requireContains(t, out, "undetermined")
}

func TestCheckArgumentValidation(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	if _, _, err := runCLI(t, []string{"check"}, env.configPath, ""); err == nil {
		t.Fatal("expected error without ids or --all")
	}
	if _, _, err := runCLI(t, []string{"check", "--all", "x"}, env.configPath, ""); err == nil {
		t.Fatal("expected error with both ids and --all")
	}
}

func TestPoliciesTableAndExport(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"policies"}, env.configPath, "")
	if err != nil {
		t.Fatalf("policies: %v", err)
	}
	requireContains(t, out, "Explicit Nudity")
	requireContains(t, out, "India")

	out, _, err = runCLI(t, []string{"--json", "policies", "-j", "China"}, env.configPath, "")
	if err != nil {
		t.Fatalf("policies -j: %v", err)
	}
	var jurisdictions []jurisdictionOutput
	if err := json.Unmarshal([]byte(out), &jurisdictions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jurisdictions) != 1 || jurisdictions[0].Name != "China" {
		t.Fatalf("unexpected jurisdictions: %+v", jurisdictions)
	}

	if _, _, err := runCLI(t, []string{"policies", "-j", "Atlantis"}, env.configPath, ""); err == nil {
		t.Fatal("expected unknown jurisdiction error")
	}

	exportPath := filepath.Join(env.baseDir, "policies.yaml")
	if _, _, err := runCLI(t, []string{"policies", "--export", exportPath}, env.configPath, ""); err != nil {
		t.Fatalf("export: %v", err)
	}
	table, err := compliance.LoadTable(exportPath)
	if err != nil {
		t.Fatalf("exported table does not load: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 jurisdictions, got %d", table.Len())
	}
	if _, _, err := runCLI(t, []string{"policies", "--export", exportPath}, env.configPath, ""); err == nil {
		t.Fatal("expected refusal to overwrite export")
	}
}

func TestVideosCommand(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"clip": safeReply})
	out, _, err := runCLI(t, []string{"videos"}, env.configPath, "")
	if err != nil {
		t.Fatalf("videos: %v", err)
	}
	requireContains(t, out, "clip.mp4")
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath, "")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Provider API")
	requireContains(t, out, "API reachable")
}

func TestHistoryStatsAndClear(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"v": safeReply})
	if _, _, err := runCLI(t, []string{"check", "v"}, env.configPath, ""); err != nil {
		t.Fatalf("check: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "stats"}, env.configPath, "")
	if err != nil {
		t.Fatalf("history stats: %v", err)
	}
	requireContains(t, out, "Total checks")

	if _, _, err := runCLI(t, []string{"history", "clear"}, env.configPath, ""); err == nil {
		t.Fatal("expected clear to require --yes")
	}
	out, _, err = runCLI(t, []string{"history", "clear", "--yes"}, env.configPath, "")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 1 checks")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "USA, China, India")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(errors.New("x")) != exitFailure {
		t.Fatal("plain errors exit 1")
	}
	if exitCode(violationsFound()) != exitViolations {
		t.Fatal("violations exit 2")
	}
}
