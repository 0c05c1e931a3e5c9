package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTempConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	contents := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(base, "data") + `"`,
		`workspace_dir = "` + filepath.Join(base, "work") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tools]") {
		t.Fatalf("sample missing tools section:\n%s", data)
	}

	// A second init without --overwrite must refuse.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	contents := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(base, "data") + `"`,
		`workspace_dir = "` + filepath.Join(base, "work") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		"",
		"[assist]",
		`api_key = "super-secret"`,
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCommand(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	if strings.Contains(out, "super-secret") {
		t.Fatalf("secret leaked:\n%s", out)
	}
	if !strings.Contains(out, "<redacted>") {
		t.Fatalf("expected redaction marker:\n%s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	cfgPath := writeTempConfig(t)
	source := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(source, []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", cfgPath, "check", source)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "syntax OK") {
		t.Fatalf("unexpected output %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.py")
	if err := os.WriteFile(bad, []byte("def f(:\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "--config", cfgPath, "check", bad); err == nil {
		t.Fatal("expected syntax failure")
	}
}

func TestDepsCommandListsToolchain(t *testing.T) {
	cfgPath := writeTempConfig(t)
	out, _ := runCommand(t, "--config", cfgPath, "deps")
	for _, tool := range []string{"mpy-cross", "pybricksdev", "dfu-util"} {
		if !strings.Contains(out, tool) {
			t.Fatalf("deps output missing %s:\n%s", tool, out)
		}
	}
}
