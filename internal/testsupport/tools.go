package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteStubTool writes an executable shell script that stands in for an
// external tool and returns its absolute path.
func WriteStubTool(t testing.TB, name, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	content := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub tool %s: %v", name, err)
	}
	return path
}

// StubCompiler returns a script that behaves like mpy-cross: it parses
// "-o <out> <src>" and copies the source into the output artifact.
func StubCompiler(t testing.TB) string {
	t.Helper()
	return WriteStubTool(t, "mpy-cross", `out=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    *) src="$1"; shift ;;
  esac
done
cp "$src" "$out"`)
}

// StubFailingTool returns a script that prints output and exits nonzero.
func StubFailingTool(t testing.TB, name, output string, exitCode int) string {
	t.Helper()
	return WriteStubTool(t, name, `cat <<'STUBEOF'
`+output+`
STUBEOF
exit `+itoa(exitCode))
}

// StubSleepingTool returns a script that sleeps past any reasonable test
// timeout, for exercising deadline handling.
func StubSleepingTool(t testing.TB, name string) string {
	t.Helper()
	return WriteStubTool(t, name, "sleep 60")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}
