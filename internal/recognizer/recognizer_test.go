package recognizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const fakeRecognizer = `#!/bin/sh
for last; do :; done
case "$last" in
  *good*) echo '{"results":[{"plate":"ABC 123","confidence":91.5},{"plate":"A8C123","confidence":60}]}' ;;
  *empty*) echo '{"results":[]}' ;;
  *silent*) ;;
  *crash*) echo "segfault" >&2; exit 3 ;;
  *garbage*) echo 'plate: ABC123' ;;
  *args*) echo "{\"results\":[{\"plate\":\"$*\"}]}" ;;
  *slow*) exec sleep 5 ;;
esac
`

func writeFakeRecognizer(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake recognizer is a POSIX shell script")
	}
	path := filepath.Join(t.TempDir(), "alpr")
	if err := os.WriteFile(path, []byte(fakeRecognizer), 0o755); err != nil {
		t.Fatalf("write fake recognizer: %v", err)
	}
	return path
}

func TestProcessRecognize(t *testing.T) {
	bin := writeFakeRecognizer(t)
	p, err := NewProcess(bin)
	if err != nil {
		t.Fatalf("NewProcess error: %v", err)
	}

	tests := []struct {
		sample     string
		wantTop    string
		wantFailed bool
	}{
		{sample: "good.jpg", wantTop: "ABC 123"},
		{sample: "empty.jpg", wantTop: ""},
		{sample: "silent.jpg", wantTop: ""},
		{sample: "crash.jpg", wantFailed: true},
		{sample: "garbage.jpg", wantFailed: true},
	}
	for _, tt := range tests {
		got := p.Recognize(context.Background(), tt.sample)
		if got.InvocationFailed != tt.wantFailed {
			t.Fatalf("%s: InvocationFailed=%v want %v (err=%v)", tt.sample, got.InvocationFailed, tt.wantFailed, got.Err)
		}
		if got.TopCandidate != tt.wantTop {
			t.Fatalf("%s: TopCandidate=%q want %q", tt.sample, got.TopCandidate, tt.wantTop)
		}
		if got.InvocationFailed && got.Err == nil {
			t.Fatalf("%s: failed result should carry an error", tt.sample)
		}
	}
}

func TestProcessCrashCarriesStderr(t *testing.T) {
	bin := writeFakeRecognizer(t)
	p, err := NewProcess(bin)
	if err != nil {
		t.Fatalf("NewProcess error: %v", err)
	}
	got := p.Recognize(context.Background(), "crash.jpg")
	if got.Err == nil || !strings.Contains(got.Err.Error(), "segfault") {
		t.Fatalf("expected stderr in error, got %v", got.Err)
	}
}

func TestProcessArgsOrder(t *testing.T) {
	bin := writeFakeRecognizer(t)
	p, err := NewProcess(bin, WithArgs("-c", "us"), WithJSONFlag("--json"))
	if err != nil {
		t.Fatalf("NewProcess error: %v", err)
	}
	got := p.Recognize(context.Background(), "args.jpg")
	if got.InvocationFailed {
		t.Fatalf("unexpected failure: %v", got.Err)
	}
	if got.TopCandidate != "-c us --json args.jpg" {
		t.Fatalf("unexpected argument order %q", got.TopCandidate)
	}
}

func TestProcessTimeout(t *testing.T) {
	bin := writeFakeRecognizer(t)
	p, err := NewProcess(bin, WithTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("NewProcess error: %v", err)
	}
	start := time.Now()
	got := p.Recognize(context.Background(), "slow.jpg")
	if !got.InvocationFailed {
		t.Fatal("expected timeout to fail the invocation")
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestResolveBinary(t *testing.T) {
	if _, err := ResolveBinary(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
	if _, err := ResolveBinary(""); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound for empty path, got %v", err)
	}
	if _, err := ResolveBinary(t.TempDir()); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound for a directory, got %v", err)
	}
	if _, err := NewProcess("definitely-not-a-real-recognizer-binary"); !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound from NewProcess, got %v", err)
	}
}

func TestFuncAdapter(t *testing.T) {
	t.Parallel()

	var r Recognizer = Func(func(ctx context.Context, path string) Result {
		return Result{TopCandidate: strings.ToUpper(path)}
	})
	if got := r.Recognize(context.Background(), "abc"); got.TopCandidate != "ABC" {
		t.Fatalf("unexpected result %+v", got)
	}
	if f := Failed(errors.New("x")); !f.InvocationFailed || f.TopCandidate != "" {
		t.Fatalf("Failed() violated its contract: %+v", f)
	}
}
