// Package recognizer runs an external plate recognizer once per sample and
// extracts its best guess.
package recognizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwiater/alpreval/internal/alprjson"
	"github.com/mwiater/alpreval/internal/logging"
	"github.com/mwiater/alpreval/internal/util"
)

// ErrBinaryNotFound is returned when the recognizer executable is missing.
var ErrBinaryNotFound = errors.New("recognizer binary not found")

// waitDelay bounds how long we wait for output pipes after the child is killed.
const waitDelay = 2 * time.Second

// Result is the outcome of one invocation. InvocationFailed implies an empty
// TopCandidate; a successful run may still yield no candidate.
type Result struct {
	TopCandidate     string
	InvocationFailed bool
	// Err records why the invocation failed. It is informational only.
	Err error
}

// Failed builds the Result for an invocation that could not be completed.
func Failed(err error) Result {
	return Result{InvocationFailed: true, Err: err}
}

// Recognizer produces a Result for a single sample. Implementations must
// absorb every per-sample problem into the Result.
type Recognizer interface {
	Recognize(ctx context.Context, samplePath string) Result
}

// Func adapts an ordinary function to the Recognizer interface.
type Func func(ctx context.Context, samplePath string) Result

// Recognize calls f.
func (f Func) Recognize(ctx context.Context, samplePath string) Result {
	return f(ctx, samplePath)
}

// Process invokes the recognizer binary as a one-shot child process:
//
//	<binary> [args...] <jsonFlag> <samplePath>
type Process struct {
	binary   string
	jsonFlag string
	args     []string
	timeout  time.Duration
}

// Option configures a Process.
type Option func(*Process)

// WithJSONFlag overrides the flag that requests structured output.
func WithJSONFlag(flag string) Option {
	return func(p *Process) {
		if f := strings.TrimSpace(flag); f != "" {
			p.jsonFlag = f
		}
	}
}

// WithArgs adds arguments placed before the structured-output flag.
func WithArgs(args ...string) Option {
	return func(p *Process) {
		p.args = append(p.args, args...)
	}
}

// WithTimeout kills an invocation that runs longer than d. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(p *Process) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewProcess resolves binary and returns a Process ready to invoke it.
func NewProcess(binary string, opts ...Option) (*Process, error) {
	resolved, err := ResolveBinary(binary)
	if err != nil {
		return nil, err
	}
	p := &Process{binary: resolved, jsonFlag: "-j"}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ResolveBinary checks that binary exists. Bare command names that are not
// present in the working directory are looked up on PATH.
func ResolveBinary(binary string) (string, error) {
	b := strings.TrimSpace(binary)
	if b == "" {
		return "", fmt.Errorf("%w: no path configured", ErrBinaryNotFound)
	}

	info, err := os.Stat(b)
	if err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("%w: %q is a directory", ErrBinaryNotFound, b)
		}
		abs, absErr := filepath.Abs(b)
		if absErr != nil {
			return b, nil
		}
		return abs, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("recognizer binary %q not accessible: %w", b, err)
	}
	if !strings.ContainsAny(b, `/\`) {
		if found, lookErr := exec.LookPath(b); lookErr == nil {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w at %q", ErrBinaryNotFound, b)
}

// Binary returns the resolved executable path.
func (p *Process) Binary() string {
	return p.binary
}

// Args returns the argument list used for samplePath.
func (p *Process) Args(samplePath string) []string {
	args := make([]string, 0, len(p.args)+2)
	args = append(args, p.args...)
	return append(args, p.jsonFlag, samplePath)
}

// Recognize runs the recognizer against samplePath. Launch failures, non-zero
// exits, timeouts and unparseable output all come back as a failed Result.
func (p *Process) Recognize(ctx context.Context, samplePath string) Result {
	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := p.Args(samplePath)
	cmd := exec.CommandContext(runCtx, p.binary, args...)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.LogInvocation("out", p.binary, samplePath, strings.Join(args, " "))
	stdout, err := cmd.Output()
	if err != nil {
		if runCtx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", p.timeout, err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, util.TruncateRunes(msg, 200))
		}
		logging.LogInvocation("in", p.binary, samplePath, err)
		return Failed(err)
	}

	resp, err := alprjson.ParseResponse(stdout)
	if err != nil {
		logging.LogInvocation("in", p.binary, samplePath, err)
		return Failed(err)
	}
	top, _ := resp.TopCandidate()
	logging.LogInvocation("in", p.binary, samplePath, fmt.Sprintf("results=%d top=%q", len(resp.Results), top))
	return Result{TopCandidate: top}
}
