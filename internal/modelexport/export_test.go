package modelexport

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const fakeExporter = `#!/bin/sh
for a; do
  case "$a" in
    model=*) m="${a#model=}" ;;
  esac
done
echo "exporting $m"
case "$m" in
  *broken*) exit 2 ;;
  *noop*) exit 0 ;;
esac
printf 'onnx-bytes' > "${m%.pt}.onnx"
`

func setup(t *testing.T) (dir, exporter string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake exporter is a POSIX shell script")
	}
	dir = t.TempDir()
	exporter = filepath.Join(dir, "yolo")
	if err := os.WriteFile(exporter, []byte(fakeExporter), 0o755); err != nil {
		t.Fatalf("write fake exporter: %v", err)
	}
	return dir, exporter
}

func writeModel(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExportMovesOutput(t *testing.T) {
	dir, exporter := setup(t)
	model := writeModel(t, dir, "plates.pt")
	out := filepath.Join(dir, "models", "plates.onnx")

	var log bytes.Buffer
	got, err := Export(context.Background(), Options{ModelPath: model, OutPath: out, Exporter: exporter}, &log)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if got != out {
		t.Fatalf("expected output %s, got %s", out, got)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "onnx-bytes" {
		t.Fatalf("unexpected output contents %q err=%v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plates.onnx")); !os.IsNotExist(err) {
		t.Fatal("exporter output should have been moved")
	}
	if !strings.Contains(log.String(), "exporting "+model) {
		t.Fatalf("expected exporter output to be streamed, got %q", log.String())
	}
}

func TestExportErrors(t *testing.T) {
	dir, exporter := setup(t)

	_, err := Export(context.Background(), Options{ModelPath: filepath.Join(dir, "missing.pt"), OutPath: "x.onnx", Exporter: exporter}, &bytes.Buffer{})
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}

	model := writeModel(t, dir, "ok.pt")
	_, err = Export(context.Background(), Options{ModelPath: model, OutPath: filepath.Join(dir, "o.onnx"), Exporter: filepath.Join(dir, "nope")}, &bytes.Buffer{})
	if !errors.Is(err, ErrExporterNotFound) {
		t.Fatalf("expected ErrExporterNotFound, got %v", err)
	}

	broken := writeModel(t, dir, "broken.pt")
	if _, err := Export(context.Background(), Options{ModelPath: broken, OutPath: filepath.Join(dir, "b.onnx"), Exporter: exporter}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected exporter failure to surface")
	}

	noop := writeModel(t, dir, "noop.pt")
	if _, err := Export(context.Background(), Options{ModelPath: noop, OutPath: filepath.Join(dir, "n.onnx"), Exporter: exporter}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected missing output to be reported")
	}
}

func TestOptionsArgs(t *testing.T) {
	t.Parallel()

	args := Options{ModelPath: "m.pt"}.Args()
	joined := strings.Join(args, " ")
	for _, want := range []string{"export", "model=m.pt", "format=onnx", "imgsz=640", "opset=12"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %q", want, joined)
		}
	}
	if got := strings.Join(Options{ModelPath: "m.pt", ImageSize: 320}.Args(), " "); !strings.Contains(got, "imgsz=320") {
		t.Fatalf("expected custom image size, got %q", got)
	}
}
