package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONWithComponent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{Level: "info", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.WithComponent("importer").Infow("supplier loaded", "supplier", "HE")
	log.Debugw("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"component":"importer"`) || !strings.Contains(out, `"supplier":"HE"`) {
		t.Fatalf("missing structured fields: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at info level: %s", out)
	}
}

func TestOrDefault(t *testing.T) {
	t.Parallel()

	if OrDefault(nil) == nil {
		t.Fatalf("nil logger should fall back to default")
	}
	l := Nop()
	if OrDefault(l) != l {
		t.Fatalf("non-nil logger should be returned as is")
	}
}
