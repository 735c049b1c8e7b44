package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/folio/internal/config"
	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/fieldstore"
)

const testVisitor = "6f1c1f8e-0f4e-4c69-9d43-6b1f3f4e2a10"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// sqliteConfig writes a config file that points the store at a temp database.
func sqliteConfig(t *testing.T) (path, dsn string) {
	t.Helper()
	dir := t.TempDir()
	dsn = filepath.Join(dir, "folio.db")

	cfg := config.New()
	cfg.Store.Driver = fieldstore.DriverSQLite
	cfg.Store.DSN = dsn
	path = filepath.Join(dir, "folio.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path, dsn
}

func seed(t *testing.T, dsn string, values map[string]string) {
	t.Helper()
	ctx := context.Background()
	store, err := fieldstore.Open(ctx, fieldstore.Options{
		Driver:  fieldstore.DriverSQLite,
		DSN:     dsn,
		Migrate: true,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	b := fieldstore.NewBucket(store, testVisitor)
	for k, v := range values {
		if err := b.Set(ctx, k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
}

func TestConfigInitAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")

	out, err := run(t, "config", "init", "-c", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := run(t, "config", "init", "-c", path); !errors.Is(err, os.ErrExist) {
		t.Errorf("second init err = %v, want ErrExist", err)
	}
	if _, err := run(t, "config", "init", "-c", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = run(t, "config", "check", "-c", path)
	if err != nil {
		t.Fatalf("config check: %v", err)
	}
	if !strings.Contains(out, "store: memory") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigCheckInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	if err := os.WriteFile(path, []byte("store:\n  driver: floppy\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "config", "check", "-c", path)
	if got := folioerrors.CodeOf(err); got != folioerrors.CodeInvalidConfig {
		t.Errorf("code = %q, want %q (err %v)", got, folioerrors.CodeInvalidConfig, err)
	}
}

func TestStoreShowAndClear(t *testing.T) {
	path, dsn := sqliteConfig(t)
	seed(t, dsn, map[string]string{
		"form_name":  "Ada",
		"form_email": "ada@example.com",
	})

	out, err := run(t, "store", "show", "-c", path, "--visitor", testVisitor)
	if err != nil {
		t.Fatalf("store show: %v", err)
	}
	for _, want := range []string{`form_email`, `"ada@example.com"`, `form_name`, `"Ada"`} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "form_email") > strings.Index(out, "form_name") {
		t.Errorf("keys not sorted:\n%s", out)
	}

	if _, err := run(t, "store", "clear", "-c", path, "--visitor", testVisitor); err != nil {
		t.Fatalf("store clear: %v", err)
	}

	out, err = run(t, "store", "show", "-c", path, "--visitor", testVisitor)
	if err != nil {
		t.Fatalf("store show after clear: %v", err)
	}
	if !strings.Contains(out, "no values stored") {
		t.Errorf("output after clear = %q", out)
	}
}

func TestStoreRequiresVisitor(t *testing.T) {
	path, _ := sqliteConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing", []string{"store", "show", "-c", path}},
		{"not a uuid", []string{"store", "clear", "-c", path, "--visitor", "bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if got := folioerrors.CodeOf(err); got != folioerrors.CodeMissingFlag {
				t.Errorf("code = %q, want %q", got, folioerrors.CodeMissingFlag)
			}
		})
	}
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, folioerrors.New(folioerrors.CodeStoreOpen).WithDetail("sqlite"))
	if !strings.Contains(buf.String(), "F010") {
		t.Errorf("coded error output = %q", buf.String())
	}

	buf.Reset()
	printError(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("plain error output = %q", buf.String())
	}
}
