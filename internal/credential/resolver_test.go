package credential

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlorentedev/sidehustler/internal/notify"
)

const testEnvVar = "SIDEHUSTLER_TEST_OPENAI_KEY"

type captureSink struct {
	msgs []string
}

func (c *captureSink) Notify(level notify.Level, text string) {
	c.msgs = append(c.msgs, string(level)+":"+text)
}

func writeDotfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	return path
}

func TestResolverPriority(t *testing.T) {
	dotfile := writeDotfile(t, testEnvVar+"=from-dotfile\n")

	store := NewStore(t.TempDir())
	if err := store.Save("from-config"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tests := []struct {
		name       string
		env        string
		envFile    string
		store      *Store
		wantKey    string
		wantSource Source
	}{
		{"env wins", "from-env", dotfile, store, "from-env", SourceEnv},
		{"dotfile second", "", dotfile, store, "from-dotfile", SourceDotfile},
		{"config last", "", "", store, "from-config", SourceConfig},
		{"missing dotfile skipped", "", filepath.Join(t.TempDir(), "nope.env"), store, "from-config", SourceConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testEnvVar, tt.env)
			sink := &captureSink{}
			r := &Resolver{EnvVar: testEnvVar, EnvFile: tt.envFile, Store: tt.store, Sink: sink}

			key, src, err := r.Resolve()
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if key != tt.wantKey {
				t.Errorf("key: got %q, want %q", key, tt.wantKey)
			}
			if src != tt.wantSource {
				t.Errorf("source: got %q, want %q", src, tt.wantSource)
			}
			for _, m := range sink.msgs {
				if strings.Contains(m, tt.wantKey) {
					t.Errorf("notification leaked the key: %q", m)
				}
			}
		})
	}
}

func TestResolverDotfileDoesNotMutateEnv(t *testing.T) {
	t.Setenv(testEnvVar, "")
	dotfile := writeDotfile(t, testEnvVar+"=from-dotfile\n")
	r := &Resolver{EnvVar: testEnvVar, EnvFile: dotfile}

	if _, _, err := r.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := os.Getenv(testEnvVar); got != "" {
		t.Errorf("environment mutated: %q", got)
	}
}

func TestResolverNotConfigured(t *testing.T) {
	t.Setenv(testEnvVar, "")
	r := &Resolver{EnvVar: testEnvVar, Store: NewStore(t.TempDir())}

	_, _, err := r.Resolve()
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Configured {
		t.Error("status: got configured, want not configured")
	}
}

func TestResolverCorruptStore(t *testing.T) {
	t.Setenv(testEnvVar, "")
	store := NewStore(t.TempDir())
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := &Resolver{EnvVar: testEnvVar, Store: store}
	_, _, err := r.Resolve()
	if err == nil || errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v, want parse error", err)
	}
	if !strings.Contains(err.Error(), "parse credentials file") {
		t.Errorf("error: got %q", err)
	}
}

func TestResolverStatus(t *testing.T) {
	t.Setenv(testEnvVar, "sk-env")
	r := &Resolver{EnvVar: testEnvVar}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Configured || st.Source != SourceEnv {
		t.Errorf("got %+v, want configured from env", st)
	}
}

func TestResolverLookupIsSilent(t *testing.T) {
	t.Setenv(testEnvVar, "sk-env")
	sink := &captureSink{}
	r := &Resolver{EnvVar: testEnvVar, Sink: sink}

	for i := 0; i < 3; i++ {
		key, src, err := r.Lookup()
		if err != nil || key != "sk-env" || src != SourceEnv {
			t.Fatalf("Lookup: got %q, %q, %v", key, src, err)
		}
		if _, err := r.Status(); err != nil {
			t.Fatalf("Status: %v", err)
		}
	}
	if len(sink.msgs) != 0 {
		t.Errorf("Lookup and Status must not notify, got %v", sink.msgs)
	}

	if _, _, err := r.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(sink.msgs) != 1 || sink.msgs[0] != "debug:Using API key from environment variable" {
		t.Errorf("Resolve notifications: got %v", sink.msgs)
	}
}

func TestResolverCorruptDotfileWarns(t *testing.T) {
	t.Setenv(testEnvVar, "")
	dir := t.TempDir()
	sink := &captureSink{}
	// A directory cannot be read as a dotfile.
	r := &Resolver{EnvVar: testEnvVar, EnvFile: dir, Sink: sink}

	if _, _, err := r.Resolve(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
	if len(sink.msgs) == 0 || !strings.HasPrefix(sink.msgs[0], "warn:") {
		t.Errorf("expected a warning, got %v", sink.msgs)
	}
}
