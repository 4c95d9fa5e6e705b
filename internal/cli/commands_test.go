package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/export"
	"github.com/matzehuels/harnesskit/pkg/store"
)

const jumperDesign = `
name = "Jumper"

[[components]]
kind = "connector"
mpn = "43025-0200"
manufacturer = "Molex"
positions = 2

[[components]]
kind = "connector"
mpn = "43025-0200"
manufacturer = "Molex"
positions = 2

[[connections]]
end1 = "X1.1"
end2 = "X2.1"
wire = {mpn = "UL1007-22-RD", manufacturer = "Alpha Wire", awg = 22, color = "red"}
`

const emptyDesign = `name = "Empty"`

// runCLI executes the root command with args, isolated from the user's
// config, cache and .env files.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "jumper.toml", jumperDesign)
	bad := writeFile(t, dir, "empty.toml", emptyDesign)

	if err := runCLI(t, "validate", good); err != nil {
		t.Errorf("validate jumper: %v", err)
	}
	if err := runCLI(t, "validate", good, bad); !errors.Is(err, errors.ErrCodeValidationFailed) {
		t.Errorf("validate with empty design = %v, want VALIDATION_FAILED", err)
	}
	if err := runCLI(t, "validate", filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("validate of a missing file succeeded")
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	a := writeFile(t, dir, "jumper.toml", jumperDesign)
	b := writeFile(t, dir, "empty.toml", emptyDesign)

	if err := runCLI(t, "export", "-o", out, "-j", "2", a, b); err != nil {
		t.Fatalf("export: %v", err)
	}
	doc, err := export.ImportFile(filepath.Join(out, "jumper.json"))
	if err != nil {
		t.Fatalf("read exported document: %v", err)
	}
	if doc.Data.Name != "Jumper" {
		t.Errorf("name = %q", doc.Data.Name)
	}
	if _, ok := doc.Data.Mapping.Get("W1"); !ok {
		t.Error("exported mapping has no W1")
	}
	if _, err := os.Stat(filepath.Join(out, "empty.json")); err != nil {
		t.Errorf("empty design not exported without --strict: %v", err)
	}

	err = runCLI(t, "export", "--strict", "-o", filepath.Join(dir, "strict"), b)
	if !errors.Is(err, errors.ErrCodeValidationFailed) {
		t.Errorf("strict export = %v, want VALIDATION_FAILED", err)
	}
}

func TestExportDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	for _, sub := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	a := writeFile(t, filepath.Join(dir, "a"), "x.toml", jumperDesign)
	b := writeFile(t, filepath.Join(dir, "b"), "x.toml", emptyDesign)

	err := runCLI(t, "export", "-o", out, a, b)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("export of two x.toml = %v, want INVALID_INPUT", err)
	}
	if _, err := os.Stat(filepath.Join(out, "x.json")); !os.IsNotExist(err) {
		t.Errorf("x.json written despite the name clash: %v", err)
	}
}

func TestDiagramCommand(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "jumper.toml", jumperDesign)
	out := filepath.Join(dir, "jumper.dot")

	if err := runCLI(t, "diagram", "--format", "dot", "-o", out, design); err != nil {
		t.Fatalf("diagram: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("digraph G {")) {
		t.Errorf("diagram = %q", data)
	}

	if err := runCLI(t, "diagram", "--format", "png", design); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("png diagram = %v, want UNSUPPORTED", err)
	}
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "jumper.toml", jumperDesign)

	backends := map[string][]string{
		"file":   {"--backend", "file", "--dir", filepath.Join(dir, "docs")},
		"sqlite": {"--backend", "sqlite", "--dsn", filepath.Join(dir, "docs.db")},
	}
	for name, flags := range backends {
		t.Run(name, func(t *testing.T) {
			storeCmd := func(args ...string) error {
				return runCLI(t, append(append([]string{"store"}, flags...), args...)...)
			}
			if err := storeCmd("save", "jumper", design); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := storeCmd("list"); err != nil {
				t.Fatalf("list: %v", err)
			}
			got := filepath.Join(t.TempDir(), "got.json")
			if err := storeCmd("get", "-o", got, "jumper"); err != nil {
				t.Fatalf("get: %v", err)
			}
			if doc, err := export.ImportFile(got); err != nil || doc.Data.Name != "Jumper" {
				t.Errorf("fetched document = %+v, %v", doc, err)
			}
			if err := storeCmd("delete", "jumper"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := storeCmd("get", "jumper"); !stderrors.Is(err, store.ErrNotFound) {
				t.Errorf("get after delete = %v, want ErrNotFound", err)
			}
			if err := storeCmd("save", "../escape", design); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("save with bad key = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, err := openStore(context.Background(), StoreConfig{Backend: "etcd"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("openStore(etcd) = %v, want UNSUPPORTED", err)
	}
}

func TestUploadCommand(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": "h-1", "name": "Jumper", "owner_id": "u", "created_at": "2024-05-01T12:00:00Z"}`)
	}))
	defer server.Close()

	design := writeFile(t, t.TempDir(), "jumper.toml", jumperDesign)
	t.Setenv(apiKeyEnv, "")

	if err := runCLI(t, "upload", "--api-url", server.URL, design); !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("upload without key = %v, want UNAUTHORIZED", err)
	}
	if err := runCLI(t, "upload", "--api-url", server.URL, "--api-key", "k1", design); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if auth != "Bearer k1" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	design := writeFile(t, dir, "jumper.toml", jumperDesign)
	cfg := writeFile(t, dir, "config.toml", "[store]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(filepath.Join(dir, "docs"))+"\"\n")

	if err := runCLI(t, "--config", cfg, "store", "save", "jumper", design); err != nil {
		t.Fatalf("store save with config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs", "jumper.json")); err != nil {
		t.Errorf("config dir not used: %v", err)
	}
	if err := runCLI(t, "--config", filepath.Join(dir, "missing.toml"), "validate", design); err == nil {
		t.Error("missing --config file accepted")
	}
}

func TestCompletionCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("completion script does not mention the program")
	}
}
