package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"simple", "models/models.go", ""},
		{"single file", "models.go", ""},
		{"empty", "", "empty"},
		{"absolute", "/tmp/models.go", "absolute paths not allowed"},
		{"drive letter", "C:/models.go", "absolute paths not allowed"},
		{"traversal", "a/../models.go", "path traversal not allowed"},
		{"leading traversal", "../models.go", "path traversal not allowed"},
		{"dot prefix", "./models.go", "not clean"},
		{"double slash", "a//models.go", "not clean"},
		{"trailing slash", "models/", "not clean"},
		{"dots in name", "a/b..go", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidatePath(test.path)
			if test.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, expected nil", test.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("ValidatePath(%q) = %v, expected error containing %q", test.path, err, test.wantErr)
			}
		})
	}
}

func TestFilesystemSink(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "pets/pets.go", []byte("package pets\n")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "pets/pets.go", []byte("package pets // v2\n")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(root, "pets", "pets.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "package pets // v2\n" {
		t.Errorf("content = %q", got)
	}

	entries, err := os.ReadDir(filepath.Join(root, "pets"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestFilesystemSinkKeepsUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	ctx := context.Background()
	path := filepath.Join(root, "pets", "pets.go")

	if err := s.WriteFile(ctx, "pets/pets.go", []byte("package pets\n")); err != nil {
		t.Fatal(err)
	}
	stamp := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "pets/pets.go", []byte("package pets\n")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Errorf("unchanged file was rewritten: mtime %v, expected %v", info.ModTime(), stamp)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, expected 0644", info.Mode().Perm())
	}
}

func TestFilesystemSinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewFilesystemSink(t.TempDir()).WriteFile(ctx, "a.go", nil); err == nil {
		t.Error("expected context error")
	}
}

func TestMemorySinkConcurrent(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()
	var wg sync.WaitGroup
	for _, name := range []string{"c.go", "a.go", "b.go"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := s.WriteFile(ctx, name, []byte(name)); err != nil {
				t.Error(err)
			}
		}(name)
	}
	wg.Wait()

	paths := s.Paths()
	if strings.Join(paths, ",") != "a.go,b.go,c.go" {
		t.Errorf("Paths() = %v", paths)
	}
	content := s.Get("a.go")
	content[0] = 'x'
	if string(s.Get("a.go")) != "a.go" {
		t.Error("Get must return a copy")
	}
	if s.Get("missing.go") != nil {
		t.Error("Get of an unwritten path should be nil")
	}
}
