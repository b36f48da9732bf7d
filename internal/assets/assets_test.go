package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePart creates {dir}/ooxml/{name}.xml.
func writePart(t *testing.T, dir, name, content string) {
	t.Helper()
	partDir := filepath.Join(dir, "ooxml")
	if err := os.MkdirAll(partDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(partDir, name+".xml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader - Built-in parts
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadPart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		part     string
		contains string
		wantErr  error
	}{
		{
			name:     "content types",
			part:     PartContentTypes,
			contains: "wordprocessingml.document.main+xml",
		},
		{
			name:     "package relationships",
			part:     PartRels,
			contains: "word/document.xml",
		},
		{
			name:     "document body",
			part:     PartDocument,
			contains: "{{range .Images}}",
		},
		{
			name:     "document relationships",
			part:     PartDocumentRels,
			contains: "media/{{.File}}",
		},
		{
			name:     "core properties",
			part:     PartCoreProps,
			contains: "dc:title",
		},
		{
			name:    "unknown part",
			part:    "styles",
			wantErr: ErrPartNotFound,
		},
		{
			name:    "traversal",
			part:    "../document",
			wantErr: ErrInvalidAssetName,
		},
	}

	loader := NewEmbeddedLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadPart(tt.part)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadPart(%q) error = %v, want %v", tt.part, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadPart(%q): %v", tt.part, err)
			}
			if !strings.Contains(strings.ReplaceAll(got, "{{- range", "{{range"), tt.contains) {
				t.Errorf("LoadPart(%q) missing %q", tt.part, tt.contains)
			}
		})
	}
}

func TestLoadPartSet(t *testing.T) {
	t.Parallel()

	set, err := LoadPartSet()
	if err != nil {
		t.Fatalf("LoadPartSet: %v", err)
	}
	for name, content := range map[string]string{
		PartContentTypes: set.ContentTypes,
		PartRels:         set.Rels,
		PartDocument:     set.Document,
		PartDocumentRels: set.DocumentRels,
		PartCoreProps:    set.CoreProps,
	} {
		if !strings.HasPrefix(content, "<?xml") {
			t.Errorf("part %s does not start with an XML declaration", name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader - Custom directory
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(""); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nope")
		if _, err := NewFilesystemLoader(dir); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewFilesystemLoader(path); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadPart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePart(t, dir, PartCoreProps, "<?xml custom core?>")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader: %v", err)
	}

	got, err := loader.LoadPart(PartCoreProps)
	if err != nil {
		t.Fatalf("LoadPart: %v", err)
	}
	if got != "<?xml custom core?>" {
		t.Errorf("LoadPart = %q, want custom content", got)
	}

	if _, err := loader.LoadPart(PartDocument); !errors.Is(err, ErrPartNotFound) {
		t.Errorf("missing part error = %v, want ErrPartNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.xml"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "ooxml"), 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "ooxml", PartDocument+".xml")
	if err := os.Symlink(filepath.Join(outside, "secret.xml"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader: %v", err)
	}
	if _, err := loader.LoadPart(PartDocument); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadPart via symlink error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestAssetResolver - Custom-first fallback
// ---------------------------------------------------------------------------

func TestAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver: %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true, want false")
		}
		if _, err := r.LoadPartSet(); err != nil {
			t.Errorf("LoadPartSet: %v", err)
		}
	})

	t.Run("custom part overrides, others fall back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writePart(t, dir, PartCoreProps, "<?xml custom?>")

		r, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatalf("NewAssetResolver: %v", err)
		}
		if !r.HasCustomLoader() {
			t.Error("HasCustomLoader() = false, want true")
		}
		set, err := r.LoadPartSet()
		if err != nil {
			t.Fatalf("LoadPartSet: %v", err)
		}
		if set.CoreProps != "<?xml custom?>" {
			t.Errorf("CoreProps = %q, want custom override", set.CoreProps)
		}
		embedded, _ := LoadPart(PartDocument)
		if set.Document != embedded {
			t.Error("Document should fall back to the embedded part")
		}
	})

	t.Run("invalid name is not masked by fallback", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver: %v", err)
		}
		if _, err := r.LoadPart("a/b"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("invalid custom path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewAssetResolver(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}
