package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestStorageSaveAndDelete(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	path, err := storage.Save([]byte("content"), "doc.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "doc.pdf" {
		t.Errorf("expected doc.pdf, got %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("saved content = %q", data)
	}

	if err := storage.Delete(path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Delete")
	}

	// Deleting a missing file is not an error.
	if err := storage.Delete(path); err != nil {
		t.Errorf("Delete of missing file: %v", err)
	}
}

func TestStorageSaveCollisionRename(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	first, err := storage.Save([]byte("one"), "doc.pdf")
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := storage.Save([]byte("two"), "doc.pdf")
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	if first == second {
		t.Fatalf("collision not renamed: both saved as %s", first)
	}

	base := filepath.Base(second)
	if !strings.HasPrefix(base, "doc_") || !strings.HasSuffix(base, ".pdf") {
		t.Errorf("renamed file = %s, want doc_{suffix}.pdf", base)
	}
	if len(base) != len("doc_")+8+len(".pdf") {
		t.Errorf("suffix length wrong in %s", base)
	}

	// Both originals remain on disk.
	for _, p := range []string{first, second} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing saved file %s: %v", p, err)
		}
	}
}

func TestStorageSaveConcurrentSameName(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	const n = 16
	paths := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = storage.Save([]byte(strconv.Itoa(i)), "doc.pdf")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Save %d: %v", i, errs[i])
		}
		if seen[paths[i]] {
			t.Fatalf("two saves landed on the same path %s", paths[i])
		}
		seen[paths[i]] = true

		// Each file holds exactly the content of the save that created it.
		data, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatalf("reading %s: %v", paths[i], err)
		}
		if string(data) != strconv.Itoa(i) {
			t.Errorf("file %s holds %q, want %q", paths[i], data, strconv.Itoa(i))
		}
	}
}

func TestStorageSaveStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	path, err := storage.Save([]byte("x"), "../../etc/evil.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("saved outside upload dir: %s", path)
	}
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a.pdf")
	if err := os.WriteFile(path, []byte("plain text, no PDF structure"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewProcessor().ExtractText(path)
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
}
