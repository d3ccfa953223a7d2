package db

import (
	"context"
	"reflect"
	"testing"
)

func TestUploadRegistryRoundTrip(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	ctx := context.Background()

	if err := d.RecordUpload(ctx, "a.pdf", "/uploads/a.pdf", 100, 3); err != nil {
		t.Fatalf("RecordUpload: %v", err)
	}
	if err := d.RecordUpload(ctx, "b.pdf", "/uploads/b.pdf", 200, 5); err != nil {
		t.Fatalf("RecordUpload: %v", err)
	}
	// Re-upload of a.pdf lands under a renamed path.
	if err := d.RecordUpload(ctx, "a.pdf", "/uploads/a_1b2c3d4e.pdf", 100, 3); err != nil {
		t.Fatalf("RecordUpload: %v", err)
	}

	paths, err := d.StoredPaths(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("StoredPaths: %v", err)
	}
	want := []string{"/uploads/a.pdf", "/uploads/a_1b2c3d4e.pdf"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("StoredPaths = %v, want %v", paths, want)
	}

	filenames, err := d.Filenames(ctx)
	if err != nil {
		t.Fatalf("Filenames: %v", err)
	}
	if !reflect.DeepEqual(filenames, []string{"a.pdf", "b.pdf"}) {
		t.Errorf("Filenames = %v", filenames)
	}
}

func TestDeleteByFilename(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.RecordUpload(ctx, "a.pdf", "/uploads/a.pdf", 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := d.RecordUpload(ctx, "b.pdf", "/uploads/b.pdf", 1, 1); err != nil {
		t.Fatal(err)
	}

	if err := d.DeleteByFilename(ctx, "a.pdf"); err != nil {
		t.Fatalf("DeleteByFilename: %v", err)
	}

	paths, err := d.StoredPaths(ctx, "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Errorf("paths after delete = %v", paths)
	}

	// Other documents are untouched.
	filenames, err := d.Filenames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(filenames, []string{"b.pdf"}) {
		t.Errorf("Filenames = %v", filenames)
	}

	// Deleting an unknown filename is a no-op.
	if err := d.DeleteByFilename(ctx, "missing.pdf"); err != nil {
		t.Errorf("delete of unknown filename: %v", err)
	}
}

func TestReset(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.RecordUpload(ctx, "a.pdf", "/uploads/a.pdf", 1, 1); err != nil {
		t.Fatal(err)
	}

	if err := d.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	filenames, err := d.Filenames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(filenames) != 0 {
		t.Errorf("Filenames after reset = %v", filenames)
	}
}
