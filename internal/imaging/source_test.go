package imaging

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"
)

func TestFileSource_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	src := FileSource{}

	want := rectImage(20, 20)
	if err := src.Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := src.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 20 {
		t.Errorf("dimensions: got %v, want 20x20", got.Bounds())
	}
}

func TestFileSource_LoadMissing(t *testing.T) {
	if _, err := (FileSource{}).Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource()
	img := fillImage(5, 5, color.NRGBA{1, 2, 3, 255})
	src.Images["a.png"] = img

	got, err := src.Load("a.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != img {
		t.Error("Load returned a different image")
	}

	if _, err := src.Load("b.png"); err == nil {
		t.Error("Load of an unregistered path succeeded")
	}

	if err := src.Save("out.png", img); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if src.Saved["out.png"] != img {
		t.Error("Save did not record the image")
	}
}

func TestMemorySource_ForcedErrors(t *testing.T) {
	src := NewMemorySource()
	src.Images["a.png"] = fillImage(2, 2, color.NRGBA{})
	src.LoadErr = errors.New("load boom")
	src.SaveErr = errors.New("save boom")

	if _, err := src.Load("a.png"); err == nil {
		t.Error("forced LoadErr not returned")
	}
	if err := src.Save("x.png", nil); err == nil {
		t.Error("forced SaveErr not returned")
	}
}
