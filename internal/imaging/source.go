package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Source is the boundary to raster image storage.
//
// Production code uses FileSource; tests substitute MemorySource to run the
// detection pipeline without touching disk.
type Source interface {
	// Load decodes the image at path.
	Load(path string) (image.Image, error)

	// Save encodes img to path; the format is derived from the extension.
	Save(path string, img image.Image) error
}

// FileSource loads and saves images on the local filesystem. It supports the
// formats the imaging library registers (PNG, JPEG, GIF, TIFF, BMP).
type FileSource struct{}

// Load decodes the image at path.
func (FileSource) Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, choosing the format from the file extension.
func (FileSource) Save(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// MemorySource is an in-memory Source for tests.
//
// Load serves from Images; Save records into Saved. Either operation can be
// forced to fail via LoadErr/SaveErr to exercise degradation paths.
type MemorySource struct {
	Images  map[string]image.Image
	Saved   map[string]image.Image
	LoadErr error
	SaveErr error
}

// NewMemorySource returns an empty MemorySource ready for use.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		Images: make(map[string]image.Image),
		Saved:  make(map[string]image.Image),
	}
}

// Load returns the registered image or an error if absent.
func (m *MemorySource) Load(path string) (image.Image, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	img, ok := m.Images[path]
	if !ok {
		return nil, fmt.Errorf("no image registered at %s", path)
	}
	return img, nil
}

// Save records the image under path.
func (m *MemorySource) Save(path string, img image.Image) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.Saved == nil {
		m.Saved = make(map[string]image.Image)
	}
	m.Saved[path] = img
	return nil
}
