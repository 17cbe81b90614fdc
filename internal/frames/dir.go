package frames

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nfnt/resize"
)

// ImageExtensions lists the still-image formats DirSource decodes.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// DirSource reads a directory of still images, one file per frame, ordered by file name.
type DirSource struct {
	dir   string
	files []string

	// ResizeWidth downsizes every frame to this width (aspect preserved) before
	// it is handed out. Zero keeps the original size.
	ResizeWidth uint
}

// NewDirSource lists the image files under dir.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return &DirSource{dir: dir, files: files}, nil
}

func (d *DirSource) FrameCount(ctx context.Context) (int, error) {
	return len(d.files), nil
}

func (d *DirSource) Stream(ctx context.Context, start, end int, fn func(index int, f Frame) error) error {
	if start < 0 {
		start = 0
	}
	for i := start; i < end && i < len(d.files); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := d.load(d.files[i])
		if err != nil {
			return err
		}
		if err := fn(i, frame); err != nil {
			return err
		}
	}
	return nil
}

func (d *DirSource) load(path string) (Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	if d.ResizeWidth > 0 && uint(img.Bounds().Dx()) > d.ResizeWidth {
		img = resize.Resize(d.ResizeWidth, 0, img, resize.Bilinear)
	}

	return FromImage(img), nil
}

func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range ImageExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
