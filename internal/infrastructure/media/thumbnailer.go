// Package media reads gallery images from disk and renders WebP thumbnails.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ErrNotImage is returned for files whose extension is not a gallery format.
var ErrNotImage = errors.New("not a supported image")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImageFile reports whether name has a gallery image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ImageFile is a gallery source image found on disk.
type ImageFile struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// ScanImages lists image files directly under dir, sorted by name and capped
// at max (max <= 0 means no cap). A missing directory yields no images.
func ScanImages(dir string, max int) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read image directory %s: %w", dir, err)
	}

	var files []ImageFile
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !IsImageFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ImageFile{Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	if max > 0 && len(files) > max {
		files = files[:max]
	}
	return files, nil
}

// Thumbnailer renders fixed-width WebP thumbnails and keeps them in memory,
// keyed by file name and modification time.
type Thumbnailer struct {
	width   int
	quality float32

	mu    sync.RWMutex
	cache map[string]cachedThumb
}

type cachedThumb struct {
	modTime time.Time
	data    []byte
}

func NewThumbnailer(width, quality int) *Thumbnailer {
	if width <= 0 {
		width = 300
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Thumbnailer{
		width:   width,
		quality: float32(quality),
		cache:   make(map[string]cachedThumb),
	}
}

// Thumbnail returns the WebP thumbnail for the image at path, rendering it
// when the cache has nothing for the file's current modification time.
func (t *Thumbnailer) Thumbnail(path string) ([]byte, error) {
	if !IsImageFile(path) {
		return nil, ErrNotImage
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	t.mu.RLock()
	cached, ok := t.cache[path]
	t.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.data, nil
	}

	data, err := t.Render(path)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.cache[path] = cachedThumb{modTime: info.ModTime(), data: data}
	t.mu.Unlock()

	return data, nil
}

// Render decodes the image at path and encodes a resized WebP copy. Images
// narrower than the thumbnail width keep their size.
func (t *Thumbnailer) Render(path string) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > t.width {
		img = imaging.Resize(img, t.width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: t.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode WebP thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// CacheLen returns the number of cached thumbnails.
func (t *Thumbnailer) CacheLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cache)
}
