package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nasagas/website/internal/domain/gallery"
	"github.com/nasagas/website/internal/infrastructure/media"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/pkg/config"
)

// ErrImageNotFound is returned for names that are not in the gallery.
var ErrImageNotFound = errors.New("gallery image not found")

// GalleryConfig locates the gallery images and how they are published.
type GalleryConfig struct {
	Dir            string
	PublicPath     string
	ThumbPath      string
	MaxImages      int
	RotateInterval time.Duration
	ThumbWidth     int
	ThumbQuality   int
}

// NewGalleryConfig reads gallery settings from the already-initialized /pkg/config variables.
func NewGalleryConfig() GalleryConfig {
	return GalleryConfig{
		Dir:            config.GalleryDir,
		PublicPath:     publicPathFor(config.AssetsDir, config.GalleryDir),
		ThumbPath:      "/api/gallery/thumbs/",
		MaxImages:      config.GalleryMaxImages,
		RotateInterval: config.GalleryRotateInterval,
		ThumbWidth:     config.ThumbnailWidth,
		ThumbQuality:   config.ThumbnailQuality,
	}
}

// publicPathFor maps the gallery directory onto the /assets static route.
func publicPathFor(assetsDir, galleryDir string) string {
	rel, err := filepath.Rel(assetsDir, galleryDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return "/assets/images/"
	}
	if rel == "." {
		return "/assets/"
	}
	return path.Join("/assets", filepath.ToSlash(rel)) + "/"
}

// ManifestImage is one gallery entry as published to the front end.
type ManifestImage struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Thumb string `json:"thumb"`
}

// Manifest is the gallery contract consumed by the widget.
type Manifest struct {
	Images           []ManifestImage `json:"images"`
	RotateIntervalMs int64           `json:"rotateIntervalMs"`
}

// GalleryService publishes the work gallery.
type GalleryService struct {
	cfg         GalleryConfig
	thumbnailer *media.Thumbnailer
	logger      *logging.ChanneledLogger
}

// NewGalleryService creates the gallery service.
func NewGalleryService(cfg GalleryConfig, logger *logging.ChanneledLogger) *GalleryService {
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = gallery.DefaultMaxImages
	}
	if cfg.RotateInterval <= 0 {
		cfg.RotateInterval = gallery.DefaultRotateInterval
	}
	if cfg.PublicPath == "" {
		cfg.PublicPath = "/" + gallery.DefaultBasePath
	}
	logger.Gallery().Debug("Gallery service configured",
		slog.String("dir", cfg.Dir),
		slog.Int("maxImages", cfg.MaxImages),
		slog.Duration("rotateInterval", cfg.RotateInterval))
	return &GalleryService{
		cfg:         cfg,
		thumbnailer: media.NewThumbnailer(cfg.ThumbWidth, cfg.ThumbQuality),
		logger:      logger,
	}
}

// Manifest lists the gallery images. A missing directory gives an empty
// manifest so the widget shows its placeholder.
func (s *GalleryService) Manifest(ctx context.Context) (*Manifest, error) {
	files, err := media.ScanImages(s.cfg.Dir, s.cfg.MaxImages)
	if err != nil {
		return nil, fmt.Errorf("failed to scan gallery: %w", err)
	}

	manifest := &Manifest{
		Images:           make([]ManifestImage, 0, len(files)),
		RotateIntervalMs: s.cfg.RotateInterval.Milliseconds(),
	}
	for i, f := range files {
		manifest.Images = append(manifest.Images, ManifestImage{
			Index: i,
			Name:  f.Name,
			Src:   s.cfg.PublicPath + f.Name,
			Alt:   gallery.ImageAlt(i),
			Thumb: s.cfg.ThumbPath + f.Name,
		})
	}

	s.logger.WithContext(logging.ChannelGallery, ctx).Debug("Gallery manifest built",
		slog.Int("images", len(manifest.Images)))
	return manifest, nil
}

// Names returns the image names in gallery order.
func (s *GalleryService) Names(ctx context.Context) ([]string, error) {
	manifest, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(manifest.Images))
	for i, img := range manifest.Images {
		names[i] = img.Name
	}
	return names, nil
}

// Thumbnail renders the WebP thumbnail for a gallery image. Only names in
// the manifest are served.
func (s *GalleryService) Thumbnail(ctx context.Context, name string) ([]byte, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrImageNotFound
	}

	data, err := s.thumbnailer.Thumbnail(filepath.Join(s.cfg.Dir, name))
	if err != nil {
		s.logger.WithOperation(logging.ChannelGallery, "thumbnail").Error("Thumbnail render failed",
			slog.String("image", name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to render thumbnail for %s: %w", name, err)
	}
	return data, nil
}

// Widget builds an initialized gallery widget over the current images.
func (s *GalleryService) Widget(ctx context.Context, autoplay gallery.Autoplay) (*gallery.Gallery, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}
	g := gallery.New(names, gallery.Options{
		BasePath:  s.cfg.PublicPath,
		Autoplay:  autoplay,
		MaxImages: s.cfg.MaxImages,
	})
	g.Initialize()
	return g, nil
}
