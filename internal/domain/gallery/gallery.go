// Package gallery models the work gallery widget: a frame showing the
// current image, a strip of thumbnails, a lightbox modal and an autoplay
// timer that stops for good once the visitor takes control.
package gallery

import (
	"fmt"
	"strings"
	"sync"
)

const (
	DefaultBasePath  = "assets/images/"
	DefaultMaxImages = 40

	// FocusCloseButton is the element focused while the modal is open.
	FocusCloseButton = "modal-close"
)

// Autoplay drives periodic ticks. Start must replace any running schedule.
type Autoplay interface {
	Start(tick func())
	Stop()
}

// Options configure a Gallery.
type Options struct {
	BasePath  string
	Autoplay  Autoplay
	MaxImages int
}

// Gallery holds the widget state. All methods are safe for concurrent use;
// autoplay ticks and visitor events are serialized.
type Gallery struct {
	mu sync.Mutex

	images   []string
	basePath string
	autoplay Autoplay

	current        int
	initialized    bool
	rotating       bool
	userInteracted bool

	modalOpen    bool
	focused      string
	restoreFocus string
}

// New builds a gallery over images. Entries beyond opts.MaxImages are dropped.
func New(images []string, opts Options) *Gallery {
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	if opts.MaxImages <= 0 {
		opts.MaxImages = DefaultMaxImages
	}
	if len(images) > opts.MaxImages {
		images = images[:opts.MaxImages]
	}
	if !strings.HasSuffix(opts.BasePath, "/") {
		opts.BasePath += "/"
	}

	return &Gallery{
		images:   append([]string(nil), images...),
		basePath: opts.BasePath,
		autoplay: opts.Autoplay,
	}
}

// Len returns the number of images.
func (g *Gallery) Len() int {
	return len(g.images)
}

// Initialize renders the first image and starts autoplay. With no images the
// placeholder stays visible and nothing is scheduled.
func (g *Gallery) Initialize() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.initialized = true
	g.current = 0
	if len(g.images) == 0 {
		return
	}
	g.startAutoplayLocked()
}

// Navigate moves by direction, wrapping at both ends. It does not count as
// visitor interaction; autoplay uses it too.
func (g *Gallery) Navigate(direction int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.navigateLocked(direction)
}

func (g *Gallery) navigateLocked(direction int) {
	n := len(g.images)
	if n == 0 {
		return
	}
	g.current = ((g.current+direction)%n + n) % n
}

// Prev is the previous-button action.
func (g *Gallery) Prev() { g.step(-1) }

// Next is the next-button action.
func (g *Gallery) Next() { g.step(1) }

func (g *Gallery) step(direction int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.images) == 0 {
		return
	}
	g.latchLocked()
	g.navigateLocked(direction)
}

// SelectThumbnail jumps to index. Out-of-range indices are ignored.
func (g *Gallery) SelectThumbnail(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index < 0 || index >= len(g.images) {
		return
	}
	g.latchLocked()
	g.current = index
}

// HoverEnter pauses autoplay while the pointer is over the frame.
func (g *Gallery) HoverEnter() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopAutoplayLocked()
}

// HoverLeave resumes autoplay unless the visitor has already interacted.
func (g *Gallery) HoverLeave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.userInteracted || len(g.images) == 0 || !g.initialized {
		return
	}
	g.startAutoplayLocked()
}

// Focus records which element currently has keyboard focus.
func (g *Gallery) Focus(element string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.focused = element
}

// OpenModal shows the current image in the lightbox and moves focus to the
// close control, remembering focused for CloseModal.
func (g *Gallery) OpenModal(focused string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.images) == 0 {
		return
	}
	g.latchLocked()
	if !g.modalOpen {
		g.restoreFocus = focused
	}
	g.modalOpen = true
	g.focused = FocusCloseButton
}

// CloseModal hides the lightbox and returns the element that got focus back.
func (g *Gallery) CloseModal() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closeModalLocked()
}

func (g *Gallery) closeModalLocked() string {
	if !g.modalOpen {
		return ""
	}
	g.modalOpen = false
	g.focused = g.restoreFocus
	g.restoreFocus = ""
	return g.focused
}

// ModalPrev steps back while the modal is open.
func (g *Gallery) ModalPrev() { g.modalStep(-1) }

// ModalNext steps forward while the modal is open.
func (g *Gallery) ModalNext() { g.modalStep(1) }

func (g *Gallery) modalStep(direction int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.modalOpen {
		return
	}
	g.navigateLocked(direction)
}

// Keys understood by KeyDown.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEscape     = "Escape"
)

// KeyDown handles document key presses. Keys are ignored while the modal is
// closed.
func (g *Gallery) KeyDown(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.modalOpen {
		return
	}
	switch key {
	case KeyArrowLeft:
		g.navigateLocked(-1)
	case KeyArrowRight:
		g.navigateLocked(1)
	case KeyEscape:
		g.closeModalLocked()
	}
}

// BackdropClick closes the modal when the click landed on the backdrop
// itself rather than on the image or controls.
func (g *Gallery) BackdropClick(onBackdrop bool) {
	if !onBackdrop {
		return
	}
	g.CloseModal()
}

// Tick is the autoplay callback.
func (g *Gallery) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.rotating {
		return
	}
	g.navigateLocked(1)
}

func (g *Gallery) latchLocked() {
	g.userInteracted = true
	g.stopAutoplayLocked()
}

func (g *Gallery) startAutoplayLocked() {
	g.rotating = true
	if g.autoplay != nil {
		g.autoplay.Start(g.Tick)
	}
}

func (g *Gallery) stopAutoplayLocked() {
	if !g.rotating {
		return
	}
	g.rotating = false
	if g.autoplay != nil {
		g.autoplay.Stop()
	}
}

func (g *Gallery) srcLocked(i int) string {
	return g.basePath + g.images[i]
}

// ThumbnailAlt is the alt text of the thumbnail at index i.
func ThumbnailAlt(i int) string {
	return fmt.Sprintf("Thumbnail %d", i+1)
}

// ImageAlt is the alt text of the frame and modal image at index i.
func ImageAlt(i int) string {
	return fmt.Sprintf("Work gallery image %d", i+1)
}
