package gallery

// Thumbnail is one entry of the thumbnail strip.
type Thumbnail struct {
	Index  int
	Src    string
	Alt    string
	Active bool
}

// View is an immutable snapshot of what the widget renders.
type View struct {
	PlaceholderVisible bool
	HasImage           bool
	NavigationEnabled  bool
	Current            int
	FrameSrc           string
	FrameAlt           string
	Thumbnails         []Thumbnail

	ModalOpen bool
	ModalSrc  string
	ModalAlt  string
	Focused   string

	Rotating       bool
	UserInteracted bool
}

// View returns the current render state.
func (g *Gallery) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := View{
		PlaceholderVisible: len(g.images) == 0,
		Focused:            g.focused,
		Rotating:           g.rotating,
		UserInteracted:     g.userInteracted,
	}
	if len(g.images) == 0 || !g.initialized {
		return v
	}

	v.HasImage = true
	v.NavigationEnabled = true
	v.Current = g.current
	v.FrameSrc = g.srcLocked(g.current)
	v.FrameAlt = ImageAlt(g.current)

	v.Thumbnails = make([]Thumbnail, len(g.images))
	for i := range g.images {
		v.Thumbnails[i] = Thumbnail{
			Index:  i,
			Src:    g.srcLocked(i),
			Alt:    ThumbnailAlt(i),
			Active: i == g.current,
		}
	}

	if g.modalOpen {
		v.ModalOpen = true
		v.ModalSrc = v.FrameSrc
		v.ModalAlt = v.FrameAlt
	}
	return v
}
