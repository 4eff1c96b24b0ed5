package gallery

// EventType names a UI event the widget reacts to.
type EventType string

const (
	EventPrevClick      EventType = "prev-click"
	EventNextClick      EventType = "next-click"
	EventThumbnailClick EventType = "thumbnail-click"
	EventFrameEnter     EventType = "frame-mouseenter"
	EventFrameLeave     EventType = "frame-mouseleave"
	EventFrameClick     EventType = "frame-click"
	EventFrameKeyEnter  EventType = "frame-key-enter"
	EventModalClose     EventType = "modal-close-click"
	EventBackdropClick  EventType = "modal-backdrop-click"
	EventModalPrev      EventType = "modal-prev-click"
	EventModalNext      EventType = "modal-next-click"
	EventKeyDown        EventType = "document-keydown"
)

// Event carries the payload of a UI event. Only the fields relevant to its
// type are read.
type Event struct {
	Type EventType
	// Index is the thumbnail index for EventThumbnailClick.
	Index int
	// Key is the key name for EventKeyDown.
	Key string
	// Focused is the element focused when the event fired.
	Focused string
	// OnBackdrop is true when a backdrop click hit the backdrop itself.
	OnBackdrop bool
}

type handlerFunc func(g *Gallery, e Event)

var handlers = map[EventType]handlerFunc{
	EventPrevClick:      func(g *Gallery, _ Event) { g.Prev() },
	EventNextClick:      func(g *Gallery, _ Event) { g.Next() },
	EventThumbnailClick: func(g *Gallery, e Event) { g.SelectThumbnail(e.Index) },
	EventFrameEnter:     func(g *Gallery, _ Event) { g.HoverEnter() },
	EventFrameLeave:     func(g *Gallery, _ Event) { g.HoverLeave() },
	EventFrameClick:     func(g *Gallery, e Event) { g.OpenModal(e.Focused) },
	EventFrameKeyEnter:  func(g *Gallery, e Event) { g.OpenModal(e.Focused) },
	EventModalClose:     func(g *Gallery, _ Event) { g.CloseModal() },
	EventBackdropClick:  func(g *Gallery, e Event) { g.BackdropClick(e.OnBackdrop) },
	EventModalPrev:      func(g *Gallery, _ Event) { g.ModalPrev() },
	EventModalNext:      func(g *Gallery, _ Event) { g.ModalNext() },
	EventKeyDown:        func(g *Gallery, e Event) { g.KeyDown(e.Key) },
}

// Dispatcher routes UI events to a gallery through a fixed handler table.
type Dispatcher struct {
	gallery *Gallery
}

func NewDispatcher(g *Gallery) *Dispatcher {
	return &Dispatcher{gallery: g}
}

// Dispatch applies e and reports whether its type was recognised.
func (d *Dispatcher) Dispatch(e Event) bool {
	handler, ok := handlers[e.Type]
	if !ok {
		return false
	}
	handler(d.gallery, e)
	return true
}

// Events lists the event types the dispatcher handles.
func Events() []EventType {
	return []EventType{
		EventPrevClick, EventNextClick, EventThumbnailClick,
		EventFrameEnter, EventFrameLeave, EventFrameClick, EventFrameKeyEnter,
		EventModalClose, EventBackdropClick, EventModalPrev, EventModalNext,
		EventKeyDown,
	}
}
