package catalog

import "github.com/adsarees/storefront/internal/domain"

const (
	InitialVisible   = 9
	VisibleIncrement = 6
)

// Window is the running visible count of the catalog grid. It grows by
// VisibleIncrement on each LoadMore and is not reset when the filter changes.
type Window struct {
	Visible int `json:"visible"`
}

func NewWindow() *Window {
	return &Window{Visible: InitialVisible}
}

// WindowOf restores a window from a client supplied count, values below the
// initial size are raised to it
func WindowOf(visible int) *Window {
	if visible < InitialVisible {
		visible = InitialVisible
	}
	return &Window{Visible: visible}
}

// LoadMore grows the window and returns the new count
func (w *Window) LoadMore() int {
	w.Visible += VisibleIncrement
	return w.Visible
}

// HasMore reports whether total results exceed the visible count
func (w *Window) HasMore(total int) bool {
	return total > w.Visible
}

// Slice truncates items to the visible count
func (w *Window) Slice(items []domain.Product) []domain.Product {
	if len(items) <= w.Visible {
		return items
	}
	return items[:w.Visible]
}


// PageBounds returns the [start, end) slice bounds of a 1-based page over n
// items. Pages past the end, including ones whose offset would overflow, are
// empty.
func PageBounds(n, page, pageSize int) (int, int) {
	if pageSize < 1 || page < 1 {
		return 0, 0
	}
	if page-1 >= (n+pageSize-1)/pageSize {
		return n, n
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
