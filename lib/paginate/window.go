// Package paginate derives the visible slice of a list.
//
// Window is the position of a fixed-size page over a collection. The
// carousel advances it cyclically with a Slider; offset/limit lists page
// through the backend with PageInfo.
package paginate

// Window is a page of PageSize items at page Index over Size items.
//
// A Window built with NewWindow or updated with Resize always satisfies
// 0 <= Index < TotalPages, or Index == 0 when TotalPages is 0.
type Window struct {
	PageSize int
	Index    int
	Size     int
}

// NewWindow returns a window at the first page.
func NewWindow(size, pageSize int) Window {
	w := Window{}
	w.Resize(size, pageSize)
	return w
}

// TotalPages is ceil(Size / PageSize), or 0 for an empty collection.
func (w Window) TotalPages() int {
	if w.PageSize <= 0 || w.Size <= 0 {
		return 0
	}
	return (w.Size + w.PageSize - 1) / w.PageSize
}

// Empty reports whether there is nothing to show.
func (w Window) Empty() bool { return w.TotalPages() == 0 }

// Resize applies a new collection size and page size, keeping Index in
// range. A shrinking collection moves the window to its last page.
func (w *Window) Resize(size, pageSize int) {
	if size < 0 {
		size = 0
	}
	if pageSize < 0 {
		pageSize = 0
	}
	w.Size, w.PageSize = size, pageSize

	total := w.TotalPages()
	switch {
	case total == 0:
		w.Index = 0
	case w.Index >= total:
		w.Index = total - 1
	case w.Index < 0:
		w.Index = 0
	}
}

// Next advances to the following page, wrapping to the first.
func (w *Window) Next() {
	total := w.TotalPages()
	if total == 0 {
		return
	}
	w.Index = (w.Index + 1) % total
}

// Bounds returns the half-open item range [lo, hi) of the current page.
func (w Window) Bounds() (lo, hi int) {
	if w.Empty() || w.Index < 0 {
		return 0, 0
	}
	lo = w.Index * w.PageSize
	if lo >= w.Size {
		return 0, 0
	}
	return lo, min(lo+w.PageSize, w.Size)
}

// Visible returns items[index*pageSize : min(len, index*pageSize+pageSize)].
// Out-of-range input yields an empty slice.
func Visible[T any](items []T, pageSize, index int) []T {
	if pageSize <= 0 || index < 0 {
		return nil
	}
	lo := index * pageSize
	if lo >= len(items) {
		return nil
	}
	return items[lo:min(lo+pageSize, len(items))]
}

// Page returns the items of w's current page.
func Page[T any](items []T, w Window) []T {
	return Visible(items, w.PageSize, w.Index)
}

// Breakpoints are viewport widths in CSS pixels.
type Breakpoints struct {
	Tablet int // widths at or below this are tablet-sized
}

// DefaultBreakpoints matches the stylesheet's tablet media query.
var DefaultBreakpoints = Breakpoints{Tablet: 1199}

// Items per page of the notice carousel.
const (
	TabletPageSize  = 2
	DesktopPageSize = 3
)

// PageSizeFor picks the carousel page size for a viewport width. Widths
// of 0 or below are unknown and treated as desktop.
func PageSizeFor(width int, bp Breakpoints) int {
	if width > 0 && width <= bp.Tablet {
		return TabletPageSize
	}
	return DesktopPageSize
}
