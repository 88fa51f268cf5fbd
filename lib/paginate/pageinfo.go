package paginate

// PageInfo carries offset/limit paging metadata for a backend list.
type PageInfo struct {
	Offset  int // first item of the page
	Limit   int // items per page
	Count   int // total items reported by the backend
	HasNext bool
}

// NewPageInfo clamps offset and limit into a valid page: Limit is at least
// 1 and Offset is a non-negative multiple of it.
func NewPageInfo(offset, limit, count int, hasNext bool) PageInfo {
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	offset -= offset % limit
	if count < 0 {
		count = 0
	}
	return PageInfo{Offset: offset, Limit: limit, Count: count, HasNext: hasNext}
}

// Page returns the 1-indexed page number. A zero PageInfo is page 1.
func (p PageInfo) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// TotalPages returns ceil(Count / Limit), at least 1.
func (p PageInfo) TotalPages() int {
	if p.Limit <= 0 {
		return 1
	}
	total := (p.Count + p.Limit - 1) / p.Limit
	if total < 1 {
		return 1
	}
	return total
}

// NextOffset returns the offset of the following page. Only meaningful
// when HasNext is set.
func (p PageInfo) NextOffset() int {
	return p.Offset + p.Limit
}

// Shown returns how many items pages up to and including this one hold.
func (p PageInfo) Shown() int {
	return min(p.Offset+p.Limit, p.Count)
}
