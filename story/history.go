package story

// History is back stack of visited element ids.
type History struct {
	depth int
	ids   []string
}

// NewHistory creates history keeping at most depth entries, zero means no
// limit.
func NewHistory(depth int) *History {
	return &History{depth: depth}
}

// Push remembers element, repeated visits of the same element are collapsed.
func (h *History) Push(id string) {
	if n := len(h.ids); n > 0 && h.ids[n-1] == id {
		return
	}
	h.ids = append(h.ids, id)
	if h.depth > 0 && len(h.ids) > h.depth {
		h.ids = append(h.ids[:0], h.ids[len(h.ids)-h.depth:]...)
	}
}

// Back drops current element and returns the one visited before it.
func (h *History) Back() (string, bool) {
	if len(h.ids) < 2 {
		return "", false
	}
	h.ids = h.ids[:len(h.ids)-1]
	return h.ids[len(h.ids)-1], true
}

func (h *History) Len() int {
	return len(h.ids)
}

func (h *History) Clear() {
	h.ids = h.ids[:0]
}
