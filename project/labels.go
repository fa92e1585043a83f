package project

import (
	"go.uber.org/zap"
)

const EmptyElementLabel = "Empty Element"

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// ActionLabel is displayable name of the element used when a connection
// leading to it has no label: plain title, then plain content cut to max
// runes.
func ActionLabel(e *Element, max int) string {
	switch {
	case e == nil:
		return EmptyElementLabel
	case e.Title.Plain != "":
		return truncate(e.Title.Plain, max)
	case e.Content.Plain != "":
		return truncate(e.Content.Plain, max)
	default:
		return EmptyElementLabel
	}
}

// ChoiceLabel returns label of connection cut to max runes or, when it has
// none, label of the element it leads to.
func (p *Project) ChoiceLabel(ci, max int) string {
	c := p.ConnectionAt(ci)
	if c == nil {
		return EmptyElementLabel
	}
	if c.Label.Plain != "" {
		return truncate(c.Label.Plain, max)
	}
	if ei, ok := p.Target(c); ok {
		return ActionLabel(&p.Elements[ei], max)
	}
	return EmptyElementLabel
}

// GoBack walks backwards along first incoming connections until it crosses
// labeled one and returns element that connection starts from: the closest
// preceding choice point.
func (p *Project) GoBack(e *Element, log *zap.Logger) (int, bool) {
	if e == nil || len(e.In) == 0 {
		log.Warn("Cannot go back, element has no incoming connections")
		return -1, false
	}

	seen := make(map[int]bool)
	cur := e
	for len(cur.In) > 0 {
		c := &p.Connections[cur.In[0]]
		if c.Label.Plain != "" {
			return c.From, true
		}
		if seen[c.From] {
			break
		}
		seen[c.From] = true
		cur = &p.Elements[c.From]
	}
	log.Warn("Cannot go back, no labeled connection found", zap.String("element", e.ID))
	return -1, false
}
