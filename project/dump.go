package project

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"arcrun/utils/debug"
)

func sortedKeys(m map[string]int) []string {
	keys := slices.Collect(maps.Keys(m))
	sort.Sort(natural.StringSlice(keys))
	return keys
}

func (p *Project) ids(conns []int) []string {
	out := make([]string, 0, len(conns))
	for _, ci := range conns {
		out = append(out, p.Connections[ci].ID)
	}
	return out
}

func (p *Project) elementIDs(elements []int) []string {
	out := make([]string, 0, len(elements))
	for _, ei := range elements {
		out = append(out, p.Elements[ei].ID)
	}
	return out
}

func (p *Project) addressString(a Address) string {
	switch {
	case a.Element >= 0:
		return p.Elements[a.Element].ID
	case a.Board >= 0:
		return "board:" + p.Boards[a.Board].EntryID()
	default:
		return "-"
	}
}

// String returns a readable tree of the whole relinked project. It exists
// solely for manual inspection and debug reports.
func (p *Project) String() string {
	if p == nil {
		return "<nil Project>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Project %q", p.Name)
	if b := p.BoardAt(p.StartingBoard); b != nil {
		tw.Line(1, "Starting board: %q", b.ID)
	}
	if p.StartingElement != "" {
		tw.Line(1, "Starting element: %q", p.StartingElement)
	}
	tw.Line(1, "Root policy: %s", p.RootPolicy)

	tw.Line(0, "Boards (%d entries)", len(p.idx.boards))
	for _, k := range sortedKeys(p.idx.boards) {
		switch b := p.Boards[p.idx.boards[k]].(type) {
		case *Board:
			tw.Line(1, "Board[%q] name[%q] root[%q] pinned[%t]", b.ID, b.Name, b.RootID, b.Pinned)
			tw.List(2, "elements", p.elementIDs(b.Elements))
			tw.List(2, "candidates", p.elementIDs(b.Candidates))
			if len(b.Entries) > 0 {
				tw.List(2, "entries", p.ids(b.Entries))
			}
			if len(b.Notes) > 0 {
				notes := make([]string, 0, len(b.Notes))
				for _, ni := range b.Notes {
					notes = append(notes, p.Notes[ni].ID)
				}
				tw.SortedList(2, "notes", notes)
			}
		case *BoardFolder:
			tw.Line(1, "Folder[%q] name[%q] root[%t]", b.ID, b.Name, b.Root)
			tw.List(2, "children", b.Children)
		}
	}

	tw.Line(0, "Elements (%d entries)", len(p.idx.elements))
	for _, k := range sortedKeys(p.idx.elements) {
		e := &p.Elements[p.idx.elements[k]]
		board := "-"
		if e.Board >= 0 {
			board = p.Boards[e.Board].EntryID()
		}
		tw.Line(1, "Element[%q] board[%q]", e.ID, board)
		tw.TextBlock(2, "title", e.Title.Plain)
		tw.TextBlock(2, "content", e.Content.Plain)
		tw.TextBlock(2, "linked board", e.LinkedBoard)
		if e.Cover != nil {
			tw.Line(2, "cover: %q %s %dx%d", e.Cover.Path, e.Cover.MIME, e.Cover.Width, e.Cover.Height)
		}
		if len(e.Components) > 0 {
			comps := make([]string, 0, len(e.Components))
			for _, ci := range e.Components {
				comps = append(comps, p.Components[ci].EntryID())
			}
			tw.List(2, "components", comps)
		}
		tw.List(2, "out", p.ids(e.Out))
		tw.SortedList(2, "in", p.ids(e.In))
	}

	tw.Line(0, "Connections (%d entries)", len(p.idx.connections))
	for _, k := range sortedKeys(p.idx.connections) {
		c := &p.Connections[p.idx.connections[k]]
		if !c.Linked {
			tw.Line(1, "Connection[%q] %q -> %q excluded", c.ID, c.SourceID, c.TargetID)
			continue
		}
		tw.Line(1, "Connection[%q] %s -> %s", c.ID, p.Elements[c.From].ID, p.addressString(c.To))
		tw.TextBlock(2, "label", c.Label.Plain)
	}

	if len(p.idx.jumpers) > 0 {
		tw.Line(0, "Jumpers (%d entries)", len(p.idx.jumpers))
		for _, k := range sortedKeys(p.idx.jumpers) {
			j := &p.Jumpers[p.idx.jumpers[k]]
			tw.Line(1, "Jumper[%q] board[%q] element[%q]", j.ID, j.BoardID, j.ElementID)
		}
	}

	if len(p.idx.components) > 0 {
		tw.Line(0, "Components (%d entries)", len(p.idx.components))
		for _, k := range sortedKeys(p.idx.components) {
			switch c := p.Components[p.idx.components[k]].(type) {
			case *Component:
				tw.Line(1, "Component[%q] name[%q]", c.ID, c.Name)
				attrs := make([]string, 0, len(c.Attributes))
				for _, ai := range c.Attributes {
					attrs = append(attrs, p.Attributes[ai].ID)
				}
				tw.List(2, "attributes", attrs)
			case *ComponentFolder:
				tw.Line(1, "Folder[%q] name[%q]", c.ID, c.Name)
				tw.List(2, "children", c.Children)
			}
		}
	}

	if len(p.idx.attributes) > 0 {
		tw.Line(0, "Attributes (%d entries)", len(p.idx.attributes))
		for _, k := range sortedKeys(p.idx.attributes) {
			a := &p.Attributes[p.idx.attributes[k]]
			tw.Line(1, "Attribute[%q]", a.ID)
			tw.TextBlock(2, "label", a.Label.Plain)
			tw.TextBlock(2, "content", a.Content.Plain)
		}
	}

	if len(p.idx.assets) > 0 {
		tw.Line(0, "Assets (%d entries)", len(p.idx.assets))
		for _, k := range sortedKeys(p.idx.assets) {
			switch a := p.Assets[p.idx.assets[k]].(type) {
			case *Asset:
				tw.Line(1, "Asset[%q] name[%q] kind[%s]", a.ID, a.Name, a.Kind)
			case *AssetFolder:
				tw.Line(1, "Folder[%q] name[%q]", a.ID, a.Name)
				tw.List(2, "children", a.Children)
			}
		}
	}

	if len(p.idx.notes) > 0 {
		tw.Line(0, "Notes (%d entries)", len(p.idx.notes))
		for _, k := range sortedKeys(p.idx.notes) {
			n := &p.Notes[p.idx.notes[k]]
			tw.Line(1, "Note[%q]", n.ID)
			tw.TextBlock(2, "content", n.Content.Plain)
		}
	}

	return tw.String()
}
