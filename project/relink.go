package project

import (
	"go.uber.org/zap"
)

// Dangling is a single reference which could not be resolved during Relink.
type Dangling struct {
	Kind    string // what was referenced: "attribute", "component", "cover", "source", ...
	Owner   string // id of the entity holding the reference
	Missing string
}

// RelinkReport lists everything Relink warned about.
type RelinkReport struct {
	Dangling   []Dangling
	Duplicates []string
	// Orphans are elements no board lists, they are unreachable.
	Orphans []string
	// Ambiguous are boards with more than one root candidate.
	Ambiguous []string
	// Excluded are connections left out of adjacency lists.
	Excluded []string
}

func (r *RelinkReport) dangling(log *zap.Logger, kind, owner, missing string) {
	log.Warn("Dangling reference, skipping", zap.String("kind", kind), zap.String("owner", owner), zap.String("missing", missing))
	r.Dangling = append(r.Dangling, Dangling{Kind: kind, Owner: owner, Missing: missing})
}

// Relink rebuilds all derived state from flat tables. It never appends to
// previously derived lists so calling it repeatedly produces the same
// result.
func (p *Project) Relink(log *zap.Logger) *RelinkReport {
	rpt := &RelinkReport{}

	p.reindex(log, rpt)
	p.linkComponents(log, rpt)
	p.linkBoards(log, rpt)
	p.linkJumpers(log, rpt)
	p.linkConnections(log, rpt)
	p.linkRoots(log, rpt)

	if p.StartingBoard >= len(p.Boards) || (p.StartingBoard >= 0 && p.BoardAt(p.StartingBoard) == nil) {
		log.Warn("Starting board preference is not a board, ignoring", zap.Int("index", p.StartingBoard))
		p.StartingBoard = -1
	}
	return rpt
}

func buildIndex(log *zap.Logger, rpt *RelinkReport, kind string, n int, id func(int) string) map[string]int {
	index := make(map[string]int, n)
	for i := range n {
		key := id(i)
		if key == "" {
			log.Warn("Entity without id, skipping", zap.String("kind", kind), zap.Int("position", i))
			continue
		}
		if _, exists := index[key]; exists {
			log.Warn("Duplicate id detected, skipping", zap.String("kind", kind), zap.String("id", key))
			rpt.Duplicates = append(rpt.Duplicates, key)
			continue
		}
		index[key] = i
	}
	return index
}

func (p *Project) reindex(log *zap.Logger, rpt *RelinkReport) {
	p.idx = index{
		assets:      buildIndex(log, rpt, "asset", len(p.Assets), func(i int) string { return p.Assets[i].EntryID() }),
		attributes:  buildIndex(log, rpt, "attribute", len(p.Attributes), func(i int) string { return p.Attributes[i].ID }),
		components:  buildIndex(log, rpt, "component", len(p.Components), func(i int) string { return p.Components[i].EntryID() }),
		elements:    buildIndex(log, rpt, "element", len(p.Elements), func(i int) string { return p.Elements[i].ID }),
		connections: buildIndex(log, rpt, "connection", len(p.Connections), func(i int) string { return p.Connections[i].ID }),
		notes:       buildIndex(log, rpt, "note", len(p.Notes), func(i int) string { return p.Notes[i].ID }),
		boards:      buildIndex(log, rpt, "board", len(p.Boards), func(i int) string { return p.Boards[i].EntryID() }),
		jumpers:     buildIndex(log, rpt, "jumper", len(p.Jumpers), func(i int) string { return p.Jumpers[i].ID }),
	}
}

func (p *Project) cover(log *zap.Logger, rpt *RelinkReport, owner, id string) *Image {
	if id == "" {
		return nil
	}
	a := p.Asset(id)
	if a == nil {
		rpt.dangling(log, "cover", owner, id)
		return nil
	}
	return a.Image
}

func (p *Project) linkComponents(log *zap.Logger, rpt *RelinkReport) {
	for _, entry := range p.Components {
		c, ok := entry.(*Component)
		if !ok {
			continue
		}
		c.Attributes = nil
		for _, id := range c.AttributeIDs {
			if i, ok := p.idx.attributes[id]; ok {
				c.Attributes = append(c.Attributes, i)
			} else {
				rpt.dangling(log, "attribute", c.ID, id)
			}
		}
		c.Cover = p.cover(log, rpt, c.ID, c.CoverID)
	}

	for i := range p.Elements {
		e := &p.Elements[i]
		e.Components = nil
		for _, id := range e.ComponentIDs {
			if ci, ok := p.idx.components[id]; ok {
				if _, ok := p.Components[ci].(*Component); ok {
					e.Components = append(e.Components, ci)
					continue
				}
			}
			rpt.dangling(log, "component", e.ID, id)
		}
	}
}

// linkBoards sets element ownership. It has to run before connections are
// linked since endpoint addresses carry board index.
func (p *Project) linkBoards(log *zap.Logger, rpt *RelinkReport) {
	for i := range p.Elements {
		p.Elements[i].Board, p.Elements[i].Cover = -1, nil
	}

	for bi, entry := range p.Boards {
		b, ok := entry.(*Board)
		if !ok {
			continue
		}
		b.Notes, b.Elements, b.Candidates, b.Entries = nil, nil, nil, nil

		for _, id := range b.NoteIDs {
			if ni, ok := p.idx.notes[id]; ok {
				b.Notes = append(b.Notes, ni)
			} else {
				rpt.dangling(log, "note", b.ID, id)
			}
		}

		for _, id := range b.ElementIDs {
			ei, ok := p.idx.elements[id]
			if !ok {
				rpt.dangling(log, "element", b.ID, id)
				continue
			}
			e := &p.Elements[ei]
			switch e.Board {
			case -1:
				e.Board = bi
				e.Cover = p.cover(log, rpt, e.ID, e.CoverID)
				b.Elements = append(b.Elements, ei)
			case bi:
				log.Debug("Element listed twice by the same board, skipping", zap.String("board", b.ID), zap.String("element", id))
			default:
				log.Warn("Element already belongs to another board, skipping",
					zap.String("board", b.ID), zap.String("owner", p.Boards[e.Board].EntryID()), zap.String("element", id))
			}
		}
	}

	for i, e := range p.Elements {
		if e.Board < 0 && p.idx.elements[e.ID] == i {
			log.Warn("Element does not belong to any board, it is unreachable", zap.String("element", e.ID))
			rpt.Orphans = append(rpt.Orphans, e.ID)
		}
	}
}

func (p *Project) linkJumpers(log *zap.Logger, rpt *RelinkReport) {
	for _, entry := range p.Boards {
		b, ok := entry.(*Board)
		if !ok {
			continue
		}
		for _, id := range b.JumperIDs {
			j := p.Jumper(id)
			if j == nil {
				rpt.dangling(log, "jumper", b.ID, id)
				continue
			}
			if j.BoardID != b.ID {
				log.Warn("Jumper is listed by board it does not point to", zap.String("jumper", id),
					zap.String("board", b.ID), zap.String("target", j.BoardID))
			}
		}
	}

	for i := range p.Jumpers {
		j := &p.Jumpers[i]
		if p.BoardIndex(j.BoardID) < 0 {
			rpt.dangling(log, "board", j.ID, j.BoardID)
		}
		if j.ElementID == "" {
			continue
		}
		e := p.Element(j.ElementID)
		if e == nil {
			rpt.dangling(log, "element", j.ID, j.ElementID)
			continue
		}
		if bi := p.BoardIndex(j.BoardID); bi >= 0 && e.Board >= 0 && e.Board != bi {
			log.Debug("Jumper leads to element of another board",
				zap.String("jumper", j.ID), zap.String("board", j.BoardID), zap.String("element", j.ElementID))
		}
	}
}

func (p *Project) linkConnections(log *zap.Logger, rpt *RelinkReport) {
	for i := range p.Elements {
		p.Elements[i].In, p.Elements[i].Out = nil, nil
	}

	for ci := range p.Connections {
		c := &p.Connections[ci]
		c.From, c.To, c.Linked = -1, NoAddress, false

		if p.idx.connections[c.ID] != ci {
			// shadowed duplicate
			rpt.Excluded = append(rpt.Excluded, c.ID)
			continue
		}

		from, okFrom := p.Resolve(c.SourceID)
		if okFrom && from.Element < 0 {
			log.Warn("Connection source names a board, not an element", zap.String("connection", c.ID), zap.String("source", c.SourceID))
			okFrom = false
		}
		to, okTo := p.Resolve(c.TargetID)
		if !okFrom {
			rpt.dangling(log, "source", c.ID, c.SourceID)
		}
		if !okTo {
			rpt.dangling(log, "target", c.ID, c.TargetID)
		}
		if !okFrom || !okTo {
			rpt.Excluded = append(rpt.Excluded, c.ID)
			continue
		}

		c.From, c.To, c.Linked = from.Element, to, true
		p.Elements[from.Element].Out = append(p.Elements[from.Element].Out, ci)
		if to.Element >= 0 {
			p.Elements[to.Element].In = append(p.Elements[to.Element].In, ci)
		} else {
			b := p.BoardAt(to.Board)
			b.Entries = append(b.Entries, ci)
		}
	}
}
