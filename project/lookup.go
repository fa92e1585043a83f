package project

import "strings"

// Lookups are served from indices built by Relink. On a project which was
// never relinked every lookup misses.

func (p *Project) Element(id string) *Element {
	if i, ok := p.idx.elements[id]; ok {
		return &p.Elements[i]
	}
	return nil
}

func (p *Project) ElementIndex(id string) int {
	if i, ok := p.idx.elements[id]; ok {
		return i
	}
	return -1
}

func (p *Project) ElementAt(i int) *Element {
	if i < 0 || i >= len(p.Elements) {
		return nil
	}
	return &p.Elements[i]
}

func (p *Project) Connection(id string) *Connection {
	if i, ok := p.idx.connections[id]; ok {
		return &p.Connections[i]
	}
	return nil
}

func (p *Project) ConnectionAt(i int) *Connection {
	if i < 0 || i >= len(p.Connections) {
		return nil
	}
	return &p.Connections[i]
}

func (p *Project) BoardEntry(id string) BoardEntry {
	if i, ok := p.idx.boards[id]; ok {
		return p.Boards[i]
	}
	return nil
}

// Board returns board with given id, folders are not boards.
func (p *Project) Board(id string) *Board {
	b, _ := p.BoardEntry(id).(*Board)
	return b
}

// BoardIndex returns index of the board (not folder) in Boards or -1.
func (p *Project) BoardIndex(id string) int {
	if i, ok := p.idx.boards[id]; ok {
		if _, ok := p.Boards[i].(*Board); ok {
			return i
		}
	}
	return -1
}

func (p *Project) BoardAt(i int) *Board {
	if i < 0 || i >= len(p.Boards) {
		return nil
	}
	b, _ := p.Boards[i].(*Board)
	return b
}

// BoardByName returns first board with matching name, comparison ignores
// case.
func (p *Project) BoardByName(name string) *Board {
	for _, e := range p.Boards {
		if b, ok := e.(*Board); ok && strings.EqualFold(b.Name, name) {
			return b
		}
	}
	return nil
}

// BoardForElement returns board owning the element.
func (p *Project) BoardForElement(elementID string) *Board {
	if e := p.Element(elementID); e != nil {
		return p.BoardAt(e.Board)
	}
	return nil
}

// AllBoards returns boards in table order, folders excluded.
func (p *Project) AllBoards() []*Board {
	var boards []*Board
	for _, e := range p.Boards {
		if b, ok := e.(*Board); ok {
			boards = append(boards, b)
		}
	}
	return boards
}

func (p *Project) ComponentEntry(id string) ComponentEntry {
	if i, ok := p.idx.components[id]; ok {
		return p.Components[i]
	}
	return nil
}

func (p *Project) Component(id string) *Component {
	c, _ := p.ComponentEntry(id).(*Component)
	return c
}

func (p *Project) Attribute(id string) *Attribute {
	if i, ok := p.idx.attributes[id]; ok {
		return &p.Attributes[i]
	}
	return nil
}

func (p *Project) Note(id string) *Note {
	if i, ok := p.idx.notes[id]; ok {
		return &p.Notes[i]
	}
	return nil
}

func (p *Project) AssetEntry(id string) AssetEntry {
	if i, ok := p.idx.assets[id]; ok {
		return p.Assets[i]
	}
	return nil
}

func (p *Project) Asset(id string) *Asset {
	a, _ := p.AssetEntry(id).(*Asset)
	return a
}

func (p *Project) Jumper(id string) *Jumper {
	if i, ok := p.idx.jumpers[id]; ok {
		return &p.Jumpers[i]
	}
	return nil
}

// Resolve turns connection endpoint id into address. Element ids are tried
// first, then one level of jumper indirection. Elements which no board lists
// are unreachable.
func (p *Project) Resolve(id string) (Address, bool) {
	if i, ok := p.idx.elements[id]; ok {
		if b := p.Elements[i].Board; b >= 0 {
			return Address{Board: b, Element: i}, true
		}
		return NoAddress, false
	}
	j := p.Jumper(id)
	if j == nil {
		return NoAddress, false
	}
	if j.ElementID != "" {
		i, ok := p.idx.elements[j.ElementID]
		if !ok || p.Elements[i].Board < 0 {
			return NoAddress, false
		}
		return Address{Board: p.Elements[i].Board, Element: i}, true
	}
	if b := p.BoardIndex(j.BoardID); b >= 0 {
		return Address{Board: b, Element: -1}, true
	}
	return NoAddress, false
}

// Root returns index of the board root element.
func (p *Project) Root(boardIndex int) (int, bool) {
	b := p.BoardAt(boardIndex)
	if b == nil || b.RootID == "" {
		return -1, false
	}
	i := p.ElementIndex(b.RootID)
	if i < 0 || p.Elements[i].Board != boardIndex {
		return -1, false
	}
	return i, true
}

// Target returns element connection leads to. For board-only addresses this
// is the root of the target board.
func (p *Project) Target(c *Connection) (int, bool) {
	if c == nil || !c.Linked {
		return -1, false
	}
	if c.To.Element >= 0 {
		return c.To.Element, true
	}
	return p.Root(c.To.Board)
}

// OutNeighbour returns element reached by i-th out connection of e.
func (p *Project) OutNeighbour(e *Element, i int) (int, bool) {
	if e == nil || i < 0 || i >= len(e.Out) {
		return -1, false
	}
	return p.Target(&p.Connections[e.Out[i]])
}

// InNeighbour returns source element of i-th in connection of e.
func (p *Project) InNeighbour(e *Element, i int) (int, bool) {
	if e == nil || i < 0 || i >= len(e.In) {
		return -1, false
	}
	return p.Connections[e.In[i]].From, true
}
