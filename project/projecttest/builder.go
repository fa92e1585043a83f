// Package projecttest builds small projects for tests.
package projecttest

import (
	"go.uber.org/zap"

	"arcrun/project"
)

type Builder struct {
	p *project.Project
}

func New(name string) *Builder {
	return &Builder{p: project.New(name)}
}

func text(s string) project.Text {
	return project.Text{Raw: s, Styled: s, Plain: s}
}

func (b *Builder) element(id string) *project.Element {
	for i := range b.p.Elements {
		if b.p.Elements[i].ID == id {
			return &b.p.Elements[i]
		}
	}
	b.p.Elements = append(b.p.Elements, project.Element{ID: id, Title: text(id), Board: -1})
	return &b.p.Elements[len(b.p.Elements)-1]
}

// Board adds board listing elements, elements are created as needed with
// title equal to their id.
func (b *Builder) Board(id, name string, elements ...string) *Builder {
	for _, e := range elements {
		b.element(e)
	}
	b.p.Boards = append(b.p.Boards, &project.Board{ID: id, Name: name, ElementIDs: elements})
	return b
}

func (b *Builder) Folder(id, name string, root bool, children ...string) *Builder {
	b.p.Boards = append(b.p.Boards, &project.BoardFolder{ID: id, Name: name, Root: root, Children: children})
	return b
}

// Element adds element no board lists.
func (b *Builder) Element(id, title, content string) *Builder {
	e := b.element(id)
	e.Title, e.Content = text(title), text(content)
	return b
}

func (b *Builder) Content(id, content string) *Builder {
	b.element(id).Content = text(content)
	return b
}

func (b *Builder) Linked(elementID, boardID string) *Builder {
	b.element(elementID).LinkedBoard = boardID
	return b
}

func (b *Builder) Connect(id, from, to, label string) *Builder {
	b.p.Connections = append(b.p.Connections, project.Connection{ID: id, SourceID: from, TargetID: to, Label: text(label)})
	return b
}

// Jumper adds jumper and lists it on its board when board exists already.
func (b *Builder) Jumper(id, boardID, elementID string) *Builder {
	b.p.Jumpers = append(b.p.Jumpers, project.Jumper{ID: id, BoardID: boardID, ElementID: elementID})
	for _, entry := range b.p.Boards {
		if board, ok := entry.(*project.Board); ok && board.ID == boardID {
			board.JumperIDs = append(board.JumperIDs, id)
		}
	}
	return b
}

func (b *Builder) Project() *project.Project {
	return b.p
}

// Build relinks and returns the project.
func (b *Builder) Build(log *zap.Logger) (*project.Project, *project.RelinkReport) {
	rpt := b.p.Relink(log)
	return b.p, rpt
}
