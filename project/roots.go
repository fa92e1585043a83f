package project

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"arcrun/common"
)

// ComputeRoots returns root candidates of the board: elements without
// incoming connections in board order or, when there are none, every element
// of the board. Connections arriving through board-only jumpers are not
// incoming connections of any element. Result is empty only for a board
// without elements.
func ComputeRoots(p *Project, b *Board) []int {
	var roots []int
	for _, ei := range b.Elements {
		if len(p.Elements[ei].In) == 0 {
			roots = append(roots, ei)
		}
	}
	if len(roots) > 0 {
		return roots
	}
	return slices.Clone(b.Elements)
}

func (p *Project) linkRoots(log *zap.Logger, rpt *RelinkReport) {
	for bi, entry := range p.Boards {
		b, ok := entry.(*Board)
		if !ok {
			continue
		}
		b.Candidates = ComputeRoots(p, b)

		if b.Pinned {
			if _, ok := p.Root(bi); ok {
				continue
			}
			log.Warn("Selected root no longer belongs to board, recomputing", zap.String("board", b.ID), zap.String("root", b.RootID))
			b.Pinned = false
		}

		switch len(b.Candidates) {
		case 0:
			log.Warn("Board has no elements, it cannot be played", zap.String("board", b.ID))
			b.RootID = ""
			continue
		case 1:
			b.RootID = p.Elements[b.Candidates[0]].ID
			continue
		}

		rpt.Ambiguous = append(rpt.Ambiguous, b.ID)
		switch p.RootPolicy {
		case common.RootAmbiguityFail:
			log.Warn("Ambiguous board root, root must be selected explicitly",
				zap.String("board", b.ID), zap.Int("candidates", len(b.Candidates)))
			b.RootID = ""
		default:
			b.RootID = p.Elements[b.Candidates[0]].ID
			log.Warn("Ambiguous board root, using first candidate",
				zap.String("board", b.ID), zap.String("root", b.RootID), zap.Int("candidates", len(b.Candidates)))
		}
	}
}

// SetRoot selects board root explicitly. Selection survives Relink.
func (p *Project) SetRoot(boardID, elementID string) error {
	bi := p.BoardIndex(boardID)
	if bi < 0 {
		return fmt.Errorf("board %q: %w", boardID, ErrNotFound)
	}
	e := p.Element(elementID)
	if e == nil {
		return fmt.Errorf("element %q: %w", elementID, ErrNotFound)
	}
	if e.Board != bi {
		return fmt.Errorf("element %q, board %q: %w", elementID, boardID, ErrNotInBoard)
	}
	b := p.BoardAt(bi)
	b.RootID, b.Pinned = elementID, true
	return nil
}

// SetStartingElement makes element board the starting one and element its
// root.
func (p *Project) SetStartingElement(elementID string) error {
	e := p.Element(elementID)
	if e == nil {
		return fmt.Errorf("element %q: %w", elementID, ErrNotFound)
	}
	if e.Board < 0 {
		return fmt.Errorf("element %q: %w", elementID, ErrNotInBoard)
	}
	if err := p.SetRoot(p.Boards[e.Board].EntryID(), elementID); err != nil {
		return err
	}
	p.StartingBoard = e.Board
	p.StartingElement = elementID
	return nil
}
