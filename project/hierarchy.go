package project

import (
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// BoardPath is board position in folder hierarchy.
type BoardPath struct {
	ID   string
	Path string // "Folder/Sub/Board", root folder name omitted
	Slug string // "folder/sub/board"
}

// BoardPaths walks board folders starting from root folders. Boards not
// reachable from any root folder are appended at the end with their own
// names.
func (p *Project) BoardPaths(log *zap.Logger) []BoardPath {
	var (
		paths []BoardPath
		seen  = make(map[string]bool)
		walk  func(entry BoardEntry, prefix, slugPrefix string)
	)

	walk = func(entry BoardEntry, prefix, slugPrefix string) {
		if seen[entry.EntryID()] {
			log.Warn("Board entry is referenced more than once, skipping", zap.String("id", entry.EntryID()))
			return
		}
		seen[entry.EntryID()] = true

		switch e := entry.(type) {
		case *Board:
			paths = append(paths, BoardPath{ID: e.ID, Path: prefix + e.Name, Slug: slugPrefix + slug.Make(e.Name)})
		case *BoardFolder:
			p.walkFolder(log, e.Children, prefix+e.Name+"/", slugPrefix+slug.Make(e.Name)+"/", walk)
		}
	}

	roots := 0
	for _, entry := range p.Boards {
		if f, ok := entry.(*BoardFolder); ok && f.Root {
			roots++
			seen[f.ID] = true
			p.walkFolder(log, f.Children, "", "", walk)
		}
	}
	if roots == 0 {
		log.Warn("Unable to find root board folder")
	}

	for _, b := range p.AllBoards() {
		if !seen[b.ID] {
			seen[b.ID] = true
			paths = append(paths, BoardPath{ID: b.ID, Path: b.Name, Slug: slug.Make(b.Name)})
		}
	}
	return paths
}

func (p *Project) walkFolder(log *zap.Logger, children []string, prefix, slugPrefix string, walk func(BoardEntry, string, string)) {
	for _, id := range children {
		child := p.BoardEntry(id)
		if child == nil {
			log.Warn("Board folder child not found, skipping", zap.String("id", id))
			continue
		}
		walk(child, prefix, slugPrefix)
	}
}

// FindBoard looks board up by id, then by name, then by path or slug as
// returned by BoardPaths.
func (p *Project) FindBoard(key string, log *zap.Logger) *Board {
	if b := p.Board(key); b != nil {
		return b
	}
	if b := p.BoardByName(key); b != nil {
		return b
	}
	for _, bp := range p.BoardPaths(log) {
		if bp.Slug == key || strings.EqualFold(bp.Path, key) {
			return p.Board(bp.ID)
		}
	}
	return nil
}
