// Package store keeps imported projects in SQLite snapshot files, so they
// could be played without original export.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"arcrun/common"
	"arcrun/project"
)

const schemaVersion = 1

var (
	sqliteSig = []byte("SQLite format 3\x00")

	ErrNotSnapshot = errors.New("not a project snapshot")
)

const schema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE records (
	category TEXT    NOT NULL,
	pos      INTEGER NOT NULL,
	id       TEXT    NOT NULL,
	folder   INTEGER NOT NULL DEFAULT 0,
	data     TEXT    NOT NULL,
	PRIMARY KEY (category, pos)
);
`

const (
	catAssets      = "assets"
	catAttributes  = "attributes"
	catComponents  = "components"
	catElements    = "elements"
	catConnections = "connections"
	catNotes       = "notes"
	catBoards      = "boards"
	catJumpers     = "jumpers"
)

// IsSnapshot reports whether file looks like SQLite database.
func IsSnapshot(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, len(sqliteSig))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, sqliteSig)
}

// Save writes flat project tables to a new snapshot file, existing file is
// replaced.
func Save(ctx context.Context, path string, p *project.Project) (err error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove old snapshot: %w", err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return fmt.Errorf("unable to create snapshot: %w", err)
	}
	defer func() {
		if er := conn.Close(); er != nil && err == nil {
			err = fmt.Errorf("unable to close snapshot: %w", er)
		}
	}()
	conn.SetInterrupt(ctx.Done())

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("unable to create snapshot schema: %w", err)
	}

	defer sqlitex.Save(conn)(&err)

	w := &writer{conn: conn}
	w.meta("version", strconv.Itoa(schemaVersion))
	w.meta("name", p.Name)
	w.meta("starting_element", p.StartingElement)
	w.meta("root_policy", p.RootPolicy.String())
	if b := p.BoardAt(p.StartingBoard); b != nil {
		w.meta("starting_board", b.ID)
	}

	for i, entry := range p.Assets {
		switch a := entry.(type) {
		case *project.Asset:
			row := assetRow{Name: a.Name, Kind: a.Kind}
			if a.Image != nil {
				row.Image = &imageRow{Path: a.Image.Path, MIME: a.Image.MIME, Width: a.Image.Width, Height: a.Image.Height}
			}
			w.record(catAssets, i, a.ID, false, row)
		case *project.AssetFolder:
			w.record(catAssets, i, a.ID, true, folderRow{Name: a.Name, Children: a.Children, Root: a.Root})
		}
	}
	for i, a := range p.Attributes {
		w.record(catAttributes, i, a.ID, false, attributeRow{Label: fromText(a.Label), Content: fromText(a.Content)})
	}
	for i, entry := range p.Components {
		switch c := entry.(type) {
		case *project.Component:
			w.record(catComponents, i, c.ID, false, componentRow{Name: c.Name, Attributes: c.AttributeIDs, Cover: c.CoverID})
		case *project.ComponentFolder:
			w.record(catComponents, i, c.ID, true, folderRow{Name: c.Name, Children: c.Children, Root: c.Root})
		}
	}
	for i, e := range p.Elements {
		w.record(catElements, i, e.ID, false, elementRow{
			Title:       fromText(e.Title),
			Content:     fromText(e.Content),
			Components:  e.ComponentIDs,
			Cover:       e.CoverID,
			LinkedBoard: e.LinkedBoard,
		})
	}
	for i, c := range p.Connections {
		w.record(catConnections, i, c.ID, false, connectionRow{Label: fromText(c.Label), Source: c.SourceID, Target: c.TargetID})
	}
	for i, n := range p.Notes {
		w.record(catNotes, i, n.ID, false, noteRow{Content: fromText(n.Content)})
	}
	for i, entry := range p.Boards {
		switch b := entry.(type) {
		case *project.Board:
			w.record(catBoards, i, b.ID, false, boardRow{
				Name:     b.Name,
				Notes:    b.NoteIDs,
				Elements: b.ElementIDs,
				Jumpers:  b.JumperIDs,
				Root:     b.RootID,
				Pinned:   b.Pinned,
			})
		case *project.BoardFolder:
			w.record(catBoards, i, b.ID, true, folderRow{Name: b.Name, Children: b.Children, Root: b.Root})
		}
	}
	for i, j := range p.Jumpers {
		w.record(catJumpers, i, j.ID, false, jumperRow{Board: j.BoardID, Element: j.ElementID})
	}
	return w.err
}

type writer struct {
	conn *sqlite.Conn
	err  error
}

func (w *writer) meta(key, value string) {
	if w.err != nil {
		return
	}
	if err := sqlitex.Execute(w.conn, `INSERT INTO meta (key, value) VALUES (?, ?)`,
		&sqlitex.ExecOptions{Args: []any{key, value}}); err != nil {
		w.err = fmt.Errorf("unable to store %s: %w", key, err)
	}
}

func (w *writer) record(category string, pos int, id string, folder bool, row any) {
	if w.err != nil {
		return
	}
	data, err := json.Marshal(row)
	if err != nil {
		w.err = fmt.Errorf("unable to encode %s %q: %w", category, id, err)
		return
	}
	flag := 0
	if folder {
		flag = 1
	}
	if err := sqlitex.Execute(w.conn, `INSERT INTO records (category, pos, id, folder, data) VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{category, pos, id, flag, string(data)}}); err != nil {
		w.err = fmt.Errorf("unable to store %s %q: %w", category, id, err)
	}
}

// Load reads snapshot and relinks restored project.
func Load(ctx context.Context, path string, log *zap.Logger) (*project.Project, error) {
	if !IsSnapshot(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotSnapshot)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open snapshot: %w", err)
	}
	defer conn.Close()
	conn.SetInterrupt(ctx.Done())

	meta := make(map[string]string)
	err = sqlitex.Execute(conn, `SELECT key, value FROM meta`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			meta[stmt.ColumnText(0)] = stmt.ColumnText(1)
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read meta: %w", ErrNotSnapshot, err)
	}
	if v := meta["version"]; v != strconv.Itoa(schemaVersion) {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrNotSnapshot, v)
	}

	p := project.New(meta["name"])
	if policy, err := common.ParseRootAmbiguity(meta["root_policy"]); err == nil {
		p.RootPolicy = policy
	} else {
		log.Warn("Unknown root policy in snapshot, using default", zap.String("policy", meta["root_policy"]))
	}

	err = sqlitex.Execute(conn, `SELECT category, id, folder, data FROM records ORDER BY category, pos`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			return restore(p, stmt.ColumnText(0), stmt.ColumnText(1), stmt.ColumnInt(2) != 0, []byte(stmt.ColumnText(3)))
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to read records: %w", err)
	}

	p.Relink(log.Named("relink"))

	p.StartingElement = meta["starting_element"]
	if id := meta["starting_board"]; id != "" {
		if p.StartingBoard = p.BoardIndex(id); p.StartingBoard < 0 {
			log.Warn("Starting board from snapshot is missing", zap.String("board", id))
		}
	}
	return p, nil
}

func restore(p *project.Project, category, id string, folder bool, data []byte) error {
	decode := func(v any) error {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("unable to decode %s %q: %w", category, id, err)
		}
		return nil
	}

	if folder {
		var row folderRow
		if err := decode(&row); err != nil {
			return err
		}
		switch category {
		case catAssets:
			p.Assets = append(p.Assets, &project.AssetFolder{ID: id, Name: row.Name, Children: row.Children, Root: row.Root})
		case catComponents:
			p.Components = append(p.Components, &project.ComponentFolder{ID: id, Name: row.Name, Children: row.Children, Root: row.Root})
		case catBoards:
			p.Boards = append(p.Boards, &project.BoardFolder{ID: id, Name: row.Name, Children: row.Children, Root: row.Root})
		default:
			return fmt.Errorf("unexpected folder in %s: %q", category, id)
		}
		return nil
	}

	switch category {
	case catAssets:
		var row assetRow
		if err := decode(&row); err != nil {
			return err
		}
		a := &project.Asset{ID: id, Name: row.Name, Kind: row.Kind}
		if row.Image != nil {
			a.Image = &project.Image{Path: row.Image.Path, MIME: row.Image.MIME, Width: row.Image.Width, Height: row.Image.Height}
		}
		p.Assets = append(p.Assets, a)
	case catAttributes:
		var row attributeRow
		if err := decode(&row); err != nil {
			return err
		}
		p.Attributes = append(p.Attributes, project.Attribute{ID: id, Label: row.Label.text(), Content: row.Content.text()})
	case catComponents:
		var row componentRow
		if err := decode(&row); err != nil {
			return err
		}
		p.Components = append(p.Components, &project.Component{ID: id, Name: row.Name, AttributeIDs: row.Attributes, CoverID: row.Cover})
	case catElements:
		var row elementRow
		if err := decode(&row); err != nil {
			return err
		}
		p.Elements = append(p.Elements, project.Element{
			ID:           id,
			Title:        row.Title.text(),
			Content:      row.Content.text(),
			ComponentIDs: row.Components,
			CoverID:      row.Cover,
			LinkedBoard:  row.LinkedBoard,
			Board:        -1,
		})
	case catConnections:
		var row connectionRow
		if err := decode(&row); err != nil {
			return err
		}
		p.Connections = append(p.Connections, project.Connection{ID: id, Label: row.Label.text(), SourceID: row.Source, TargetID: row.Target})
	case catNotes:
		var row noteRow
		if err := decode(&row); err != nil {
			return err
		}
		p.Notes = append(p.Notes, project.Note{ID: id, Content: row.Content.text()})
	case catBoards:
		var row boardRow
		if err := decode(&row); err != nil {
			return err
		}
		p.Boards = append(p.Boards, &project.Board{
			ID:         id,
			Name:       row.Name,
			NoteIDs:    row.Notes,
			ElementIDs: row.Elements,
			JumperIDs:  row.Jumpers,
			RootID:     row.Root,
			Pinned:     row.Pinned,
		})
	case catJumpers:
		var row jumperRow
		if err := decode(&row); err != nil {
			return err
		}
		p.Jumpers = append(p.Jumpers, project.Jumper{ID: id, BoardID: row.Board, ElementID: row.Element})
	default:
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}
