// Package importer reads exported project documents into project model.
package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"arcrun/common"
	"arcrun/markup"
	"arcrun/project"
	"arcrun/utils/images"
)

var ErrInvalidDocument = errors.New("invalid project document")

// Options controls how document is turned into project.
type Options struct {
	RootPolicy common.RootAmbiguity
	// Assets is export source file system, nil when asset files are not
	// available.
	Assets fs.FS
	// AssetsDir is asset directory inside Assets.
	AssetsDir   string
	ProbeImages bool
}

type parser struct {
	opts Options
	log  *zap.Logger
	p    *project.Project
}

// Parse builds relinked project from export document. Document order of
// records is preserved, out connections order defines choice numbers.
func Parse(data []byte, opts Options, log *zap.Logger) (*project.Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level value is not an object", ErrInvalidDocument)
	}

	ps := &parser{opts: opts, log: log, p: project.New(root.Get("name").String())}
	ps.p.RootPolicy = opts.RootPolicy

	ps.readAssets(root.Get("assets"))
	ps.readAttributes(root.Get("attributes"))
	ps.readComponents(root.Get("components"))
	ps.readElements(root.Get("elements"))
	ps.readJumpers(root.Get("jumpers"))
	ps.readConnections(root.Get("connections"))
	ps.readNotes(root.Get("notes"))
	ps.readBoards(root.Get("boards"))

	rpt := ps.p.Relink(log.Named("relink"))
	log.Debug("Project relinked",
		zap.Int("dangling", len(rpt.Dangling)),
		zap.Int("orphans", len(rpt.Orphans)),
		zap.Int("ambiguous", len(rpt.Ambiguous)),
		zap.Int("excluded", len(rpt.Excluded)))

	if id := root.Get("startingElement").String(); id != "" {
		if err := ps.p.SetStartingElement(id); err != nil {
			log.Warn("Unable to use starting element, falling back to computed roots", zap.String("element", id), zap.Error(err))
		}
	}
	return ps.p, nil
}

// records calls fn for every record of category. Exporter writes categories
// as objects keyed by id, arrays of records carrying "id" are accepted too.
func (ps *parser) records(category string, node gjson.Result, fn func(id string, rec gjson.Result)) {
	switch {
	case !node.Exists() || node.Type == gjson.Null:
		return
	case node.IsObject():
		node.ForEach(func(key, value gjson.Result) bool {
			fn(key.String(), value)
			return true
		})
	case node.IsArray():
		node.ForEach(func(_, value gjson.Result) bool {
			fn(value.Get("id").String(), value)
			return true
		})
	default:
		ps.log.Warn("Unexpected category format, skipping", zap.String("category", category), zap.String("type", node.Type.String()))
	}
}

func ids(node gjson.Result) []string {
	if !node.IsArray() {
		return nil
	}
	arr := node.Array()
	res := make([]string, 0, len(arr))
	for _, v := range arr {
		res = append(res, v.String())
	}
	return res
}

func isFolder(rec gjson.Result) bool {
	return rec.Get("children").Exists()
}

func folderName(rec gjson.Result) string {
	if name := rec.Get("name"); name.Exists() && name.Type != gjson.Null {
		return name.String()
	}
	if rec.Get("root").Exists() {
		return "Root"
	}
	return ""
}

func (ps *parser) text(node gjson.Result) (project.Text, string) {
	var raw string
	if node.Type == gjson.String {
		raw = node.String()
	} else if node.Exists() && node.Type != gjson.Null {
		raw = node.Raw
	}
	res := markup.Resolve(raw, ps.log)
	return project.Text{Raw: raw, Styled: res.Styled, Plain: res.Plain}, res.LinkedBoard
}

func (ps *parser) readAssets(node gjson.Result) {
	ps.records("assets", node, func(id string, rec gjson.Result) {
		if isFolder(rec) {
			ps.p.Assets = append(ps.p.Assets, &project.AssetFolder{
				ID:       id,
				Name:     folderName(rec),
				Children: ids(rec.Get("children")),
				Root:     rec.Get("root").Exists(),
			})
			return
		}
		a := &project.Asset{ID: id, Name: rec.Get("name").String()}
		kind, err := common.ParseAssetKind(rec.Get("type").String())
		if err != nil {
			ps.log.Warn("Unhandled asset type", zap.String("asset", id), zap.String("type", rec.Get("type").String()))
		}
		a.Kind = kind
		a.Image = ps.linkAsset(a)
		ps.p.Assets = append(ps.p.Assets, a)
	})
}

func (ps *parser) linkAsset(a *project.Asset) *project.Image {
	if ps.opts.Assets == nil || a.Name == "" {
		return nil
	}
	name := path.Join(ps.opts.AssetsDir, a.Name)
	if !fs.ValidPath(name) {
		ps.log.Warn("Asset name is not a valid path, skipping", zap.String("asset", a.ID), zap.String("name", a.Name))
		return nil
	}
	if !ps.opts.ProbeImages {
		if _, err := fs.Stat(ps.opts.Assets, name); err != nil {
			ps.log.Warn("Unable to load asset, skipping", zap.String("asset", a.ID), zap.String("path", name), zap.Error(err))
			return nil
		}
		return &project.Image{Path: name}
	}

	data, err := fs.ReadFile(ps.opts.Assets, name)
	if err != nil {
		ps.log.Warn("Unable to load asset, skipping", zap.String("asset", a.ID), zap.String("path", name), zap.Error(err))
		return nil
	}
	img := &project.Image{Path: name}
	info, err := images.Probe(data, name)
	if err != nil {
		ps.log.Warn("Unable to probe asset image", zap.String("asset", a.ID), zap.String("path", name), zap.Error(err))
		return img
	}
	img.MIME, img.Width, img.Height = info.MIME, info.Width, info.Height
	return img
}

func (ps *parser) readAttributes(node gjson.Result) {
	ps.records("attributes", node, func(id string, rec gjson.Result) {
		label, _ := ps.text(rec.Get("label"))
		content, _ := ps.text(rec.Get("content"))
		ps.p.Attributes = append(ps.p.Attributes, project.Attribute{ID: id, Label: label, Content: content})
	})
}

func (ps *parser) readComponents(node gjson.Result) {
	ps.records("components", node, func(id string, rec gjson.Result) {
		if isFolder(rec) {
			ps.p.Components = append(ps.p.Components, &project.ComponentFolder{
				ID:       id,
				Name:     folderName(rec),
				Children: ids(rec.Get("children")),
				Root:     rec.Get("root").Exists(),
			})
			return
		}
		ps.p.Components = append(ps.p.Components, &project.Component{
			ID:           id,
			Name:         rec.Get("name").String(),
			AttributeIDs: ids(rec.Get("attributes")),
			CoverID:      rec.Get("assets.cover.id").String(),
		})
	})
}

func (ps *parser) readElements(node gjson.Result) {
	ps.records("elements", node, func(id string, rec gjson.Result) {
		title, titleLink := ps.text(rec.Get("title"))
		content, contentLink := ps.text(rec.Get("content"))

		linked := rec.Get("linkedBoard").String()
		if linked == "" {
			linked = titleLink
			if contentLink != "" {
				linked = contentLink
			}
		}

		ps.p.Elements = append(ps.p.Elements, project.Element{
			ID:           id,
			Title:        title,
			Content:      content,
			ComponentIDs: ids(rec.Get("components")),
			CoverID:      rec.Get("assets.cover.id").String(),
			LinkedBoard:  linked,
			Board:        -1,
		})
	})
}

func (ps *parser) readJumpers(node gjson.Result) {
	ps.records("jumpers", node, func(id string, rec gjson.Result) {
		ps.p.Jumpers = append(ps.p.Jumpers, project.Jumper{
			ID:        id,
			BoardID:   rec.Get("boardId").String(),
			ElementID: rec.Get("elementId").String(),
		})
	})
}

func (ps *parser) readConnections(node gjson.Result) {
	ps.records("connections", node, func(id string, rec gjson.Result) {
		label, _ := ps.text(rec.Get("label"))
		ps.p.Connections = append(ps.p.Connections, project.Connection{
			ID:       id,
			Label:    label,
			SourceID: rec.Get("sourceid").String(),
			TargetID: rec.Get("targetid").String(),
		})
	})
}

func (ps *parser) readNotes(node gjson.Result) {
	ps.records("notes", node, func(id string, rec gjson.Result) {
		content := rec
		if rec.IsObject() {
			content = rec.Get("content")
		}
		text, _ := ps.text(content)
		ps.p.Notes = append(ps.p.Notes, project.Note{ID: id, Content: text})
	})
}

func (ps *parser) readBoards(node gjson.Result) {
	ps.records("boards", node, func(id string, rec gjson.Result) {
		if isFolder(rec) {
			ps.p.Boards = append(ps.p.Boards, &project.BoardFolder{
				ID:       id,
				Name:     folderName(rec),
				Children: ids(rec.Get("children")),
				Root:     rec.Get("root").Exists(),
			})
			return
		}

		b := &project.Board{
			ID:         id,
			Name:       rec.Get("name").String(),
			NoteIDs:    ids(rec.Get("notes")),
			ElementIDs: ids(rec.Get("elements")),
			JumperIDs:  ids(rec.Get("jumpers")),
		}
		// jumpers learn their board from the board listing them
		for _, jid := range b.JumperIDs {
			for i := range ps.p.Jumpers {
				if ps.p.Jumpers[i].ID == jid {
					ps.p.Jumpers[i].BoardID = id
					break
				}
			}
		}
		ps.p.Boards = append(ps.p.Boards, b)
	})
}
