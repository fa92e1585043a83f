// Package markup turns rich text fields of the export into styled and plain
// renditions and extracts board links.
package markup

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Result of resolving single field. Styled keeps <b> and <i> markers.
type Result struct {
	Styled      string
	Plain       string
	LinkedBoard string
}

const (
	rootTag = "arcrun-markup"
	// exporter writes this for absent values
	nullSentinel = "null"
)

var entityRef = regexp.MustCompile(`&([A-Za-z][A-Za-z0-9]*);`)

var xmlEntities = map[string]bool{"amp": true, "lt": true, "gt": true, "quot": true, "apos": true}

// namedEntities returns HTML named character references used by raw, so XML
// reader could resolve them.
func namedEntities(raw string) map[string]string {
	var entities map[string]string
	for _, m := range entityRef.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if xmlEntities[name] {
			continue
		}
		if v := html.UnescapeString(m[0]); v != m[0] {
			if entities == nil {
				entities = make(map[string]string)
			}
			entities[name] = v
		}
	}
	return entities
}

// Resolve never fails. Malformed markup is reported as warning and text
// collected before the error is returned.
func Resolve(raw string, log *zap.Logger) Result {
	if raw == "" || raw == nullSentinel {
		return Result{}
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Entity:     namedEntities(raw),
		Permissive: true,
		AutoClose:  xml.HTMLAutoClose,
	}
	if err := doc.ReadFromString("<" + rootTag + ">" + raw + "</" + rootTag + ">"); err != nil {
		log.Warn("Malformed markup, using partial text", zap.String("markup", raw), zap.Error(err))
	}

	root := doc.Root()
	if root == nil {
		return Result{}
	}

	r := &resolver{log: log}
	r.walk(root)
	return Result{
		Styled:      norm.NFC.String(r.styled.String()),
		Plain:       norm.NFC.String(r.plain.String()),
		LinkedBoard: r.linked,
	}
}

type resolver struct {
	log        *zap.Logger
	styled     strings.Builder
	plain      strings.Builder
	linked     string
	paragraphs int
}

func (r *resolver) both(s string) {
	r.styled.WriteString(s)
	r.plain.WriteString(s)
}

func (r *resolver) walk(el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if el.Tag == rootTag && t.IsWhitespace() && strings.ContainsRune(t.Data, '\n') {
				// formatting between top level blocks
				continue
			}
			r.both(t.Data)
		case *etree.Element:
			r.element(t)
		}
	}
}

func (r *resolver) styledSpan(el *etree.Element, marker string) {
	r.styled.WriteString("<" + marker + ">")
	r.walk(el)
	r.styled.WriteString("</" + marker + ">")
}

func (r *resolver) element(el *etree.Element) {
	switch strings.ToLower(el.Tag) {
	case "p":
		if r.paragraphs > 0 {
			r.both("\n\n")
		}
		r.paragraphs++
		r.walk(el)
	case "br":
		r.both("\n")
	case "b", "strong":
		r.styledSpan(el, "b")
	case "i", "em":
		r.styledSpan(el, "i")
	case "span":
		r.reference(el)
		r.walk(el)
	case "u", "a", "s", "code", "mark", "sub", "sup", "blockquote":
		r.walk(el)
	default:
		r.log.Debug("Unexpected tag in markup, keeping text", zap.String("tag", el.Tag))
		r.walk(el)
	}
}

// reference handles mention spans, only board mentions affect traversal.
func (r *resolver) reference(el *etree.Element) {
	kind := el.SelectAttrValue("data-type", "")
	id := el.SelectAttrValue("data-id", "")
	switch {
	case kind == "":
		return
	case id == "":
		r.log.Warn("Reference without target id, ignoring", zap.String("type", kind))
	case kind == "board":
		if r.linked != "" && r.linked != id {
			r.log.Debug("Several board references in one field, last one wins", zap.String("previous", r.linked), zap.String("board", id))
		}
		r.linked = id
	}
}
