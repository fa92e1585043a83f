package store

import (
	"arcrun/common"
	"arcrun/project"
)

// Rows mirror imported (flat) part of the model. Derived state is never
// stored, it is rebuilt by Relink on load.

type textRow struct {
	Raw    string `json:"raw,omitempty"`
	Styled string `json:"styled,omitempty"`
	Plain  string `json:"plain,omitempty"`
}

func fromText(t project.Text) textRow {
	return textRow{Raw: t.Raw, Styled: t.Styled, Plain: t.Plain}
}

func (r textRow) text() project.Text {
	return project.Text{Raw: r.Raw, Styled: r.Styled, Plain: r.Plain}
}

type imageRow struct {
	Path   string `json:"path"`
	MIME   string `json:"mime,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type folderRow struct {
	Name     string   `json:"name"`
	Children []string `json:"children"`
	Root     bool     `json:"root,omitempty"`
}

type assetRow struct {
	Name  string           `json:"name"`
	Kind  common.AssetKind `json:"kind"`
	Image *imageRow        `json:"image,omitempty"`
}

type attributeRow struct {
	Label   textRow `json:"label"`
	Content textRow `json:"content"`
}

type componentRow struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes,omitempty"`
	Cover      string   `json:"cover,omitempty"`
}

type elementRow struct {
	Title       textRow  `json:"title"`
	Content     textRow  `json:"content"`
	Components  []string `json:"components,omitempty"`
	Cover       string   `json:"cover,omitempty"`
	LinkedBoard string   `json:"linked_board,omitempty"`
}

type connectionRow struct {
	Label  textRow `json:"label"`
	Source string  `json:"source"`
	Target string  `json:"target"`
}

type jumperRow struct {
	Board   string `json:"board"`
	Element string `json:"element,omitempty"`
}

type noteRow struct {
	Content textRow `json:"content"`
}

type boardRow struct {
	Name     string   `json:"name"`
	Notes    []string `json:"notes,omitempty"`
	Elements []string `json:"elements,omitempty"`
	Jumpers  []string `json:"jumpers,omitempty"`
	Root     string   `json:"root,omitempty"`
	Pinned   bool     `json:"pinned,omitempty"`
}
