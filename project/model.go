// Package project holds imported narrative graph: flat id-keyed tables as
// they come from the export document plus derived adjacency rebuilt by
// Relink.
//
// Entities never point at each other. Every cross reference is kept as an
// id (as imported) and, once relinked, as an index into the owning table of
// Project.
package project

import (
	"errors"

	"arcrun/common"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrNotInBoard = errors.New("element does not belong to board")
)

// Text keeps all renditions of a single markup field.
type Text struct {
	Raw    string
	Styled string
	Plain  string
}

func (t Text) IsEmpty() bool {
	return t.Plain == ""
}

// Image is resolved asset file.
type Image struct {
	// Path relative to the export source.
	Path   string
	MIME   string
	Width  int
	Height int
}

type (
	// AssetEntry is either *Asset or *AssetFolder.
	AssetEntry interface {
		EntryID() string
		EntryName() string
		assetEntry()
	}

	Asset struct {
		ID    string
		Name  string
		Kind  common.AssetKind
		Image *Image
	}

	AssetFolder struct {
		ID       string
		Name     string
		Children []string
		Root     bool
	}
)

func (a *Asset) EntryID() string         { return a.ID }
func (a *Asset) EntryName() string       { return a.Name }
func (a *Asset) assetEntry()             {}
func (f *AssetFolder) EntryID() string   { return f.ID }
func (f *AssetFolder) EntryName() string { return f.Name }
func (f *AssetFolder) assetEntry()       {}

type Attribute struct {
	ID      string
	Label   Text
	Content Text
}

type (
	// ComponentEntry is either *Component or *ComponentFolder.
	ComponentEntry interface {
		EntryID() string
		EntryName() string
		componentEntry()
	}

	Component struct {
		ID           string
		Name         string
		AttributeIDs []string
		CoverID      string

		// derived
		Attributes []int
		Cover      *Image
	}

	ComponentFolder struct {
		ID       string
		Name     string
		Children []string
		Root     bool
	}
)

func (c *Component) EntryID() string         { return c.ID }
func (c *Component) EntryName() string       { return c.Name }
func (c *Component) componentEntry()         {}
func (f *ComponentFolder) EntryID() string   { return f.ID }
func (f *ComponentFolder) EntryName() string { return f.Name }
func (f *ComponentFolder) componentEntry()   {}

// Element is a node of the narrative graph.
type Element struct {
	ID           string
	Title        Text
	Content      Text
	ComponentIDs []string
	CoverID      string
	// LinkedBoard is set when reaching this element means continuing on
	// another board.
	LinkedBoard string

	// derived
	Components []int
	Cover      *Image
	In         []int // connection indices
	Out        []int // connection indices, order defines choice numbers
	Board      int   // owning board index, -1 when no board lists the element
}

// Address is a resolved connection endpoint. Element is -1 when endpoint
// names a board only, traversal then continues from that board root.
type Address struct {
	Board   int
	Element int
}

var NoAddress = Address{Board: -1, Element: -1}

type Connection struct {
	ID       string
	Label    Text
	SourceID string
	TargetID string

	// derived
	From   int // source element index
	To     Address
	Linked bool // false when any endpoint did not resolve
}

// Jumper redirects connection endpoint to another board.
type Jumper struct {
	ID        string
	BoardID   string
	ElementID string
}

type Note struct {
	ID      string
	Content Text
}

type (
	// BoardEntry is either *Board or *BoardFolder.
	BoardEntry interface {
		EntryID() string
		EntryName() string
		boardEntry()
	}

	Board struct {
		ID         string
		Name       string
		NoteIDs    []string
		ElementIDs []string
		JumperIDs  []string
		RootID     string
		// Pinned root was selected explicitly and survives Relink as long
		// as it still belongs to the board.
		Pinned bool

		// derived
		Notes      []int
		Elements   []int
		Candidates []int // root candidates, element indices
		Entries    []int // connections arriving through board-only jumpers
	}

	BoardFolder struct {
		ID       string
		Name     string
		Children []string
		Root     bool
	}
)

func (b *Board) EntryID() string         { return b.ID }
func (b *Board) EntryName() string       { return b.Name }
func (b *Board) boardEntry()             {}
func (f *BoardFolder) EntryID() string   { return f.ID }
func (f *BoardFolder) EntryName() string { return f.Name }
func (f *BoardFolder) boardEntry()       {}

// Project is the aggregate root owning every table.
type Project struct {
	Name        string
	Assets      []AssetEntry
	Attributes  []Attribute
	Components  []ComponentEntry
	Elements    []Element
	Connections []Connection
	Notes       []Note
	Boards      []BoardEntry
	Jumpers     []Jumper

	// StartingBoard is index into Boards, -1 when there is no preference.
	StartingBoard int
	// StartingElement overrides root of the starting board when set.
	StartingElement string
	// RootPolicy decides what happens when board root is ambiguous.
	RootPolicy common.RootAmbiguity

	idx index
}

type index struct {
	assets      map[string]int
	attributes  map[string]int
	components  map[string]int
	elements    map[string]int
	connections map[string]int
	notes       map[string]int
	boards      map[string]int
	jumpers     map[string]int
}

func New(name string) *Project {
	return &Project{Name: name, StartingBoard: -1}
}
