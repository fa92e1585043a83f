package project_test

import (
	"testing"

	"go.uber.org/zap"

	"arcrun/common"
	"arcrun/project"
	"arcrun/project/projecttest"
)

func TestResolve(t *testing.T) {
	p, _ := twoBoards().
		Element("orphan", "", "").
		Jumper("j-orphan", "B", "orphan").
		Jumper("j-ghost", "B", "ghost").
		Jumper("j-noboard", "Z", "").
		Build(zap.NewNop())

	a, b := p.BoardIndex("A"), p.BoardIndex("B")
	tests := []struct {
		id     string
		want   project.Address
		wantOK bool
	}{
		{"e1", project.Address{Board: a, Element: p.ElementIndex("e1")}, true},
		{"e5", project.Address{Board: b, Element: p.ElementIndex("e5")}, true},
		{"j1", project.Address{Board: b, Element: p.ElementIndex("e5")}, true},
		{"jb", project.Address{Board: b, Element: -1}, true},
		{"orphan", project.NoAddress, false},
		{"j-orphan", project.NoAddress, false},
		{"j-ghost", project.NoAddress, false},
		{"j-noboard", project.NoAddress, false},
		{"unknown", project.NoAddress, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := p.Resolve(tt.id)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Resolve(%q) = %+v, %v; want %+v, %v", tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	p := projecttest.New("lookups").
		Folder("root", "Root", true, "A", "B").
		Board("A", "Intro", "e1", "e2").
		Board("B", "Finale", "e3").
		Connect("c1", "e1", "e2", "").
		Jumper("j1", "B", "e3").
		Project()
	p.Attributes = []project.Attribute{{ID: "at1"}}
	p.Notes = []project.Note{{ID: "n1"}}
	p.Assets = []project.AssetEntry{
		&project.Asset{ID: "as1", Name: "cover.png", Kind: common.AssetKindCover},
		&project.AssetFolder{ID: "af", Name: "Assets", Root: true, Children: []string{"as1"}},
	}
	p.Components = []project.ComponentEntry{
		&project.Component{ID: "co1", Name: "Hero"},
		&project.ComponentFolder{ID: "cf", Name: "Characters"},
	}
	p.Relink(zap.NewNop())

	if e := p.Element("e2"); e == nil || e.ID != "e2" {
		t.Errorf("Element(e2) = %v", e)
	}
	if p.Element("zz") != nil {
		t.Error("Element(zz) must be nil")
	}
	if b := p.Board("A"); b == nil || b.Name != "Intro" {
		t.Errorf("Board(A) = %v", b)
	}
	if p.Board("root") != nil {
		t.Error("Board(root) must be nil for folder")
	}
	if _, ok := p.BoardEntry("root").(*project.BoardFolder); !ok {
		t.Error("BoardEntry(root) must be folder")
	}
	if b := p.BoardByName("finale"); b == nil || b.ID != "B" {
		t.Errorf("BoardByName(finale) = %v", b)
	}
	if b := p.BoardForElement("e3"); b == nil || b.ID != "B" {
		t.Errorf("BoardForElement(e3) = %v", b)
	}
	if got := p.AllBoards(); len(got) != 2 || got[0].ID != "A" || got[1].ID != "B" {
		t.Errorf("AllBoards() = %v", got)
	}
	if p.Attribute("at1") == nil || p.Note("n1") == nil || p.Jumper("j1") == nil {
		t.Error("Attribute, Note or Jumper lookup failed")
	}
	if a := p.Asset("as1"); a == nil || a.Kind != common.AssetKindCover {
		t.Errorf("Asset(as1) = %v", a)
	}
	if p.Asset("af") != nil {
		t.Error("Asset(af) must be nil for folder")
	}
	if _, ok := p.AssetEntry("af").(*project.AssetFolder); !ok {
		t.Error("AssetEntry(af) must be folder")
	}
	if c := p.Component("co1"); c == nil || c.Name != "Hero" {
		t.Errorf("Component(co1) = %v", c)
	}
	if _, ok := p.ComponentEntry("cf").(*project.ComponentFolder); !ok {
		t.Error("ComponentEntry(cf) must be folder")
	}
	if p.ElementAt(-1) != nil || p.ElementAt(100) != nil || p.ConnectionAt(5) != nil || p.BoardAt(0) != nil {
		t.Error("Out of range or folder lookups must return nil")
	}
}

func TestNeighbours(t *testing.T) {
	p, _ := twoBoards().Build(zap.NewNop())

	e2 := p.Element("e2")
	if i, ok := p.OutNeighbour(e2, 0); !ok || p.Elements[i].ID != "e5" {
		t.Errorf("OutNeighbour(e2, 0) = %d, %v; want e5", i, ok)
	}
	if _, ok := p.OutNeighbour(e2, 1); ok {
		t.Error("OutNeighbour(e2, 1) must fail")
	}
	if i, ok := p.InNeighbour(e2, 0); !ok || p.Elements[i].ID != "e1" {
		t.Errorf("InNeighbour(e2, 0) = %d, %v; want e1", i, ok)
	}
	if _, ok := p.InNeighbour(e2, -1); ok {
		t.Error("InNeighbour(e2, -1) must fail")
	}

	// board-only jumper leads to target board root
	if i, ok := p.OutNeighbour(p.Element("e3"), 0); !ok || p.Elements[i].ID != "e4" {
		t.Errorf("OutNeighbour(e3, 0) = %d, %v; want e4", i, ok)
	}
}
