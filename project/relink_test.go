package project_test

import (
	"reflect"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"arcrun/project"
	"arcrun/project/projecttest"
)

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}

// twoBoards: A(e1 -> e2 -> j1 => B/e5), B(e4 -> e5), jb => B (board only).
func twoBoards() *projecttest.Builder {
	return projecttest.New("two boards").
		Board("A", "Board A", "e1", "e2", "e3").
		Board("B", "Board B", "e4", "e5").
		Jumper("j1", "B", "e5").
		Jumper("jb", "B", "").
		Connect("c1", "e1", "e2", "go").
		Connect("c2", "e2", "j1", "").
		Connect("c3", "e4", "e5", "").
		Connect("c4", "e3", "jb", "enter B").
		Connect("bad-target", "e1", "nowhere", "").
		Connect("bad-source", "ghost", "e2", "").
		Connect("from-board", "jb", "e1", "")
}

func TestRelink_ConnectionResolution(t *testing.T) {
	log, logs := observedLogger()
	p, rpt := twoBoards().Build(log)

	for ci := range p.Connections {
		c := &p.Connections[ci]
		var lists [][]int
		for i := range p.Elements {
			lists = append(lists, p.Elements[i].In, p.Elements[i].Out)
		}
		for _, b := range p.AllBoards() {
			lists = append(lists, b.Entries)
		}

		if !c.Linked {
			for _, l := range lists {
				if slices.Contains(l, ci) {
					t.Errorf("Excluded connection %q found in adjacency list", c.ID)
				}
			}
			if !slices.Contains(rpt.Excluded, c.ID) {
				t.Errorf("Excluded connection %q not reported", c.ID)
			}
			continue
		}

		if !slices.Contains(p.Elements[c.From].Out, ci) {
			t.Errorf("Connection %q missing from source out list", c.ID)
		}
		if c.To.Element >= 0 {
			if !slices.Contains(p.Elements[c.To.Element].In, ci) {
				t.Errorf("Connection %q missing from target in list", c.ID)
			}
		} else if !slices.Contains(p.BoardAt(c.To.Board).Entries, ci) {
			t.Errorf("Connection %q missing from target board entries", c.ID)
		}
	}

	want := []string{"bad-target", "bad-source", "from-board"}
	if !reflect.DeepEqual(rpt.Excluded, want) {
		t.Errorf("Excluded = %v, want %v", rpt.Excluded, want)
	}
	if n := logs.FilterMessage("Dangling reference, skipping").Len(); n != 3 {
		t.Errorf("Dangling warnings = %d, want 3", n)
	}
	if n := logs.FilterMessage("Connection source names a board, not an element").Len(); n != 1 {
		t.Errorf("Board source warnings = %d, want 1", n)
	}
}

func TestRelink_JumperEndpoints(t *testing.T) {
	p, _ := twoBoards().Build(testLogger(t))

	c2 := p.Connection("c2")
	if !c2.Linked {
		t.Fatal("c2 not linked")
	}
	if got := p.Elements[c2.To.Element].ID; got != "e5" {
		t.Errorf("c2 target = %q, want e5", got)
	}
	if c2.To.Board != p.BoardIndex("B") {
		t.Errorf("c2 target board = %d, want %d", c2.To.Board, p.BoardIndex("B"))
	}

	c4 := p.Connection("c4")
	if c4.To.Element != -1 || c4.To.Board != p.BoardIndex("B") {
		t.Errorf("c4 target = %+v, want board-only B", c4.To)
	}
	if got := p.Board("B").Entries; len(got) != 1 || p.Connections[got[0]].ID != "c4" {
		t.Errorf("B entries = %v, want [c4]", got)
	}
}

func TestRelink_Idempotent(t *testing.T) {
	p, first := twoBoards().Build(zap.NewNop())

	type snapshot struct {
		in, out    [][]int
		boards     [][]int
		candidates [][]int
		roots      []string
	}
	take := func() snapshot {
		var s snapshot
		for _, e := range p.Elements {
			s.in = append(s.in, slices.Clone(e.In))
			s.out = append(s.out, slices.Clone(e.Out))
		}
		for _, b := range p.AllBoards() {
			s.boards = append(s.boards, slices.Clone(b.Elements))
			s.candidates = append(s.candidates, slices.Clone(b.Candidates))
			s.roots = append(s.roots, b.RootID)
		}
		return s
	}

	before := take()
	second := p.Relink(zap.NewNop())
	third := p.Relink(zap.NewNop())
	after := take()

	if !reflect.DeepEqual(before, after) {
		t.Errorf("Relink is not idempotent:\nbefore %+v\nafter  %+v", before, after)
	}
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(second, third) {
		t.Errorf("Relink reports differ: %+v / %+v / %+v", first, second, third)
	}
	for i, e := range p.Elements {
		if len(e.In) != len(before.in[i]) || len(e.Out) != len(before.out[i]) {
			t.Errorf("Element %q connection counts changed", e.ID)
		}
	}
}

func TestRelink_DanglingReferences(t *testing.T) {
	p := projecttest.New("dangling").Board("A", "A", "e1").Project()
	board := p.Boards[0].(*project.Board)
	board.ElementIDs = append(board.ElementIDs, "missing-element")
	board.NoteIDs = []string{"n1"}
	p.Attributes = []project.Attribute{{ID: "a1"}}
	p.Assets = []project.AssetEntry{&project.Asset{ID: "img", Name: "img.png", Image: &project.Image{Path: "assets/img.png"}}}
	p.Components = []project.ComponentEntry{
		&project.Component{ID: "comp", AttributeIDs: []string{"a1", "a2"}, CoverID: "nope"},
		&project.ComponentFolder{ID: "cf", Children: []string{"comp"}},
	}
	p.Elements[0].ComponentIDs = []string{"comp", "cf", "ghost"}
	p.Elements[0].CoverID = "img"

	log, logs := observedLogger()
	rpt := p.Relink(log)

	want := []project.Dangling{
		{Kind: "attribute", Owner: "comp", Missing: "a2"},
		{Kind: "cover", Owner: "comp", Missing: "nope"},
		{Kind: "component", Owner: "e1", Missing: "cf"},
		{Kind: "component", Owner: "e1", Missing: "ghost"},
		{Kind: "note", Owner: "A", Missing: "n1"},
		{Kind: "element", Owner: "A", Missing: "missing-element"},
	}
	if !reflect.DeepEqual(rpt.Dangling, want) {
		t.Errorf("Dangling = %+v\nwant %+v", rpt.Dangling, want)
	}
	if logs.Len() < len(want) {
		t.Errorf("Expected at least %d warnings, got %d", len(want), logs.Len())
	}

	comp := p.Component("comp")
	if len(comp.Attributes) != 1 || p.Attributes[comp.Attributes[0]].ID != "a1" {
		t.Errorf("Component attributes = %v, want [a1]", comp.Attributes)
	}
	if comp.Cover != nil {
		t.Error("Component cover should stay unresolved")
	}
	e1 := p.Element("e1")
	if len(e1.Components) != 1 {
		t.Errorf("Element components = %v, want one", e1.Components)
	}
	if e1.Cover == nil || e1.Cover.Path != "assets/img.png" {
		t.Errorf("Element cover = %+v, want assets/img.png", e1.Cover)
	}
}

func TestRelink_OrphanedElementLosesCover(t *testing.T) {
	p := projecttest.New("cover").Board("A", "A", "e1").Project()
	p.Assets = []project.AssetEntry{&project.Asset{ID: "img", Name: "img.png", Image: &project.Image{Path: "assets/img.png"}}}
	p.Elements[0].CoverID = "img"

	p.Relink(zap.NewNop())
	if p.Elements[0].Cover == nil {
		t.Fatal("Element cover not resolved")
	}

	p.Boards[0].(*project.Board).ElementIDs = nil
	p.Relink(zap.NewNop())

	e := p.Element("e1")
	if e.Board != -1 {
		t.Errorf("Board = %d, want -1", e.Board)
	}
	if e.Cover != nil {
		t.Errorf("Cover = %+v, want nil for orphaned element", e.Cover)
	}
}

func TestRelink_ElementOwnership(t *testing.T) {
	log, logs := observedLogger()
	p, rpt := projecttest.New("ownership").
		Board("A", "A", "e1", "e2", "e1").
		Board("B", "B", "e2", "e3").
		Element("orphan", "Orphan", "").
		Connect("c1", "e1", "orphan", "").
		Build(log)

	if got := p.BoardForElement("e2"); got == nil || got.ID != "A" {
		t.Errorf("e2 board = %v, want A", got)
	}
	if got := p.Board("A").Elements; len(got) != 2 {
		t.Errorf("A elements = %v, want 2 entries", got)
	}
	if got := p.Board("B").Elements; len(got) != 1 {
		t.Errorf("B elements = %v, want 1 entry", got)
	}
	if logs.FilterMessage("Element already belongs to another board, skipping").Len() != 1 {
		t.Error("Expected warning for element listed by two boards")
	}
	if !reflect.DeepEqual(rpt.Orphans, []string{"orphan"}) {
		t.Errorf("Orphans = %v, want [orphan]", rpt.Orphans)
	}
	if p.Connection("c1").Linked {
		t.Error("Connection to orphan element must be excluded")
	}
}

func TestRelink_Duplicates(t *testing.T) {
	b := projecttest.New("dups").Board("A", "A", "e1", "e2").Connect("c1", "e1", "e2", "")
	p := b.Project()
	p.Elements = append(p.Elements, project.Element{ID: "e1", Title: project.Text{Plain: "shadow"}})

	log, logs := observedLogger()
	rpt := p.Relink(log)

	if !slices.Contains(rpt.Duplicates, "e1") {
		t.Errorf("Duplicates = %v, want e1", rpt.Duplicates)
	}
	if logs.FilterMessage("Duplicate id detected, skipping").Len() != 1 {
		t.Error("Expected duplicate warning")
	}
	if got := p.Element("e1").Title.Plain; got != "e1" {
		t.Errorf("Element e1 title = %q, first definition must win", got)
	}
	if len(rpt.Orphans) != 0 {
		t.Errorf("Shadowed duplicate reported as orphan: %v", rpt.Orphans)
	}
}

func TestRelink_StartingBoardReset(t *testing.T) {
	p := projecttest.New("start").Folder("f", "Folder", true, "A").Board("A", "A", "e1").Project()
	p.StartingBoard = 0
	p.Relink(zap.NewNop())
	if p.StartingBoard != -1 {
		t.Errorf("StartingBoard = %d, folder must not be starting board", p.StartingBoard)
	}
}
