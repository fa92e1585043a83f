package project_test

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"arcrun/project"
	"arcrun/project/projecttest"
)

func hierarchy() *project.Project {
	p, _ := projecttest.New("p").
		Folder("root", "Root", true, "act1", "fin", "missing").
		Folder("act1", "Act 1", false, "intro", "cave").
		Board("intro", "The Intro", "e1").
		Board("cave", "Dark Cave", "e2").
		Board("fin", "Finale", "e3").
		Board("loose", "Loose Ends", "e4").
		Build(zap.NewNop())
	return p
}

func TestBoardPaths(t *testing.T) {
	log, logs := observedLogger()
	got := hierarchy().BoardPaths(log)
	want := []project.BoardPath{
		{ID: "intro", Path: "Act 1/The Intro", Slug: "act-1/the-intro"},
		{ID: "cave", Path: "Act 1/Dark Cave", Slug: "act-1/dark-cave"},
		{ID: "fin", Path: "Finale", Slug: "finale"},
		{ID: "loose", Path: "Loose Ends", Slug: "loose-ends"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BoardPaths() =\n%+v\nwant\n%+v", got, want)
	}
	if logs.FilterMessage("Board folder child not found, skipping").Len() != 1 {
		t.Error("Expected warning for missing folder child")
	}
}

func TestBoardPaths_NoRootFolder(t *testing.T) {
	p, _ := projecttest.New("p").Board("A", "Alpha", "e1").Build(zap.NewNop())
	log, logs := observedLogger()
	got := p.BoardPaths(log)
	if len(got) != 1 || got[0].Path != "Alpha" {
		t.Errorf("BoardPaths() = %+v", got)
	}
	if logs.FilterMessage("Unable to find root board folder").Len() != 1 {
		t.Error("Expected warning for missing root folder")
	}
}

func TestFindBoard(t *testing.T) {
	p := hierarchy()
	tests := []struct {
		key  string
		want string
	}{
		{"cave", "cave"},
		{"dark cave", "cave"},
		{"act-1/the-intro", "intro"},
		{"Act 1/Dark Cave", "cave"},
		{"nothing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			b := p.FindBoard(tt.key, zap.NewNop())
			got := ""
			if b != nil {
				got = b.ID
			}
			if got != tt.want {
				t.Errorf("FindBoard(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
