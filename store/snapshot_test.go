package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"arcrun/common"
	"arcrun/project"
	"arcrun/project/projecttest"
)

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func sample(t *testing.T) *project.Project {
	t.Helper()

	b := projecttest.New("Snapshot sample").
		Folder("root", "Root", true, "f1").
		Folder("f1", "Chapter", false, "A", "B").
		Board("A", "Board A", "e1", "e2", "e3").
		Board("B", "Board B", "e4", "e5").
		Jumper("j1", "B", "e5").
		Connect("c1", "e1", "e2", "go on").
		Connect("c2", "e2", "j1", "").
		Connect("c3", "e4", "e5", "").
		Content("e2", "Second").
		Linked("e3", "B")

	p := b.Project()
	p.Assets = append(p.Assets,
		&project.AssetFolder{ID: "af", Name: "Root", Children: []string{"a1"}, Root: true},
		&project.Asset{ID: "a1", Name: "cover.png", Kind: common.AssetKindIcon,
			Image: &project.Image{Path: "assets/cover.png", MIME: "image/png", Width: 4, Height: 3}})
	p.Attributes = append(p.Attributes, project.Attribute{ID: "at1",
		Label:   project.Text{Raw: "<b>Age</b>", Styled: "<b>Age</b>", Plain: "Age"},
		Content: project.Text{Raw: "42", Styled: "42", Plain: "42"}})
	p.Components = append(p.Components,
		&project.Component{ID: "cmp1", Name: "Hero", AttributeIDs: []string{"at1"}, CoverID: "a1"},
		&project.ComponentFolder{ID: "cf", Name: "Root", Children: []string{"cmp1"}, Root: true})
	p.Notes = append(p.Notes, project.Note{ID: "n1", Content: project.Text{Raw: "note", Plain: "note"}})
	p.Elements[0].ComponentIDs = []string{"cmp1"}
	p.Elements[0].CoverID = "a1"
	p.RootPolicy = common.RootAmbiguityFail
	p.Relink(zap.NewNop())

	if err := p.SetStartingElement("e4"); err != nil {
		t.Fatalf("SetStartingElement() error = %v", err)
	}
	return p
}

func TestSaveLoad(t *testing.T) {
	p := sample(t)
	path := filepath.Join(t.TempDir(), "sample.arcrun")

	if err := Save(context.Background(), path, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !IsSnapshot(path) {
		t.Fatalf("IsSnapshot(%s) = false after Save", path)
	}

	got, err := Load(context.Background(), path, testLogger(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.String() != p.String() {
		t.Errorf("Restored project differs\n got:\n%s\nwant:\n%s", got.String(), p.String())
	}
	if got.Name != p.Name {
		t.Errorf("Name = %q, want %q", got.Name, p.Name)
	}
	if got.RootPolicy != common.RootAmbiguityFail {
		t.Errorf("RootPolicy = %v, want fail", got.RootPolicy)
	}
	if got.StartingBoard != p.StartingBoard || got.StartingElement != "e4" {
		t.Errorf("Starting = (%d, %q), want (%d, %q)", got.StartingBoard, got.StartingElement, p.StartingBoard, "e4")
	}

	b := got.Board("B")
	if b == nil || b.RootID != "e4" || !b.Pinned {
		t.Errorf("Board B root not restored: %+v", b)
	}

	a := got.Asset("a1")
	if a == nil || a.Image == nil {
		t.Fatalf("Asset a1 image not restored")
	}
	if *a.Image != *p.Asset("a1").Image {
		t.Errorf("Image = %+v, want %+v", *a.Image, *p.Asset("a1").Image)
	}
	if a.Kind != common.AssetKindIcon {
		t.Errorf("Kind = %v, want icon", a.Kind)
	}

	e := got.Element("e1")
	if e.Cover == nil || e.Cover.Path != "assets/cover.png" {
		t.Errorf("Element cover not relinked: %+v", e.Cover)
	}
	if len(e.Components) != 1 {
		t.Errorf("Element components = %v, want one", e.Components)
	}
	if got.Element("e3").LinkedBoard != "B" {
		t.Errorf("LinkedBoard not restored")
	}
	if got.Attribute("at1").Label.Styled != "<b>Age</b>" {
		t.Errorf("Attribute label = %+v", got.Attribute("at1").Label)
	}
}

func TestSave_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.arcrun")
	if err := os.WriteFile(path, []byte("old content"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := Save(context.Background(), path, sample(t)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := Load(context.Background(), path, testLogger(t)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoad_NotSnapshot(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "project_settings.json")
	if err := os.WriteFile(jsonPath, []byte(`{"name":"x"}`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"json document", jsonPath},
		{"missing file", filepath.Join(dir, "none.arcrun")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsSnapshot(tt.path) {
				t.Errorf("IsSnapshot(%s) = true", tt.path)
			}
			if _, err := Load(context.Background(), tt.path, testLogger(t)); !errors.Is(err, ErrNotSnapshot) {
				t.Errorf("Load() error = %v, want ErrNotSnapshot", err)
			}
		})
	}
}
