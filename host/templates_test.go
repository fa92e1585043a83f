package host

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"arcrun/config"
	"arcrun/project"
	"arcrun/project/projecttest"
)

// fork: E1 offers labeled choice to E2 and unlabeled one to E3.
func fork(t *testing.T) *project.Project {
	t.Helper()
	p, _ := projecttest.New("fork").
		Board("A", "Start", "E1", "E2", "E3").
		Content("E1", "You stand at a fork.").
		Content("E2", "Left path.").
		Content("E3", "Right path.").
		Connect("c1", "E1", "E2", "left").
		Connect("c2", "E1", "E3", "").
		Build(zap.NewNop())
	return p
}

func playConfig() *config.PlayConfig {
	return &config.PlayConfig{
		LabelLength:     40,
		ElementTemplate: "{{ .Title }}: {{ .Content }}",
		ChoiceTemplate:  "{{ .Index }}) {{ .Label }} -> {{ .Target }}",
	}
}

func TestRenderer_Element(t *testing.T) {
	p := fork(t)

	r, err := NewRenderer(playConfig())
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	tests := []struct {
		id   string
		want string
	}{
		{"E1", "E1: You stand at a fork.\n1) left -> E2\n2) E3 -> E3"},
		{"E2", "E2: Left path."},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := r.Element(p, p.Element(tt.id))
			if err != nil {
				t.Fatalf("Element() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Element() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_DefaultTemplates(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	p := fork(t)

	r, err := NewRenderer(&cfg.Play)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	got, err := r.Element(p, p.Element("E1"))
	if err != nil {
		t.Fatalf("Element() error = %v", err)
	}
	want := "[Start] E1\nYou stand at a fork.\n1) left\n2) E3"
	if got != want {
		t.Errorf("Element() = %q, want %q", got, want)
	}
}

func TestRenderer_Values(t *testing.T) {
	p := fork(t)
	p.Components = append(p.Components, &project.Component{ID: "cmp1", Name: "Hero"})
	p.Elements[p.ElementIndex("E2")].Components = []int{0}

	r, err := NewRenderer(&config.PlayConfig{
		LabelLength:     40,
		ElementTemplate: `{{ .Context }}|{{ .ID }}|{{ .Board }}|{{ join "," .Components }}|{{ .Choices }}`,
		ChoiceTemplate:  `{{ .Context }}`,
	})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	got, err := r.Element(p, p.Element("E2"))
	if err != nil {
		t.Fatalf("Element() error = %v", err)
	}
	if want := "element_template|E2|Start|Hero|0"; got != want {
		t.Errorf("Element() = %q, want %q", got, want)
	}

	got, err = r.Element(p, p.Element("E1"))
	if err != nil {
		t.Fatalf("Element() error = %v", err)
	}
	if !strings.HasSuffix(got, "\nchoice_template\nchoice_template") {
		t.Errorf("Element() = %q, want two choice lines", got)
	}
}

func TestNewRenderer_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PlayConfig
		want string
	}{
		{"element", config.PlayConfig{ElementTemplate: "{{ .Title ", ChoiceTemplate: "x"}, "element_template"},
		{"choice", config.PlayConfig{ElementTemplate: "x", ChoiceTemplate: "{{ end }}"}, "choice_template"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(&tt.cfg)
			if err == nil {
				t.Fatal("NewRenderer() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestRenderer_ExecuteError(t *testing.T) {
	p := fork(t)
	r, err := NewRenderer(&config.PlayConfig{ElementTemplate: "{{ .Missing }}", ChoiceTemplate: "x"})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	if _, err := r.Element(p, p.Element("E1")); err == nil {
		t.Error("Element() expected error for unknown field")
	}
}
