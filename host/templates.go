// Package host implements terminal front end: command actions which import
// projects, play them interactively and inspect them.
package host

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"arcrun/config"
	"arcrun/project"
)

// ElementValues is what element template could use.
type ElementValues struct {
	Context string
	ID      string
	Board   string
	Title   string
	Content string
	// Styled content keeps <b> and <i> markers
	Styled     string
	Components []string
	Choices    int
}

// ChoiceValues is what choice template could use.
type ChoiceValues struct {
	Context string
	Index   int
	Label   string
	Target  string
}

// Renderer expands configured play templates.
type Renderer struct {
	element     *template.Template
	choice      *template.Template
	labelLength int
}

func parseTemplate(name config.TemplateFieldName, field string) (*template.Template, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	return tmpl, nil
}

func NewRenderer(cfg *config.PlayConfig) (*Renderer, error) {
	element, err := parseTemplate(config.ElementTemplateFieldName, cfg.ElementTemplate)
	if err != nil {
		return nil, err
	}
	choice, err := parseTemplate(config.ChoiceTemplateFieldName, cfg.ChoiceTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{element: element, choice: choice, labelLength: cfg.LabelLength}, nil
}

func execute(tmpl *template.Template, values any) (string, error) {
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Element renders element together with its numbered choices, one per line.
func (r *Renderer) Element(p *project.Project, e *project.Element) (string, error) {
	values := ElementValues{
		Context: string(config.ElementTemplateFieldName),
		ID:      e.ID,
		Title:   e.Title.Plain,
		Content: e.Content.Plain,
		Styled:  e.Content.Styled,
		Choices: len(e.Out),
	}
	if b := p.BoardAt(e.Board); b != nil {
		values.Board = b.Name
	}
	for _, ci := range e.Components {
		values.Components = append(values.Components, p.Components[ci].EntryName())
	}

	out, err := execute(r.element, values)
	if err != nil {
		return "", fmt.Errorf("unable to render element %q: %w", e.ID, err)
	}

	buf := bytes.NewBufferString(out)
	for i, ci := range e.Out {
		choice := ChoiceValues{
			Context: string(config.ChoiceTemplateFieldName),
			Index:   i + 1,
			Label:   p.ChoiceLabel(ci, r.labelLength),
		}
		if ei, ok := p.Target(p.ConnectionAt(ci)); ok {
			choice.Target = p.Elements[ei].ID
		}
		line, err := execute(r.choice, choice)
		if err != nil {
			return "", fmt.Errorf("unable to render choice %d of element %q: %w", i+1, e.ID, err)
		}
		buf.WriteString("\n")
		buf.WriteString(line)
	}
	return buf.String(), nil
}
