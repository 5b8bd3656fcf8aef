package popup

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
)

const popupTemplate = `
{{- with .Title}}<h4>{{.}}</h4>{{end}}
{{- with .Subtitle}}<h5>{{.}}</h5>{{end}}
{{- range .Fields}}
  {{- if eq .Kind "image"}}
    {{- if .Href}}<img src="{{.Href}}" alt="*">{{end}}
  {{- else if .Href}}
    <p>{{.Label}}: <a href="{{.Href}}"{{if eq .Kind "link"}} target="_blank" rel="noopener"{{end}}>{{.Text}}</a></p>
  {{- else if .Text}}
    <p>{{.Label}}: {{.Text}}</p>
  {{- end}}
{{- end}}`

var (
	tmpl     = template.Must(template.New("popup").Parse(popupTemplate))
	minifier = newMinifier()
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)
	return m
}

type htmlField struct {
	Kind  Kind
	Label string
	Text  string
	Href  template.URL
}

type htmlContent struct {
	Title    string
	Subtitle string
	Fields   []htmlField
}

// RenderHTML renders content as a minified HTML fragment. All text is
// escaped; hrefs outside http, https, mailto and tel are dropped.
func RenderHTML(c Content) (string, error) {
	view := htmlContent{
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Fields:   make([]htmlField, 0, len(c.Fields)),
	}
	for _, f := range c.Fields {
		view.Fields = append(view.Fields, htmlField{
			Kind:  f.Kind,
			Label: f.Label,
			Text:  f.Text,
			Href:  safeURL(f.Href),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render popup: %w", err)
	}

	out, err := minifier.String("text/html", buf.String())
	if err != nil {
		return "", fmt.Errorf("minify popup: %w", err)
	}
	return out, nil
}

func safeURL(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel", "":
		return template.URL(u.String())
	default:
		return ""
	}
}
