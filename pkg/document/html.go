package document

import (
	"html/template"
	"io"
)

type htmlRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer renders an embeddable HTML fragment (no <html> wrapper)
func NewHTMLRenderer() Renderer {
	return &htmlRenderer{
		tmpl: template.Must(template.New("document").Funcs(template.FuncMap{
			"cell":  cell,
			"align": htmlAlign,
		}).Parse(htmlTemplate)),
	}
}

func (r *htmlRenderer) Format() Format      { return FormatHTML }
func (r *htmlRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *htmlRenderer) Render(w io.Writer, doc *Document) error {
	return r.tmpl.Execute(w, doc)
}

func htmlAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

const htmlTemplate = `<div class="bill-card">
{{- if .Badge}}
  <div class="bill-indicator">{{.Badge}}</div>
{{- end}}
  <div class="bill-card-header">
    <h3>{{.Title}}</h3>
{{- if .Subtitle}}
    <p>{{.Subtitle}}</p>
{{- end}}
  </div>
{{- range .Sections}}
  <section class="bill-section">
{{- if .Heading}}
    <h4>{{.Heading}}</h4>
{{- end}}
{{- if .Fields}}
    <div class="bill-meta">
{{- range .Fields}}
      <div{{if .Class}} class="{{.Class}}"{{end}}><span>{{if .Strong}}<strong>{{.Label}}:</strong>{{else}}{{.Label}}:{{end}}</span> <span>{{.Value}}</span></div>
{{- end}}
    </div>
{{- end}}
{{- with .Table}}
    <div class="bill-items">
      <table>
        <thead>
          <tr>{{range .Columns}}<th style="text-align:{{align .Align}}">{{.Title}}</th>{{end}}</tr>
        </thead>
        <tbody>
{{- $cols := .Columns}}
{{- range .Rows}}
{{- $row := .}}
          <tr>{{range $i, $c := $cols}}<td style="text-align:{{align $c.Align}}">{{cell $row $i}}</td>{{end}}</tr>
{{- else}}
          <tr><td colspan="{{len $cols}}" class="empty">{{if .Empty}}{{.Empty}}{{else}}No items{{end}}</td></tr>
{{- end}}
        </tbody>
      </table>
    </div>
{{- end}}
  </section>
{{- end}}
{{- if .Actions}}
  <div class="bill-actions">
{{- range .Actions}}
    <button class="btn-small" data-action="{{.Name}}" data-method="{{.Method}}" data-href="{{.Href}}">{{.Label}}</button>
{{- end}}
  </div>
{{- end}}
{{- if .Footer}}
  <p class="bill-footer">{{.Footer}}</p>
{{- end}}
</div>
`
