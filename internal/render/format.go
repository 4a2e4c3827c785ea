package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const fragmentTemplate = `
{{- with .Message}}{{.}}{{end -}}
{{- with .Output}}<pre>{{.}}</pre>{{end -}}
{{- range $i, $l := .Links}}{{if $i}}<br>{{end}}{{$l.Label}}: {{$l.Path}}{{end -}}
{{- with .Gallery}}<h4>{{.Title}}</h4>{{range .Images}}<div class="image-container">Image: {{.}}</div>{{end}}{{end -}}
`

var fragmentTmpl = template.Must(template.New("fragment").Parse(fragmentTemplate))

// HTML renders f as an escaped HTML snippet suitable for innerHTML.
func HTML(f Fragment) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragmentTmpl.Execute(&buf, f); err != nil {
		return "", fmt.Errorf("failed to render fragment: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Text renders f for a terminal.
func Text(f Fragment) string {
	var sb strings.Builder

	if f.Message != "" {
		sb.WriteString(f.Message)
		sb.WriteString("\n")
	}

	if f.Output != "" {
		sb.WriteString(strings.TrimRight(f.Output, "\n"))
		sb.WriteString("\n")
	}

	for _, link := range f.Links {
		fmt.Fprintf(&sb, "%s: %s\n", link.Label, link.Path)
	}

	if f.Gallery != nil {
		fmt.Fprintf(&sb, "%s\n", f.Gallery.Title)
		for _, image := range f.Gallery.Images {
			fmt.Fprintf(&sb, "  Image: %s\n", image)
		}
	}

	return sb.String()
}
