package tabular

import (
	"bytes"
	"html/template"
)

var tableTemplate = template.Must(template.New("table").Parse(
	`<table class="table table-striped table-bordered table-hover table-sm">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>`))

// HTML renders the table as a striped bootstrap table fragment.
func (t *Table) HTML() (string, error) {
	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}
