package render

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/ewill123/nec-callcenter/internal/model"
)

// WriteText writes reports as "Label: value" lines under section titles,
// with Separator between reports.
func WriteText(w io.Writer, reports []model.IncidentReport) error {
	var b strings.Builder
	for i, r := range RenderAll(reports) {
		if i > 0 {
			b.WriteString(Separator + "\n")
		}
		for _, s := range r.Sections {
			b.WriteString(s.Title + "\n")
			for _, f := range s.Fields {
				fmt.Fprintf(&b, "  %s: %s\n", f.Label, f.Value)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

const printStyles = `
    @page { size: A4; margin: 15mm; }
    body { font-family: Arial, sans-serif; font-size: 12px; color: #111; line-height: 1.5; }
    h1 { text-align: center; font-size: 22px; margin-bottom: 10px; }
    h2 { font-size: 16px; margin-top: 12px; border-bottom: 1px solid #ddd; padding-bottom: 3px; }
    .section { margin-bottom: 12px; page-break-inside: avoid; }
    .field { margin-bottom: 6px; }
    .label { font-weight: bold; display: inline-block; width: 160px; }
    .report { page-break-after: always; }
    .report:last-child { page-break-after: auto; }
`

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title><style>{{.Styles}}</style></head>
<body>
<h1>{{.Heading}}</h1>
{{range .Reports}}<div class="report">
{{range .Sections}}<div class="section"><h2>{{.Title}}</h2>
{{range .Fields}}<div class="field"><span class="label">{{.Label}}:</span> {{.Value}}</div>
{{end}}</div>
{{end}}</div>
{{end}}</body></html>
`))

// WriteHTML writes a print-ready page. One report is titled
// "NEC Incident Report", several "NEC Incident Reports", each on its own page.
func WriteHTML(w io.Writer, reports []model.IncidentReport) error {
	title := "Incident Report"
	if len(reports) != 1 {
		title = "Incident Reports"
	}
	return printTemplate.Execute(w, struct {
		Title   string
		Heading string
		Styles  template.CSS
		Reports []Rendered
	}{
		Title:   title,
		Heading: "NEC " + title,
		Styles:  template.CSS(printStyles),
		Reports: RenderAll(reports),
	})
}

// WriteCSV writes a header row of labels followed by one row per report.
func WriteCSV(w io.Writer, reports []model.IncidentReport) error {
	writer := csv.NewWriter(w)

	keys := Keys()
	header := make([]string, 0, len(keys)+2)
	header = append(header, "ID")
	for _, k := range keys {
		header = append(header, Label(k))
	}
	header = append(header, "Status")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range reports {
		row := make([]string, 0, len(header))
		row = append(row, r.ID)
		for _, k := range keys {
			v := Value(r, k)
			if v == Placeholder {
				v = ""
			}
			row = append(row, v)
		}
		row = append(row, string(r.Status))
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteMarkdown writes each report as a heading with one table per section.
func WriteMarkdown(w io.Writer, reports []model.IncidentReport) error {
	var b strings.Builder
	b.WriteString("# NEC Incident Reports\n\n")
	for i, r := range reports {
		if i > 0 {
			b.WriteString("---\n\n")
		}
		fmt.Fprintf(&b, "## %s: %s\n\n", Value(r, "date"), Value(r, "caller_name"))
		if r.ID != "" {
			fmt.Fprintf(&b, "- **ID**: %s\n- **Status**: %s\n\n", r.ID, r.Status)
		}
		for _, s := range Render(r) {
			fmt.Fprintf(&b, "### %s\n\n| Field | Value |\n|-------|-------|\n", s.Title)
			for _, f := range s.Fields {
				fmt.Fprintf(&b, "| %s | %s |\n", f.Label, escapeCell(f.Value))
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
