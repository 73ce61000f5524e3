// Package render projects incident reports into labeled sections and writes
// them as plain text, printable HTML, CSV or Markdown.
package render

import (
	"strings"

	"github.com/ewill123/nec-callcenter/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder stands in for an absent value.
const Placeholder = "-"

// Separator divides consecutive reports in multi-report text output.
const Separator = "----------------------------------------"

type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Rendered is one report laid out in sections.
type Rendered struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
}

type layoutSection struct {
	title string
	keys  []string
}

var layout = []layoutSection{
	{"General Information", []string{"date", "time_of_incident", "time_of_report", "caller_name", "caller_mobile", "sex"}},
	{"Location", []string{"precinct_name", "precinct_code", "polling_place_number", "location"}},
	{"Witness", []string{"witness_choice", "witness_role"}},
	{"Incident Details", []string{"incident_choice", "incident_other", "resolution"}},
}

// Label turns a field key into a heading: "caller_mobile" -> "Caller Mobile".
// A cases.Caser keeps state between calls, so each call gets its own.
func Label(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Keys lists every rendered field key in section order.
func Keys() []string {
	var keys []string
	for _, s := range layout {
		keys = append(keys, s.keys...)
	}
	return keys
}

// Value returns the rendered content of key for r, or Placeholder.
func Value(r model.IncidentReport, key string) string {
	var v string
	switch key {
	case "date":
		v = r.Date
	case "time_of_incident":
		v = r.TimeOfIncident
	case "time_of_report":
		v = r.TimeOfReport
	case "caller_name":
		v = r.CallerName
	case "caller_mobile":
		v = r.CallerMobile
	case "sex":
		v = string(r.Sex)
	case "precinct_name":
		v = r.PrecinctName
	case "precinct_code":
		v = r.PrecinctCode
	case "polling_place_number":
		v = r.PollingPlaceNumber
	case "location":
		v = r.Location
	case "witness_choice":
		v = string(r.WitnessChoice)
	case "witness_role":
		v = r.WitnessRole
	case "incident_choice":
		v = string(r.IncidentChoice)
	case "incident_other":
		v = r.IncidentOther
	case "resolution":
		v = r.Resolution
	}
	if strings.TrimSpace(v) == "" {
		return Placeholder
	}
	return v
}

// Render lays r out in the four fixed sections.
func Render(r model.IncidentReport) []Section {
	sections := make([]Section, len(layout))
	for i, s := range layout {
		fields := make([]Field, len(s.keys))
		for j, key := range s.keys {
			fields[j] = Field{Key: key, Label: Label(key), Value: Value(r, key)}
		}
		sections[i] = Section{Title: s.title, Fields: fields}
	}
	return sections
}

// RenderAll renders each report in input order.
func RenderAll(reports []model.IncidentReport) []Rendered {
	out := make([]Rendered, len(reports))
	for i, r := range reports {
		out[i] = Rendered{ID: r.ID, Sections: Render(r)}
	}
	return out
}
