// Package view shapes an ordered report list for the dashboard: it pages the
// list, groups a page by calendar date and looks records up for detail and
// print views. Input is expected newest date first, as the store returns it.
package view

import "github.com/ewill123/nec-callcenter/internal/model"

// PageSize is the number of reports on one dashboard page.
const PageSize = 12

type DateGroup struct {
	Date    string                 `json:"date"`
	Reports []model.IncidentReport `json:"reports"`
}

// Page is one dashboard page: the page slice grouped by date plus the
// numbers needed to navigate.
type Page struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Groups     []DateGroup `json:"groups"`
}

// Paginate returns records[(page-1)*size : page*size], clamped to the list.
// Pages before the first or past the last are empty.
func Paginate(records []model.IncidentReport, page, size int) []model.IncidentReport {
	if size < 1 {
		size = PageSize
	}
	if page < 1 || page > TotalPages(len(records), size) {
		return []model.IncidentReport{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func TotalPages(total, size int) int {
	if size < 1 {
		size = PageSize
	}
	return (total + size - 1) / size
}

// GroupByDate partitions records by date. Groups appear in the order their
// date first occurs and records keep their input order inside a group.
func GroupByDate(records []model.IncidentReport) []DateGroup {
	groups := []DateGroup{}
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Date]
		if !ok {
			i = len(groups)
			index[r.Date] = i
			groups = append(groups, DateGroup{Date: r.Date})
		}
		groups[i].Reports = append(groups[i].Reports, r)
	}
	return groups
}

// Expand returns the complete group for date taken from the full,
// unpaginated list. A date whose reports straddle a page boundary therefore
// expands to all of its reports, not only those on the visible page.
func Expand(all []model.IncidentReport, date string) DateGroup {
	group := DateGroup{Date: date, Reports: []model.IncidentReport{}}
	for _, r := range all {
		if r.Date == date {
			group.Reports = append(group.Reports, r)
		}
	}
	return group
}

func Find(all []model.IncidentReport, id string) (model.IncidentReport, bool) {
	for _, r := range all {
		if r.ID == id {
			return r, true
		}
	}
	return model.IncidentReport{}, false
}

// BuildPage pages all and groups the resulting slice. Page numbers below 1
// are treated as 1.
func BuildPage(all []model.IncidentReport, page, size int) Page {
	if size < 1 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	return Page{
		Page:       page,
		Limit:      size,
		Total:      len(all),
		TotalPages: TotalPages(len(all), size),
		Groups:     GroupByDate(Paginate(all, page, size)),
	}
}
