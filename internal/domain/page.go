package domain

// EntryPage is the listing response envelope: one page of rows plus count,
// page math, and aggregate totals — all computed under the same EntryFilter.
type EntryPage struct {
	Data       []Entry `json:"data"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"totalPages"`
	Totals     Totals  `json:"totals"`
}

// NewEntryPage assembles the envelope from the three independent reads.
// Data is never nil so callers can always range and marshal it as [].
// TotalPages is ceil(Total/Limit) floored at 1, so an empty result still
// reads as "page 1 of 1".
func NewEntryPage(data []Entry, f EntryFilter, total int64, totals Totals) EntryPage {
	if data == nil {
		data = []Entry{}
	}
	pages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	if pages < 1 {
		pages = 1
	}
	return EntryPage{
		Data:       data,
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: pages,
		Totals:     totals,
	}
}
