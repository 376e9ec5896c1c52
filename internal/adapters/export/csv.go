package export

import (
	"fmt"
	"strings"
	"time"

	"refcore/pkg/domain"
)

// Category names a reference-data collection selectable for export. Values
// match the bucket names.
type Category string

// Exportable categories in their canonical order.
const (
	CategoryLanguages Category = "languages"
	CategoryCountries Category = "countries"
	CategoryStates    Category = "states"
	CategoryDistricts Category = "districts"
)

// Categories returns every exportable category in canonical order.
func Categories() []Category {
	return []Category{CategoryLanguages, CategoryCountries, CategoryStates, CategoryDistricts}
}

// Valid reports whether the category is exportable.
func (c Category) Valid() bool {
	switch c {
	case CategoryLanguages, CategoryCountries, CategoryStates, CategoryDistricts:
		return true
	}
	return false
}

// timestampLayout matches the persisted ISO-8601 millisecond form.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// renderCategory converts one category's records to CSV. Every field,
// headers included, is wrapped in double quotes and rows are newline-joined
// with no trailing newline. An empty category renders to the empty string.
func renderCategory(c Category, view domain.TransactionView) (string, error) {
	switch c {
	case CategoryLanguages:
		rows := view.ListLanguages()
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.ID, r.Name, formatTime(r.CreatedAt)}
		}
		return renderCSV([]string{"id", "name", "createdAt"}, out), nil
	case CategoryCountries:
		rows := view.ListCountries()
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.ID, r.Name, formatTime(r.CreatedAt)}
		}
		return renderCSV([]string{"id", "name", "createdAt"}, out), nil
	case CategoryStates:
		rows := view.ListStates()
		out := make([][]string, len(rows))
		for i, r := range rows {
			countryID := ""
			if r.CountryID != nil {
				countryID = *r.CountryID
			}
			out[i] = []string{r.ID, r.Name, countryID, formatTime(r.CreatedAt)}
		}
		return renderCSV([]string{"id", "name", "countryId", "createdAt"}, out), nil
	case CategoryDistricts:
		rows := view.ListDistricts()
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.ID, r.Name, r.StateName, formatTime(r.CreatedAt)}
		}
		return renderCSV([]string{"id", "name", "state", "createdAt"}, out), nil
	}
	return "", fmt.Errorf("unknown export category %q", c)
}

// renderCSV quotes every field unconditionally. encoding/csv quotes only
// when needed, which would break byte-for-byte parity with the documented
// format, so rendering is done by hand.
func renderCSV(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	writeRow(&b, headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}

// renderCombined concatenates per-category blocks, each introduced by a blank
// line and an uppercase category header. Empty categories are skipped.
func renderCombined(categories []Category, view domain.TransactionView) (string, error) {
	var b strings.Builder
	for _, c := range categories {
		csv, err := renderCategory(c, view)
		if err != nil {
			return "", err
		}
		if csv == "" {
			continue
		}
		b.WriteByte('\n')
		b.WriteString(strings.ToUpper(string(c)))
		b.WriteByte('\n')
		b.WriteString(csv)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
