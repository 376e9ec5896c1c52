package query

// Ellipsis is the placeholder token in a compressed page window.
const Ellipsis = "..."

// Page describes one slice of a paginated sequence. StartIndex and EndIndex
// are the raw slice bounds before clamping, so EndIndex may exceed the
// sequence length on the final page.
type Page struct {
	Items      []Tagged
	TotalPages int
	StartIndex int
	EndIndex   int
}

// Paginate slices items into the fixed-size page at currentPage (1-based).
// The caller clamps currentPage to [1, TotalPages]; the function itself does
// not, and an out-of-range page yields an empty or short Items slice.
func Paginate(items []Tagged, pageSize, currentPage int) Page {
	if pageSize <= 0 {
		return Page{}
	}
	total := (len(items) + pageSize - 1) / pageSize
	start := (currentPage - 1) * pageSize
	end := start + pageSize
	var pageItems []Tagged
	if start < len(items) && start >= 0 {
		if end > len(items) {
			pageItems = items[start:]
		} else {
			pageItems = items[start:end]
		}
	}
	return Page{Items: pageItems, TotalPages: total, StartIndex: start, EndIndex: end}
}

// PageWindow computes the compressed page-number controls for the given
// position. Entries are either int page numbers or the Ellipsis string. The
// branching is exact:
//
//	totalPages <= 5:              1..totalPages
//	currentPage <= 3:             [1 2 3 4 ... totalPages]
//	currentPage >= totalPages-2:  [1 ... totalPages-3 .. totalPages]
//	otherwise:                    [1 ... c-1 c c+1 ... totalPages]
func PageWindow(currentPage, totalPages int) []any {
	var pages []any
	if totalPages <= 5 {
		for i := 1; i <= totalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}
	switch {
	case currentPage <= 3:
		pages = append(pages, 1, 2, 3, 4, Ellipsis, totalPages)
	case currentPage >= totalPages-2:
		pages = append(pages, 1, Ellipsis)
		for i := totalPages - 3; i <= totalPages; i++ {
			pages = append(pages, i)
		}
	default:
		pages = append(pages, 1, Ellipsis, currentPage-1, currentPage, currentPage+1, Ellipsis, totalPages)
	}
	return pages
}
