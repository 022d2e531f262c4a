package entities

import (
	"sort"
	"strconv"
	"strings"
)

// PageSelection упорядоченный набор номеров страниц (с 1) без повторов
type PageSelection []int

// ParsePageRange разбирает выражение вида "1-5, 8, 12-15".
// Пустая строка означает все страницы. Границы прижимаются к [1, totalPages],
// некорректные элементы пропускаются - функция никогда не возвращает ошибку.
func ParsePageRange(expr string, totalPages int) PageSelection {
	if totalPages <= 0 {
		return PageSelection{}
	}

	if strings.TrimSpace(expr) == "" {
		all := make(PageSelection, totalPages)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}

	seen := make(map[int]struct{})
	for _, token := range strings.Split(expr, ",") {
		start, end, ok := parseRangeToken(token)
		if !ok {
			continue
		}

		start = clampPage(start, totalPages)
		end = clampPage(end, totalPages)
		for p := start; p <= end; p++ {
			seen[p] = struct{}{}
		}
	}

	pages := make(PageSelection, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// parseRangeToken разбирает "N" или "start-end"
func parseRangeToken(token string) (int, int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, 0, false
	}

	parts := strings.Split(token, "-")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	case 2:
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, false
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, false
		}
		return start, end, true
	default:
		return 0, 0, false
	}
}

func clampPage(p, totalPages int) int {
	if p < 1 {
		return 1
	}
	if p > totalPages {
		return totalPages
	}
	return p
}

// Contains проверяет, входит ли страница в выборку
func (s PageSelection) Contains(page int) bool {
	i := sort.SearchInts(s, page)
	return i < len(s) && s[i] == page
}

// String возвращает каноническую запись выборки, например "1-5,8,12-15"
func (s PageSelection) String() string {
	if len(s) == 0 {
		return ""
	}

	var parts []string
	start, prev := s[0], s[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, strconv.Itoa(start)+"-"+strconv.Itoa(prev))
		}
	}

	for _, p := range s[1:] {
		if p == prev+1 {
			prev = p
			continue
		}
		flush()
		start, prev = p, p
	}
	flush()

	return strings.Join(parts, ",")
}
