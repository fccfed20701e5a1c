// Package extractor wraps the PDF library behind the thin text-layer
// interface the pipeline consumes: ordered lines per page, pages in
// document order. Statements in the supported class are born digital, so
// the text layer is authoritative and no OCR is attempted.
package extractor

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rumor-ml/commons.systems/ccparse/internal/normalize"
)

// ExtractPages reads the document's text layer and returns one Page per
// PDF page, lines in reading order. The file handle is released on every
// exit path before the pages are returned; library panics (malformed
// cross-reference tables and the like) are recovered into errors.
func ExtractPages(path string) (pages []normalize.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("PDF library crashed reading %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF %s has no pages", path)
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		lines, rowErr := linesByRow(page)
		if rowErr != nil || len(lines) == 0 {
			// Row extraction fails on some generators; the
			// coordinate-based reconstruction handles those.
			lines = linesByContent(page)
		}

		pages = append(pages, normalize.Page{Number: i, Lines: lines})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no text could be extracted from %s", path)
	}
	return pages, nil
}

// linesByRow uses the library's row grouping, which preserves layout best
// on well-structured text layers.
func linesByRow(page pdf.Page) ([]string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// linesByContent reconstructs rows from raw text fragments: group by Y
// coordinate, sort top-to-bottom (PDF Y grows upward), then left-to-right
// within a row. Fragments are joined with single spaces; the normalizer
// collapses any duplication.
func linesByContent(page pdf.Page) []string {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	type fragment struct {
		x float64
		s string
	}
	rows := make(map[int][]fragment)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		rows[y] = append(rows[y], fragment{x: t.X, s: t.S})
	}

	ys := make([]int, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var lines []string
	for _, y := range ys {
		frags := rows[y]
		sort.Slice(frags, func(a, b int) bool { return frags[a].x < frags[b].x })

		parts := make([]string, len(frags))
		for i, frag := range frags {
			parts[i] = frag.s
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
