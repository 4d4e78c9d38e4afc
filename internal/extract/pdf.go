package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads pages 1..N in order, row by row, one newline between pages.
func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: pdf parser panic: %v", ErrCorruptDocument, rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	if r.NumPage() == 0 {
		return "", fmt.Errorf("%w: pdf has no pages", ErrCorruptDocument)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		var b strings.Builder
		for _, row := range rows {
			writeRow(&b, row.Content)
			b.WriteByte('\n')
		}
		pages = append(pages, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(pages, "\n"), nil
}

// wordGapRatio is the horizontal gap, as a fraction of the font size, that
// separates two words on a row.
const wordGapRatio = 0.2

// writeRow joins the text runs of one row. Runs drawn at the same position
// (pieces of one TJ array) are concatenated; a run that starts past the end of
// the previous one is preceded by a space.
func writeRow(b *strings.Builder, row pdf.TextHorizontal) {
	var prev *pdf.Text
	for i := range row {
		word := &row[i]
		if word.S == "" {
			continue
		}
		if prev != nil && needsSpace(*prev, *word) {
			b.WriteByte(' ')
		}
		b.WriteString(word.S)
		prev = word
	}
}

func needsSpace(prev, cur pdf.Text) bool {
	if endsWithSpace(prev.S) || startsWithSpace(cur.S) {
		return false
	}
	gap := cur.X - (prev.X + prev.W)
	threshold := wordGapRatio * cur.FontSize
	if threshold <= 0 {
		// Row text carries no width or font size, so any forward step counts.
		threshold = 0.01
	}
	return gap > threshold
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
