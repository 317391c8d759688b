package xlgrid

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Writing will fail or produce a broken file
	SeverityWarning                 // Output may not look as intended
)

// ValidationIssue represents a single problem found in a sheet tree.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []ValidationIssue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks sheets for problems the writer would trip over or silently
// paper over: bad sheet names, cells outside the grid, overlapping merges,
// cells written twice, rich-text spans outside their text and style values
// the writer does not understand.
func Validate(sheets ...*Sheet) []ValidationIssue {
	var issues []ValidationIssue
	names := make(map[string]bool)
	for _, s := range sheets {
		issues = append(issues, validateSheetName(s, names)...)
		issues = append(issues, validateSheet(s)...)
	}
	return issues
}

func validateSheetName(s *Sheet, names map[string]bool) []ValidationIssue {
	var issues []ValidationIssue
	ref := NewCellRef(s.Name, 0, 0)
	switch {
	case s.Name == "":
		issues = append(issues, ValidationIssue{SeverityError, ref, "sheet name is empty"})
	case SafeSheetName(s.Name) != s.Name:
		issues = append(issues, ValidationIssue{SeverityWarning, ref,
			fmt.Sprintf("sheet name %q will be written as %q", s.Name, SafeSheetName(s.Name))})
	}
	key := strings.ToLower(SafeSheetName(s.Name))
	if names[key] {
		issues = append(issues, ValidationIssue{SeverityError, ref, fmt.Sprintf("duplicate sheet name %q", s.Name)})
	}
	names[key] = true

	if s.Zoom != 0 && (s.Zoom < 10 || s.Zoom > 400) {
		issues = append(issues, ValidationIssue{SeverityWarning, ref, fmt.Sprintf("zoom %d outside 10..400", s.Zoom)})
	}
	return issues
}

func validateSheet(s *Sheet) []ValidationIssue {
	var issues []ValidationIssue
	sheetRef := func(row, col int) CellRef { return NewCellRef(s.Name, row, col) }

	var cells []*Cell
	for _, t := range s.Tables() {
		for _, col := range t.Columns() {
			cells = append(cells, col.Cells()...)
		}
	}
	cells = append(cells, s.Cells()...)

	occupied := make(map[CellRef]bool)
	styleKeys := make(map[string]bool)
	var rects []AreaRef
	seenRects := make(map[AreaRef]bool)

	for _, c := range cells {
		ref := sheetRef(c.Row, c.Col)
		if c.Row < 0 || c.Col < 0 || c.Row >= MaxRows || c.Col >= MaxColumns {
			issues = append(issues, ValidationIssue{SeverityError, ref,
				fmt.Sprintf("cell (%d, %d) is outside the sheet grid", c.Row, c.Col)})
			continue
		}

		pos := At(c.Row, c.Col)
		if occupied[pos] {
			issues = append(issues, ValidationIssue{SeverityWarning, ref, "more than one cell at this position; the last one written wins"})
		}
		occupied[pos] = true

		n := utf8.RuneCountInString(c.Text)
		for _, ss := range c.Spans {
			if ss.Span.Start < 0 || ss.Span.End > n || ss.Span.Start > ss.Span.End {
				issues = append(issues, ValidationIssue{SeverityWarning, ref,
					fmt.Sprintf("span %s outside text of length %d is clamped", ss.Span, n)})
			}
		}

		for _, k := range UnrecognizedKeys(c.Style) {
			if !styleKeys[k] {
				styleKeys[k] = true
				issues = append(issues, ValidationIssue{SeverityWarning, ref, fmt.Sprintf("style key %q is ignored by the writer", k)})
			}
		}
		for _, k := range []string{KeyColor, KeyFontColor, KeyBgColor, KeyBorderColor} {
			if v := c.Style.Str(k); v != "" {
				if _, err := ResolveColor(v); err != nil {
					issues = append(issues, ValidationIssue{SeverityWarning, ref, fmt.Sprintf("%s: %v", k, err)})
				}
			}
		}

		if c.IsMerged() && !seenRects[*c.MergeRect] {
			seenRects[*c.MergeRect] = true
			rects = append(rects, *c.MergeRect)
		}
	}

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				issues = append(issues, ValidationIssue{SeverityError, sheetRef(rects[j].First.Row, rects[j].First.Col),
					fmt.Sprintf("merge %s overlaps merge %s", rects[j], rects[i])})
			}
		}
	}

	for _, img := range s.Images() {
		if len(img.Image.Data) == 0 {
			issues = append(issues, ValidationIssue{SeverityError, sheetRef(img.Ref.Row, img.Ref.Col), "image has no data"})
		}
	}
	return issues
}
