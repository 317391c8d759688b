package xlgrid

import "fmt"

// ComputeMergeRect returns the bounding rectangle of cells (component-wise
// minimum and maximum of row and column) and stamps it on every cell. The
// cells need not be contiguous. A single cell yields a 1x1 rect, which the
// writer treats as no merge.
func ComputeMergeRect(cells []*Cell) (AreaRef, error) {
	if len(cells) == 0 {
		return AreaRef{}, ErrEmptyMerge
	}

	first := cells[0]
	top, left := first.Row, first.Col
	bottom, right := first.Row, first.Col
	for _, c := range cells[1:] {
		top = min(top, c.Row)
		left = min(left, c.Col)
		bottom = max(bottom, c.Row)
		right = max(right, c.Col)
	}

	rect := NewAreaRef(At(top, left), At(bottom, right))
	for _, c := range cells {
		c.MergeRect = &rect
	}
	return rect, nil
}

// MergePolicy decides which trailing borders a merged block inherits.
type MergePolicy int

const (
	// TrailingCellBorders takes right and bottom from the last cell.
	TrailingCellBorders MergePolicy = iota
	// OrientedBorders takes right from the last cell for a single-row merge,
	// bottom for a single-column merge, and both for a block.
	OrientedBorders
	// LeadingCellBorders uses the first cell's style as is.
	LeadingCellBorders
)

func (p MergePolicy) String() string {
	switch p {
	case TrailingCellBorders:
		return "trailing"
	case OrientedBorders:
		return "oriented"
	case LeadingCellBorders:
		return "leading"
	default:
		return fmt.Sprintf("MergePolicy(%d)", int(p))
	}
}

// ParseMergePolicy converts "trailing", "oriented" or "leading".
func ParseMergePolicy(name string) (MergePolicy, error) {
	for _, p := range []MergePolicy{TrailingCellBorders, OrientedBorders, LeadingCellBorders} {
		if p.String() == name {
			return p, nil
		}
	}
	return TrailingCellBorders, fmt.Errorf("unknown merge policy %q", name)
}

// MergeStyle is the style of the merged block: the first cell's style with
// trailing borders taken from the last cell according to policy. A missing
// border on the last cell counts as no border.
func MergeStyle(cells []*Cell, rect AreaRef, policy MergePolicy) Format {
	if len(cells) == 0 {
		return NewFormat()
	}
	style := cells[0].Style
	last := cells[len(cells)-1].Style

	size := rect.Size()
	takeRight, takeBottom := true, true
	switch policy {
	case LeadingCellBorders:
		return style
	case OrientedBorders:
		takeRight = size.Width > 1
		takeBottom = size.Height > 1
	}

	patch := Props{}
	if takeRight {
		patch[KeyRight] = last.Int(KeyRight)
	}
	if takeBottom {
		patch[KeyBottom] = last.Int(KeyBottom)
	}
	return style.Overlay(patch)
}
