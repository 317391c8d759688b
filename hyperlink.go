package xlgrid

// HyperlinkValue is a clickable link placed in a cell. A URL starting with
// "#" points inside the workbook (e.g. "#Summary!A1").
type HyperlinkValue struct {
	URL     string
	Display string
}

// String returns the display text for the hyperlink.
func (h HyperlinkValue) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// Hyperlink creates a HyperlinkValue.
func Hyperlink(url, display string) HyperlinkValue {
	return HyperlinkValue{URL: url, Display: display}
}

// AppendLink appends a hyperlink cell showing the link's display text.
func (c *Column) AppendLink(link HyperlinkValue, opts ...CellOption) *Cell {
	opts = append(opts, WithURL(link.URL))
	return c.Append(link.String(), opts...)
}
