package xlgrid

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/olekukonko/ll"
	"github.com/xuri/excelize/v2"
)

// ExcelizeWriter implements GridWriter on top of an excelize workbook.
type ExcelizeWriter struct {
	file       *excelize.File
	path       string         // saved on Close when set
	styleCache map[string]int // Format fingerprint → style ID
	sheets     map[string]bool // lower-cased; xlsx sheet names ignore case
	opts       *Options
	log        *ll.Logger

	mu sync.Mutex // protects concurrent access
}

// NewExcelizeWriter creates a writer over a fresh in-memory workbook.
func NewExcelizeWriter(opts ...Option) *ExcelizeWriter {
	o := buildOptions(opts)
	return &ExcelizeWriter{
		file:       excelize.NewFile(),
		styleCache: make(map[string]int),
		sheets:     make(map[string]bool),
		opts:       o,
		log:        o.logger.Namespace("excelize"),
	}
}

// OpenWriter creates a writer whose workbook is saved to path on Close.
func OpenWriter(path string, opts ...Option) *ExcelizeWriter {
	w := NewExcelizeWriter(opts...)
	w.path = path
	return w
}

// AddSheet creates a worksheet. The first sheet takes over the workbook's
// default sheet.
func (w *ExcelizeWriter) AddSheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := strings.ToLower(name)
	if w.sheets[key] {
		return writeErr("add sheet", name, "", fmt.Errorf("%w: sheet %q", ErrDuplicateName, name))
	}
	if len(w.sheets) == 0 {
		def := w.file.GetSheetName(0)
		if def != name {
			if err := w.file.SetSheetName(def, name); err != nil {
				return writeErr("add sheet", name, "", err)
			}
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return writeErr("add sheet", name, "", err)
	}
	w.sheets[key] = true
	w.log.Debugf("sheet %q added", name)
	return nil
}

// styleID returns the excelize style for f, registering it on first use.
// Caller must hold mu.
func (w *ExcelizeWriter) styleID(sheet, cell string, f Format) (int, error) {
	key := f.Fingerprint()
	if id, ok := w.styleCache[key]; ok {
		return id, nil
	}
	style, ignored, err := excelizeStyle(f, w.opts.strictStyles)
	if err != nil {
		return 0, writeErr("style", sheet, cell, err)
	}
	for _, msg := range ignored {
		w.log.Debugf("%s!%s: ignoring style %s", sheet, cell, msg)
	}
	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, writeErr("style", sheet, cell, err)
	}
	w.styleCache[key] = id
	return id, nil
}

// applyStyle styles the range top..bottom. Caller must hold mu.
func (w *ExcelizeWriter) applyStyle(sheet, top, bottom string, f Format) error {
	id, err := w.styleID(sheet, top, f)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(sheet, top, bottom, id); err != nil {
		return writeErr("style", sheet, top, err)
	}
	return nil
}

// WriteCell writes a plain text cell.
func (w *ExcelizeWriter) WriteCell(sheet string, ref CellRef, text string, style Format) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cell := ref.CellName()
	if err := w.file.SetCellValue(sheet, cell, text); err != nil {
		return writeErr("write cell", sheet, cell, err)
	}
	return w.applyStyle(sheet, cell, cell, style)
}

// WriteRich writes a cell whose characters carry their own fonts. Adjacent
// characters with the same style share one run.
func (w *ExcelizeWriter) WriteRich(sheet string, ref CellRef, runs []Run, style Format) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cell := ref.CellName()
	merged := Coalesce(runs)
	rich := make([]excelize.RichTextRun, 0, len(merged))
	for _, r := range merged {
		rich = append(rich, excelize.RichTextRun{Text: r.Text, Font: richFont(r.Style)})
	}
	if err := w.file.SetCellRichText(sheet, cell, rich); err != nil {
		return writeErr("write rich text", sheet, cell, err)
	}
	return w.applyStyle(sheet, cell, cell, style)
}

// WriteURL writes a hyperlink cell displaying text.
func (w *ExcelizeWriter) WriteURL(sheet string, ref CellRef, text, url string, style Format) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cell := ref.CellName()
	display := text
	if display == "" {
		display = url
	}
	if err := w.file.SetCellValue(sheet, cell, display); err != nil {
		return writeErr("write url", sheet, cell, err)
	}
	linkType := "External"
	if strings.HasPrefix(url, "#") {
		linkType = "Location"
		url = strings.TrimPrefix(url, "#")
	}
	if err := w.file.SetCellHyperLink(sheet, cell, url, linkType, excelize.HyperlinkOpts{Display: &display}); err != nil {
		return writeErr("write url", sheet, cell, err)
	}
	return w.applyStyle(sheet, cell, cell, style)
}

// Merge merges rect, writes text into its top-left cell and styles the whole
// range so every edge carries the block's borders.
func (w *ExcelizeWriter) Merge(sheet string, rect AreaRef, text string, style Format) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	top, bottom := rect.First.CellName(), rect.Last.CellName()
	if err := w.file.MergeCell(sheet, top, bottom); err != nil {
		return writeErr("merge", sheet, top+":"+bottom, err)
	}
	if err := w.file.SetCellValue(sheet, top, text); err != nil {
		return writeErr("merge", sheet, top, err)
	}
	return w.applyStyle(sheet, top, bottom, style)
}

// InsertComment attaches a note to a cell.
func (w *ExcelizeWriter) InsertComment(sheet string, ref CellRef, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cell := ref.CellName()
	err := w.file.AddComment(sheet, excelize.Comment{
		Cell:   cell,
		Author: w.opts.commentAuthor,
		Text:   text,
	})
	return writeErr("comment", sheet, cell, err)
}

// InsertImage anchors a picture at a cell.
func (w *ExcelizeWriter) InsertImage(sheet string, ref CellRef, img Image) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ext := ".png"
	switch strings.ToUpper(img.Type) {
	case "JPEG", "JPG":
		ext = ".jpg"
	case "GIF":
		ext = ".gif"
	case "BMP":
		ext = ".bmp"
	}
	scaleX, scaleY := img.XScale, img.YScale
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}

	cell := ref.CellName()
	err := w.file.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: ext,
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			OffsetX: img.XOffset,
			OffsetY: img.YOffset,
			ScaleX:  scaleX,
			ScaleY:  scaleY,
		},
	})
	return writeErr("image", sheet, cell, err)
}

// SetZoom sets the sheet zoom percentage.
func (w *ExcelizeWriter) SetZoom(sheet string, percent int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	zoom := float64(percent)
	err := w.file.SetSheetView(sheet, -1, &excelize.ViewOptions{ZoomScale: &zoom})
	return writeErr("zoom", sheet, "", err)
}

// FreezePanes keeps the rows above and the columns left of ref in view.
func (w *ExcelizeWriter) FreezePanes(sheet string, ref CellRef) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ref.Row == 0 && ref.Col == 0 {
		return nil
	}
	pane := "bottomRight"
	switch {
	case ref.Col == 0:
		pane = "bottomLeft"
	case ref.Row == 0:
		pane = "topRight"
	}
	cell := ref.CellName()
	err := w.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      ref.Col,
		YSplit:      ref.Row,
		TopLeftCell: cell,
		ActivePane:  pane,
	})
	return writeErr("freeze panes", sheet, cell, err)
}

// SetRowHeight sets the height of a 0-based row.
func (w *ExcelizeWriter) SetRowHeight(sheet string, row int, height float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.file.SetRowHeight(sheet, row+1, height)
	return writeErr("row height", sheet, fmt.Sprintf("row %d", row+1), err)
}

// SetColumnWidth sets the width of the 0-based columns first..last.
func (w *ExcelizeWriter) SetColumnWidth(sheet string, first, last int, width float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	from, to := ColToName(first), ColToName(last)
	err := w.file.SetColWidth(sheet, from, to, width)
	return writeErr("column width", sheet, from+":"+to, err)
}

// SetAutoFilter adds filter buttons over rect.
func (w *ExcelizeWriter) SetAutoFilter(sheet string, rect AreaRef) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ref := rect.First.CellName() + ":" + rect.Last.CellName()
	err := w.file.AutoFilter(sheet, ref, nil)
	return writeErr("autofilter", sheet, ref, err)
}

// Write writes the workbook to out.
func (w *ExcelizeWriter) Write(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return writeErr("write", "", "", w.file.Write(out))
}

// Close saves the workbook when the writer was opened on a path, then
// releases it.
func (w *ExcelizeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var saveErr error
	if w.path != "" {
		saveErr = writeErr("save", "", w.path, w.file.SaveAs(w.path))
	}
	if err := w.file.Close(); err != nil && saveErr == nil {
		return writeErr("close", "", "", err)
	}
	return saveErr
}

// File returns the underlying excelize file for advanced operations. It is
// not guarded by the writer's lock: do not use it while other goroutines
// are writing through w.
func (w *ExcelizeWriter) File() *excelize.File {
	return w.file
}
