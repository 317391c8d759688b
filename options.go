package xlgrid

import (
	"io"

	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"
)

// Options holds configuration for writing sheets.
type Options struct {
	logger        *ll.Logger
	mergePolicy   MergePolicy
	strictStyles  bool
	commentAuthor string
	cellListeners []CellListener
	preWrite      func(GridWriter) error
}

func defaultOptions() *Options {
	return &Options{
		logger:        ll.New("xlgrid").Handler(lh.NewTextHandler(io.Discard)),
		mergePolicy:   TrailingCellBorders,
		commentAuthor: "xlgrid",
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures writing.
type Option func(*Options)

// WithLogger sets the logger used by the writer and exporter.
func WithLogger(logger *ll.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMergePolicy selects how merged blocks inherit trailing borders
// (default: TrailingCellBorders).
func WithMergePolicy(p MergePolicy) Option {
	return func(o *Options) { o.mergePolicy = p }
}

// WithStrictStyles makes style keys the writer does not understand an
// error (ErrUnsupportedStyleKey) instead of being ignored.
func WithStrictStyles(strict bool) Option {
	return func(o *Options) { o.strictStyles = strict }
}

// WithCommentAuthor sets the author recorded on cell comments (default: "xlgrid").
func WithCommentAuthor(author string) Option {
	return func(o *Options) { o.commentAuthor = author }
}

// WithCellListener adds a listener notified before/after each cell write.
func WithCellListener(listener CellListener) Option {
	return func(o *Options) { o.cellListeners = append(o.cellListeners, listener) }
}

// WithPreWrite sets a callback executed after all sheets are exported and
// before the output is written.
func WithPreWrite(fn func(GridWriter) error) Option {
	return func(o *Options) { o.preWrite = fn }
}
