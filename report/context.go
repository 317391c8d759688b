package report

import (
	"github.com/javajack/xlgrid"
)

// Context holds the variables report expressions see: report-wide data such
// as records and total, plus the per-record variables of the table being
// filled (r, index, row, group, key).
type Context struct {
	data    map[string]any
	runVars map[string]any
	ev      Evaluator

	// Merged view of data and runVars. Reset whenever either changes.
	cachedMap map[string]any
}

// NewContext creates a Context over data evaluating with ev.
func NewContext(data map[string]any, ev Evaluator) *Context {
	if data == nil {
		data = make(map[string]any)
	}
	if ev == nil {
		ev = NewEvaluator()
	}
	return &Context{data: data, runVars: make(map[string]any), ev: ev}
}

// GetVar returns a variable. Run variables shadow data.
func (c *Context) GetVar(name string) any {
	if v, ok := c.runVars[name]; ok {
		return v
	}
	return c.data[name]
}

// PutVar sets a report-wide variable.
func (c *Context) PutVar(name string, value any) {
	c.data[name] = value
	c.cachedMap = nil
}

// ToMap returns data merged with the run variables. The hyperlink(url,
// display) function is always available unless a variable shadows it.
func (c *Context) ToMap() map[string]any {
	if c.cachedMap != nil {
		return c.cachedMap
	}
	m := make(map[string]any, len(c.data)+len(c.runVars)+1)
	for k, v := range c.data {
		m[k] = v
	}
	for k, v := range c.runVars {
		m[k] = v
	}
	if _, ok := m["hyperlink"]; !ok {
		m["hyperlink"] = xlgrid.Hyperlink
	}
	c.cachedMap = m
	return m
}

// Evaluate evaluates expression against the current variables.
func (c *Context) Evaluate(expression string) (any, error) {
	return c.ev.Evaluate(expression, c.ToMap())
}

// IsConditionTrue evaluates a boolean condition. An empty condition is true.
func (c *Context) IsConditionTrue(condition string) (bool, error) {
	if condition == "" {
		return true, nil
	}
	return c.ev.IsConditionTrue(condition, c.ToMap())
}

// Text replaces every ${expression} in text.
func (c *Context) Text(text string) (string, error) {
	return Interpolate(c.ev, text, c.ToMap())
}

func (c *Context) setRunVar(name string, value any) {
	c.runVars[name] = value
	c.cachedMap = nil
}

func (c *Context) removeRunVar(name string) {
	delete(c.runVars, name)
	c.cachedMap = nil
}

// RunVars scopes a set of run variables: Close restores whatever the names
// held before the scope was opened.
//
//	rv := ctx.Scope("r", "index")
//	defer rv.Close()
type RunVars struct {
	ctx   *Context
	saved map[string]any
	had   map[string]bool
}

// Scope opens a RunVars over names.
func (c *Context) Scope(names ...string) *RunVars {
	rv := &RunVars{ctx: c, saved: make(map[string]any, len(names)), had: make(map[string]bool, len(names))}
	for _, name := range names {
		old, ok := c.runVars[name]
		rv.saved[name] = old
		rv.had[name] = ok
	}
	return rv
}

// Set assigns a scoped variable. Names not passed to Scope are ignored.
func (rv *RunVars) Set(name string, value any) {
	if _, ok := rv.had[name]; !ok {
		return
	}
	rv.ctx.setRunVar(name, value)
}

// Close restores the variables. Designed for use with defer.
func (rv *RunVars) Close() {
	for name, had := range rv.had {
		if had {
			rv.ctx.setRunVar(name, rv.saved[name])
		} else {
			rv.ctx.removeRunVar(name)
		}
	}
}
