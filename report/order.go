package report

import (
	"fmt"
	"slices"
	"strings"
)

// orderTerm is one comma-separated part of an order_by clause.
type orderTerm struct {
	expr string
	desc bool
}

// parseOrderBy parses a clause like "r.name, r.score DESC". Each term is an
// expression optionally followed by ASC or DESC.
func parseOrderBy(clause string) []orderTerm {
	var terms []orderTerm
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		term := orderTerm{expr: part}
		if i := strings.LastIndexByte(part, ' '); i > 0 {
			switch dir := strings.ToUpper(part[i+1:]); dir {
			case "DESC", "ASC":
				term.expr = strings.TrimSpace(part[:i])
				term.desc = dir == "DESC"
			}
		}
		terms = append(terms, term)
	}
	return terms
}

// sortRecords returns records stably sorted by clause. Sort keys are
// evaluated once per record with r and row bound.
func sortRecords(ctx *Context, clause string, records []map[string]any) ([]map[string]any, error) {
	terms := parseOrderBy(clause)
	if len(terms) == 0 || len(records) < 2 {
		return records, nil
	}

	type keyed struct {
		rec  map[string]any
		keys []any
	}
	rows := make([]keyed, len(records))

	rv := ctx.Scope("r", "row")
	defer rv.Close()
	for i, rec := range records {
		rv.Set("r", rec)
		rv.Set("row", i)
		keys := make([]any, len(terms))
		for j, term := range terms {
			v, err := ctx.Evaluate(term.expr)
			if err != nil {
				return nil, fmt.Errorf("order_by: %w", err)
			}
			keys[j] = v
		}
		rows[i] = keyed{rec: rec, keys: keys}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		for j, term := range terms {
			cmp := compareValues(a.keys[j], b.keys[j])
			if term.desc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp
			}
		}
		return 0
	})

	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out, nil
}

// compareValues orders nil first, numbers numerically and everything else
// by its printed form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	fa, aOk := toFloat64(a)
	fb, bOk := toFloat64(b)
	if aOk && bOk {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
