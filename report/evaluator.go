package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator evaluates report expressions.
type Evaluator interface {
	Evaluate(expression string, env map[string]any) (any, error)
	IsConditionTrue(condition string, env map[string]any) (bool, error)
}

// exprEvaluator implements Evaluator using expr-lang/expr.
type exprEvaluator struct {
	cache sync.Map // expression string → compiled *vm.Program
}

// NewEvaluator creates an Evaluator backed by expr-lang/expr. Compiled
// programs are cached per expression.
func NewEvaluator() Evaluator {
	return &exprEvaluator{}
}

func (e *exprEvaluator) Evaluate(expression string, env map[string]any) (any, error) {
	if expression == "" {
		return nil, nil
	}
	program, err := e.compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *exprEvaluator) IsConditionTrue(condition string, env map[string]any) (bool, error) {
	result, err := e.Evaluate(condition, env)
	if err != nil {
		return false, err
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q evaluated to %T, expected bool", condition, result)
	}
	return b, nil
}

func (e *exprEvaluator) compile(expression string) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.cache.Store(expression, program)
	return program, nil
}

const (
	notationBegin = "${"
	notationEnd   = "}"
)

// segment is a part of a text: literal or expression.
type segment struct {
	isExpression bool
	text         string // literal text or expression content (without delimiters)
}

// parseSegments splits text into literal and ${expression} parts.
// "Total: ${total}" → [{false, "Total: "}, {true, "total"}]
func parseSegments(value string) []segment {
	var segments []segment
	remaining := value

	for {
		startIdx := strings.Index(remaining, notationBegin)
		if startIdx < 0 {
			break
		}

		searchFrom := startIdx + len(notationBegin)
		endIdx := findMatchingEnd(remaining[searchFrom:])
		if endIdx < 0 {
			break
		}
		endIdx += searchFrom

		if startIdx > 0 {
			segments = append(segments, segment{text: remaining[:startIdx]})
		}
		segments = append(segments, segment{isExpression: true, text: remaining[searchFrom:endIdx]})
		remaining = remaining[endIdx+len(notationEnd):]
	}

	if remaining != "" {
		segments = append(segments, segment{text: remaining})
	}
	return segments
}

// findMatchingEnd finds the closing brace, skipping nested pairs such as
// map literals.
func findMatchingEnd(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// Interpolate replaces every ${expression} in text with its value.
func Interpolate(ev Evaluator, text string, env map[string]any) (string, error) {
	if !strings.Contains(text, notationBegin) {
		return text, nil
	}
	var b strings.Builder
	for _, seg := range parseSegments(text) {
		if !seg.isExpression {
			b.WriteString(seg.text)
			continue
		}
		v, err := ev.Evaluate(seg.text, env)
		if err != nil {
			return "", err
		}
		b.WriteString(formatValue(v))
	}
	return b.String(), nil
}

// formatValue renders an expression result as cell text. nil is empty.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.6f", t), "0"), ".")
	case float32:
		return formatValue(float64(t))
	default:
		return fmt.Sprint(t)
	}
}
