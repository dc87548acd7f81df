package criteria

import (
	"fmt"
	"strings"
)

// ParseError indicates a malformed filter clause. The whole parse fails
// atomically; no partial plan is produced.
type ParseError struct {
	Clause string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed filter clause: %q", e.Clause)
}

// Parse turns a comma-separated filter expression into a Plan.
//
// An empty (or all-whitespace) expression yields an empty plan, which
// matches every record. A single malformed clause fails the entire parse
// with a *ParseError naming that clause.
func Parse(expr string) (*Plan, error) {
	plan := &Plan{}

	if strings.TrimSpace(expr) == "" {
		return plan, nil
	}

	for _, raw := range strings.Split(expr, ",") {
		clause := strings.TrimSpace(raw)

		fields := strings.Fields(clause)
		if len(fields) < 3 {
			return nil, &ParseError{Clause: clause}
		}

		op, ok := ParseOp(fields[1])
		if !ok {
			return nil, &ParseError{Clause: clause}
		}

		// Everything after the operator is the operand; only a quoted
		// string operand may contain spaces.
		operand := strings.Join(fields[2:], " ")
		if len(fields) > 3 && !isQuoted(operand) {
			return nil, &ParseError{Clause: clause}
		}

		plan.Criteria = append(plan.Criteria, Criterion{
			Property: fields[0],
			Op:       op,
			Value:    coerce(operand),
		})
	}

	return plan, nil
}

// ParseCriterion builds a single-criterion Plan from an explicit
// (property, operator, value) triple. It applies the same operand typing
// as Parse, so both query surfaces yield equivalent plans for equivalent
// semantics.
func ParseCriterion(property, op, value string) (*Plan, error) {
	property = strings.TrimSpace(property)
	parsedOp, ok := ParseOp(strings.TrimSpace(op))
	if property == "" || !ok {
		return nil, &ParseError{Clause: strings.TrimSpace(property + " " + op + " " + value)}
	}

	return &Plan{Criteria: []Criterion{{
		Property: property,
		Op:       parsedOp,
		Value:    coerce(strings.TrimSpace(value)),
	}}}, nil
}
