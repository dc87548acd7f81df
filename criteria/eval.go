package criteria

import (
	"strings"

	"github.com/hupe1980/esiq/model"
)

// resolve maps a property name to its typed value on the record.
//
// Flat counts resolve to the length of the collection (0 if absent),
// aggregates sum nested collection sizes across all planets, and name is a
// string identity field. Unknown properties resolve to ok=false; evaluation
// is total and never errors on them.
func resolve(rec *model.SolarSystem, property string) (Value, bool) {
	switch strings.ToLower(property) {
	case "planets":
		return Int(int64(len(rec.Planets))), true
	case "stargates":
		return Int(int64(len(rec.Stargates))), true
	case "stations":
		return Int(int64(len(rec.Stations))), true
	case "moons":
		return Int(int64(rec.MoonCount())), true
	case "belts":
		return Int(int64(rec.BeltCount())), true
	case "security":
		return Float(rec.SecurityStatus), true
	case "name":
		return String(rec.Name), true
	default:
		return Value{}, false
	}
}

// Matches checks if the record satisfies this criterion. An unrecognized
// property never matches.
func (c Criterion) Matches(rec *model.SolarSystem) bool {
	value, ok := resolve(rec, c.Property)
	if !ok {
		return false
	}

	switch c.Op {
	case OpEqual:
		return compareEqual(value, c.Value)
	case OpNotEqual:
		return !compareEqual(value, c.Value)
	case OpGreaterThan:
		return compareGreater(value, c.Value)
	case OpGreaterEqual:
		return compareGreater(value, c.Value) || compareEqual(value, c.Value)
	case OpLessThan:
		return compareLess(value, c.Value)
	case OpLessEqual:
		return compareLess(value, c.Value) || compareEqual(value, c.Value)
	default:
		return false
	}
}

// Matches checks if the record satisfies every criterion in the plan.
// It short-circuits on the first non-match.
func (p *Plan) Matches(rec *model.SolarSystem) bool {
	for _, c := range p.Criteria {
		if !c.Matches(rec) {
			return false
		}
	}
	return true
}

// MatchFirst returns the first record in source order satisfying the plan,
// or nil.
func MatchFirst(recs []*model.SolarSystem, plan *Plan) *model.SolarSystem {
	for _, rec := range recs {
		if plan.Matches(rec) {
			return rec
		}
	}
	return nil
}

// MatchAll returns every record satisfying the plan, preserving source
// order.
func MatchAll(recs []*model.SolarSystem, plan *Plan) []*model.SolarSystem {
	var out []*model.SolarSystem
	for _, rec := range recs {
		if plan.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// compareEqual compares two values for equality. Strings compare
// case-insensitively; strings and numbers never cross-coerce.
func compareEqual(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		// Prefer exact int compare when possible.
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.I64 == b.I64
		}
		return asFloat64(a) == asFloat64(b)
	}

	if a.Kind == KindString && b.Kind == KindString {
		return strings.EqualFold(a.S, b.S)
	}

	return false
}

// compareGreater and compareLess order numbers only; any ordering operator
// against a string field evaluates to non-match rather than an error.
func compareGreater(a, b Value) bool {
	if !isNumber(a) || !isNumber(b) {
		return false
	}
	return asFloat64(a) > asFloat64(b)
}

func compareLess(a, b Value) bool {
	if !isNumber(a) || !isNumber(b) {
		return false
	}
	return asFloat64(a) < asFloat64(b)
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func asFloat64(v Value) float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.I64)
	case KindFloat:
		return v.F64
	default:
		return 0
	}
}
