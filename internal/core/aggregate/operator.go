package aggregate

import (
	"github.com/shopspring/decimal"
)

// Supported reduction operators for grouped series.
const (
	OpCount = "count"
	OpSum   = "sum"
	OpMin   = "min"
	OpMax   = "max"
)

// Reducer defines the fold semantics of a grouped reduction.
// To add an operator: implement this interface and register it in
// Operators. Group loops stay a single map lookup — no switch.
type Reducer interface {
	// Initial returns the group value after its first record.
	// count → 1; sum/min/max → the incoming value itself.
	Initial(incoming decimal.Decimal) decimal.Decimal

	// Apply folds an incoming value into an existing group value.
	Apply(current, incoming decimal.Decimal) decimal.Decimal
}

// Operators is the registry of all supported reduction operators.
var Operators = map[string]Reducer{
	OpCount: countReducer{},
	OpSum:   sumReducer{},
	OpMin:   minReducer{},
	OpMax:   maxReducer{},
}

// ValidOperator reports whether op is a registered reduction operator.
func ValidOperator(op string) bool {
	_, ok := Operators[op]
	return ok
}

// countReducer increments by 1 per record. The incoming value is ignored.
type countReducer struct{}

func (countReducer) Initial(_ decimal.Decimal) decimal.Decimal { return decimal.NewFromInt(1) }
func (countReducer) Apply(cur, _ decimal.Decimal) decimal.Decimal {
	return cur.Add(decimal.NewFromInt(1))
}

// sumReducer accumulates the sum of incoming values.
type sumReducer struct{}

func (sumReducer) Initial(v decimal.Decimal) decimal.Decimal      { return v }
func (sumReducer) Apply(cur, inc decimal.Decimal) decimal.Decimal { return cur.Add(inc) }

// minReducer tracks the minimum value seen.
type minReducer struct{}

func (minReducer) Initial(v decimal.Decimal) decimal.Decimal { return v }
func (minReducer) Apply(cur, inc decimal.Decimal) decimal.Decimal {
	if inc.LessThan(cur) {
		return inc
	}
	return cur
}

// maxReducer tracks the maximum value seen.
type maxReducer struct{}

func (maxReducer) Initial(v decimal.Decimal) decimal.Decimal { return v }
func (maxReducer) Apply(cur, inc decimal.Decimal) decimal.Decimal {
	if inc.GreaterThan(cur) {
		return inc
	}
	return cur
}
