package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	v1 "github.com/mirador-lab/project-mirador/internal/api/v1"
)

func isoDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatMoney renders a 2-decimal currency string with a dollar prefix
// and thousands separators: 1234567.8 → "$1,234,567.80".
func FormatMoney(d decimal.Decimal) string {
	fixed := d.Round(2).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), fracPart)
}

// decorate applies the currency-formatting overlay to a computed bundle.
// The raw numbers stay untouched; only label fields are filled in.
func decorate(bundle *v1.Bundle) *v1.Bundle {
	for i := range bundle.TableRows {
		row := &bundle.TableRows[i]
		row.SumLabel = FormatMoney(decimal.NewFromFloat(row.Sum))
		row.MeanLabel = FormatMoney(decimal.NewFromFloat(row.Mean))
	}

	for _, key := range []string{"total_revenue", "average_sale", "last_price"} {
		if v, ok := bundle.KPIs[key].(float64); ok {
			bundle.KPIs[key+"_label"] = FormatMoney(decimal.NewFromFloat(v))
		}
	}
	return bundle
}
