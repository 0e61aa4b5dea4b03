package parse

import (
	"math"
	"strings"

	"github.com/jobsieve/jobsieve/internal/model"
)

// periodMultipliers annualize a salary figure: 2080 working hours per year
// (40 h/week × 52 weeks) and 12 months per year.
var periodMultipliers = map[string]float64{
	model.PeriodHourly:  2080,
	model.PeriodMonthly: 12,
	model.PeriodYearly:  1,
}

// convertToINRYearly converts a stated salary range to reference-currency
// yearly figures. Unknown currencies pass through unconverted (they are
// assumed to already be INR by the caller). A figure that would exceed the
// numeric ceiling after conversion is dropped rather than wrapped, and a
// reversed range is swapped.
func convertToINRYearly(min, max *int64, currency, period string, rates map[string]float64) (*int64, *int64) {
	if min == nil && max == nil {
		return nil, nil
	}

	var rate float64 = 1
	if currency != "" && !strings.EqualFold(currency, model.ReferenceCurrency) {
		if r, ok := rates[strings.ToUpper(currency)]; ok && !math.IsNaN(r) && !math.IsInf(r, 0) && r > 0 {
			rate = r
		}
	}

	mult, ok := periodMultipliers[period]
	if !ok {
		mult = 1
	}

	min = scaleSalary(min, rate*mult)
	max = scaleSalary(max, rate*mult)

	if min != nil && max != nil && *max < *min {
		min, max = max, min
	}
	return min, max
}

func scaleSalary(v *int64, factor float64) *int64 {
	if v == nil {
		return nil
	}
	converted := float64(*v) * factor
	if math.IsNaN(converted) || math.IsInf(converted, 0) || converted > maxNumeric {
		return nil
	}
	r := int64(math.Round(converted))
	return &r
}
