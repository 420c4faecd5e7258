package payroll

import "github.com/shopspring/decimal"

var (
	hundred            = decimal.NewFromInt(100)
	employerMultiplier = decimal.NewFromInt(1).Add(decimal.RequireFromString(EmployerContributionRate))
)

// Each formula below belongs to a different reporting purpose. They disagree
// with each other on what "gross" and "net" mean and are kept separate on
// purpose until the business settles on one definition.

// GrossFromHours is used by the admin and company reports:
// hours × rate × 1.338.
func GrossFromHours(hours, hourlyRate float64) float64 {
	return round(grossFromHours(hours, hourlyRate))
}

// LaborCost is the plain hours × rate figure shown in the time history and
// timesheet exports.
func LaborCost(hours, hourlyRate float64) float64 {
	return round(decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(hourlyRate)))
}

// NetThenDeductions is the employee-facing summary: net is hours × rate and
// gross adds the flat monthly deductions back on top.
func NetThenDeductions(hours, hourlyRate, monthlyDeductions float64) Breakdown {
	net := decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(hourlyRate))
	deductions := decimal.NewFromFloat(monthlyDeductions)
	return Breakdown{
		Net:        round(net),
		Deductions: round(deductions),
		Gross:      round(net.Add(deductions)),
	}
}

// SettingsNet applies the configured percentages to a gross figure and then
// subtracts the flat deductions. Used by the performance dashboard.
func SettingsNet(gross, deductions float64, rates Rates) float64 {
	g := decimal.NewFromFloat(gross)
	net := g.
		Sub(percentOf(g, rates.TaxRate)).
		Sub(percentOf(g, rates.SocialInsuranceRate)).
		Sub(percentOf(g, rates.HealthInsuranceRate)).
		Sub(decimal.NewFromFloat(deductions))
	return round(net)
}

// PerformanceSummary combines the gross-from-hours and settings-based formulas
// the way the performance dashboard reports them.
func PerformanceSummary(hours, hourlyRate, deductions float64, rates Rates) Breakdown {
	gross := GrossFromHours(hours, hourlyRate)
	return Breakdown{
		Gross:      gross,
		Deductions: round(decimal.NewFromFloat(deductions)),
		Net:        SettingsNet(gross, deductions, rates),
	}
}

// Sum adds values without accumulating float drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return round(total)
}

func grossFromHours(hours, hourlyRate float64) decimal.Decimal {
	return decimal.NewFromFloat(hours).
		Mul(decimal.NewFromFloat(hourlyRate)).
		Mul(employerMultiplier)
}

func percentOf(base decimal.Decimal, percent float64) decimal.Decimal {
	return base.Mul(decimal.NewFromFloat(percent)).Div(hundred)
}

func round(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}

// Contributions splits the employer's add-on for a labor cost total.
type Contributions struct {
	Employer     float64 `json:"employer"`
	Social       float64 `json:"social"`
	Health       float64 `json:"health"`
	Combined     float64 `json:"combined"`
	CombinedRate float64 `json:"combinedRate"`
}

// EmployerContributions reports the flat 33.8% employer share next to the
// configured social and health percentages of totalCost.
func EmployerContributions(totalCost float64, rates Rates) Contributions {
	cost := decimal.NewFromFloat(totalCost)
	social := percentOf(cost, rates.SocialInsuranceRate)
	health := percentOf(cost, rates.HealthInsuranceRate)
	return Contributions{
		Employer:     round(cost.Mul(decimal.RequireFromString(EmployerContributionRate))),
		Social:       round(social),
		Health:       round(health),
		Combined:     round(social.Add(health)),
		CombinedRate: round(decimal.NewFromFloat(rates.SocialInsuranceRate).Add(decimal.NewFromFloat(rates.HealthInsuranceRate))),
	}
}

// Whole rounds to the nearest whole currency unit, halves away from zero.
func Whole(value float64) float64 {
	return decimal.NewFromFloat(value).Round(0).InexactFloat64()
}
