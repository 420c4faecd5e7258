package settings

import "worklog/internal/domain/payroll"

const SingletonID = "settings-1"

type Settings struct {
	ID                  string  `json:"id"`
	CompanyName         string  `json:"companyName" validate:"required"`
	TaxRate             float64 `json:"taxRate" validate:"gte=0,lte=50"`
	SocialInsuranceRate float64 `json:"socialInsuranceRate" validate:"gte=0,lte=20"`
	HealthInsuranceRate float64 `json:"healthInsuranceRate" validate:"gte=0,lte=20"`
	Currency            string  `json:"currency"`
	WorkingHoursPerDay  float64 `json:"workingHoursPerDay" validate:"gte=1,lte=24"`
	WorkingDaysPerWeek  int     `json:"workingDaysPerWeek" validate:"gte=1,lte=7"`
}

func Defaults() Settings {
	return Settings{
		ID:                  SingletonID,
		CompanyName:         "Moje Firma",
		TaxRate:             15,
		SocialInsuranceRate: 6.5,
		HealthInsuranceRate: 4.5,
		Currency:            payroll.DefaultCurrency,
		WorkingHoursPerDay:  8,
		WorkingDaysPerWeek:  5,
	}
}

func (s Settings) Rates() payroll.Rates {
	return payroll.Rates{
		TaxRate:             s.TaxRate,
		SocialInsuranceRate: s.SocialInsuranceRate,
		HealthInsuranceRate: s.HealthInsuranceRate,
	}
}
