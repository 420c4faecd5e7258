package payroll

type Breakdown struct {
	Net        float64 `json:"net"`
	Deductions float64 `json:"deductions"`
	Gross      float64 `json:"gross"`
}

// Rates are percentages, so 15 means 15%.
type Rates struct {
	TaxRate             float64 `json:"taxRate"`
	SocialInsuranceRate float64 `json:"socialInsuranceRate"`
	HealthInsuranceRate float64 `json:"healthInsuranceRate"`
}

type Statement struct {
	CompanyName  string
	EmployeeName string
	Email        string
	Month        string
	Currency     string
	Hours        float64
	HourlyRate   float64
	Entries      int
	Breakdown    Breakdown
}
