package payroll

// EmployerContributionRate is the fixed employer add-on (25% social and 9%
// health, as applied historically) used by the gross-from-hours formula.
const EmployerContributionRate = "0.338"

const (
	StatementTitle  = "Monthly pay statement"
	DefaultCurrency = "CZK"
)
