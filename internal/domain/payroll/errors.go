package payroll

import "errors"

var ErrStatementRender = errors.New("pay statement could not be rendered")
