package apperr

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockShape.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		return validDay(fl.Field().String())
	})
	return v
}

var (
	clockShape = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	dayShape   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// validDay accepts only real calendar days written as YYYY-MM-DD.
func validDay(value string) bool {
	if !dayShape.MatchString(value) {
		return false
	}
	_, err := time.Parse(time.DateOnly, value)
	return err == nil
}

// EmailShape reports whether value looks like an email address.
func EmailShape(value string) bool {
	return emailShape.MatchString(strings.TrimSpace(value))
}

// Checker collects field issues from struct tags and ad hoc rules.
type Checker struct {
	issues []FieldIssue
}

func NewChecker() *Checker {
	return &Checker{}
}

// Struct runs the tag-based rules of v.
func (c *Checker) Struct(v any) *Checker {
	err := validate.Struct(v)
	if err == nil {
		return c
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		c.Add("payload", err.Error())
		return c
	}
	for _, fe := range fieldErrs {
		c.Add(fe.Field(), reasonFor(fe.Tag(), fe.Param()))
	}
	return c
}

func (c *Checker) Add(field, reason string) *Checker {
	c.issues = append(c.issues, FieldIssue{Field: field, Reason: reason})
	return c
}

func (c *Checker) Check(ok bool, field, reason string) *Checker {
	if !ok {
		c.Add(field, reason)
	}
	return c
}

func (c *Checker) Err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

func reasonFor(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	case "oneof":
		return "must be one of: " + param
	case "emailshape":
		return "must be a valid email address"
	case "clock":
		return "must be a time in HH:MM format"
	case "day":
		return "must be a date in YYYY-MM-DD format"
	case "contains":
		return "must contain " + param
	case "eqfield":
		return "must match " + param
	default:
		return "is invalid"
	}
}
