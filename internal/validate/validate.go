package validate

import (
	"database/sql"
	"database/sql/driver"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bookshop/internal/domain"
)

// DateLayout is the day-month-year input format for release date cut-offs.
const DateLayout = "02-01-2006"

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// Null* columns validate as their inner value, or as nil when absent.
	val.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if dv, ok := f.Interface().(driver.Valuer); ok {
			if x, err := dv.Value(); err == nil {
				return x
			}
		}
		return nil
	}, sql.NullString{})
	_ = val.RegisterValidation("edition_type", func(fl validator.FieldLevel) bool {
		return domain.EditionType(fl.Field().Int()).Valid()
	})
	_ = val.RegisterValidation("age_restriction", func(fl validator.FieldLevel) bool {
		return domain.AgeRestriction(fl.Field().Int()).Valid()
	})
	_ = val.RegisterValidation("release_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.DateLayout, fl.Field().String())
		return err == nil
	})
	return val
}

// Struct checks an entity against its validate tags.
func Struct(s any) error {
	return v.Struct(s)
}

// Int parses a whole number, surrounding blanks allowed.
func Int(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Year parses a calendar year in 1..9999.
func Year(s string) (int, bool) {
	n, ok := Int(s)
	if !ok || n < 1 || n > 9999 {
		return 0, false
	}
	return n, true
}

// Date parses dd-MM-yyyy.
func Date(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Amount parses a finite decimal amount such as a price increment.
func Amount(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Words lower-cases s and splits it on any run of blanks.
func Words(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
