package letter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pulosarok/desa/internal/domain/shared"
)

// DefaultNumberFormat is the format used when a tenant has not configured one
const DefaultNumberFormat = "{code}/{number:03d}/{month:02d}/{year}"

var (
	placeholderPattern = regexp.MustCompile(`\{([a-z_]+)(?::([^}]*))?\}`)
	intSpecPattern     = regexp.MustCompile(`^0?[0-9]*d$`)
)

var romanMonths = [...]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// RomanMonth returns the month as an upper-case roman numeral
func RomanMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return romanMonths[m-1]
}

// SequenceYear returns the counter partition for a date. Counters that never reset share year 0.
func SequenceYear(at time.Time, resetYearly bool) int {
	if !resetYearly {
		return 0
	}
	return at.Year()
}

// FormatNumber renders a letter number from a format string.
//
// Supported placeholders: {code}, {number}, {number:0Nd}, {month}, {month:02d},
// {month_roman}, {year}, {day}. Any other placeholder is an error.
func FormatNumber(format, code string, counter int64, at time.Time) (string, error) {
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(format, func(m string) string {
		parts := placeholderPattern.FindStringSubmatch(m)
		name, spec := parts[1], parts[2]
		val, err := placeholderValue(name, spec, code, counter, at)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return val
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func placeholderValue(name, spec, code string, counter int64, at time.Time) (string, error) {
	switch name {
	case "code":
		if spec != "" {
			return "", badPlaceholder(name, spec)
		}
		return code, nil
	case "number":
		return formatInt(name, spec, counter)
	case "month":
		return formatInt(name, spec, int64(at.Month()))
	case "day":
		return formatInt(name, spec, int64(at.Day()))
	case "year":
		return formatInt(name, spec, int64(at.Year()))
	case "month_roman":
		if spec != "" {
			return "", badPlaceholder(name, spec)
		}
		return RomanMonth(at.Month()), nil
	}
	return "", shared.NewDomainError("INVALID_NUMBER_FORMAT", fmt.Sprintf("Unknown placeholder {%s}", name))
}

func formatInt(name, spec string, v int64) (string, error) {
	if spec == "" {
		return strconv.FormatInt(v, 10), nil
	}
	if !intSpecPattern.MatchString(spec) {
		return "", badPlaceholder(name, spec)
	}
	return fmt.Sprintf("%"+spec, v), nil
}

func badPlaceholder(name, spec string) error {
	return shared.NewDomainError("INVALID_NUMBER_FORMAT", fmt.Sprintf("Unsupported format %q for {%s}", spec, name))
}

// ValidateNumberFormat checks that a format renders and contains the counter
func ValidateNumberFormat(format string) error {
	if strings.TrimSpace(format) == "" {
		return shared.NewDomainError("INVALID_NUMBER_FORMAT", "Letter number format cannot be empty")
	}
	if !strings.Contains(format, "{number") {
		return shared.NewDomainError("INVALID_NUMBER_FORMAT", "Letter number format must contain {number}")
	}
	_, err := FormatNumber(format, "X", 1, time.Now())
	return err
}
