package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimestampStyle selects how a timestamp is rendered in chat.
type TimestampStyle string

// Timestamp styles.
const (
	StyleRelative    TimestampStyle = "relative"
	StyleLong        TimestampStyle = "long"
	StyleLongWeekday TimestampStyle = "long, date of week"
	StyleAll         TimestampStyle = "all"

	DefaultStyle = StyleRelative
)

// MaxOffset bounds the total of an operation in either direction.
const MaxOffset = 100 * 365 * 24 * time.Hour

var (
	// ErrInvalidOffset indicates an offset that is not a list of signed terms.
	ErrInvalidOffset = errors.New("invalid time operation")

	// ErrInvalidUnit indicates a term with a unit other than d, h, m or s.
	ErrInvalidUnit = errors.New("invalid time unit")
)

var offsetTerm = regexp.MustCompile(`([+-]?)(\d+)([a-zA-Z])`)

var offsetUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"h": time.Hour,
	"m": time.Minute,
	"s": time.Second,
}

// ParseOffset sums terms such as "+1d50m" or "-2h+30s". The first term
// must be signed and a sign carries over to unsigned terms that follow it.
// Whitespace is ignored.
func ParseOffset(operation string) (time.Duration, error) {
	operation = strings.Join(strings.Fields(operation), "")
	if operation == "" {
		return 0, nil
	}
	if operation[0] != '+' && operation[0] != '-' {
		return 0, fmt.Errorf("%w: %q must start with + or -", ErrInvalidOffset, operation)
	}

	var total time.Duration
	negative := false
	covered := 0
	for _, m := range offsetTerm.FindAllStringSubmatchIndex(operation, -1) {
		if m[0] != covered {
			return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, operation)
		}
		covered = m[1]

		if sign := operation[m[2]:m[3]]; sign != "" {
			negative = sign == "-"
		}
		digits, unit := operation[m[4]:m[5]], operation[m[6]:m[7]]

		step, ok := offsetUnits[unit]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrInvalidUnit, unit)
		}
		value, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || value > int64(MaxOffset/step) {
			return 0, fmt.Errorf("%w: %s%s is out of range", ErrInvalidOffset, digits, unit)
		}

		term := time.Duration(value) * step
		if negative {
			term = -term
		}
		total += term
		if total > MaxOffset || total < -MaxOffset {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidOffset, operation)
		}
	}
	if covered != len(operation) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, operation)
	}
	return total, nil
}

// ParseStyle maps a command choice to a style. An empty choice is the
// default style.
func ParseStyle(value string) (TimestampStyle, error) {
	switch style := TimestampStyle(value); style {
	case "":
		return DefaultStyle, nil
	case StyleRelative, StyleLong, StyleLongWeekday, StyleAll:
		return style, nil
	default:
		return "", fmt.Errorf("unknown timestamp style %q", value)
	}
}

// FormatTimestamp renders t as Discord timestamp markup. StyleAll shows each
// style as raw markup followed by its rendering.
func FormatTimestamp(t time.Time, style TimestampStyle) string {
	unix := t.Unix()
	relative := fmt.Sprintf("<t:%d:R>", unix)
	long := fmt.Sprintf("<t:%d:f>", unix)
	weekday := fmt.Sprintf("<t:%d:F>", unix)

	switch style {
	case StyleLong:
		return long
	case StyleLongWeekday:
		return weekday
	case StyleAll:
		var sb strings.Builder
		for i, markup := range []string{relative, weekday, long} {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			fmt.Fprintf(&sb, "`%s`\n%s", markup, markup)
		}
		return sb.String()
	default:
		return relative
	}
}
