package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/reugn/go-schedule/internal/csm"
)

// Sep is the separator used in descriptions.
var Sep = "::"

// Field is a cron expression field.
type Field int

// <second> <minute> <hour> <day-of-month> <month> <day-of-week>
const (
	FieldSecond Field = iota
	FieldMinute
	FieldHour
	FieldDayOfMonth
	FieldMonth
	FieldDayOfWeek
)

// fieldCount is the number of fields in a cron expression.
const fieldCount = 6

// limits holds the inclusive value range of each field. Months are
// zero-based and the week starts on Sunday.
var limits = [fieldCount][2]int{
	{0, 59}, // second
	{0, 59}, // minute
	{0, 24}, // hour
	{1, 31}, // day-of-month
	{0, 11}, // month
	{0, 6},  // day-of-week
}

var fieldNames = [fieldCount]string{
	"second", "minute", "hour", "day-of-month", "month", "day-of-week",
}

// Limit returns the inclusive value range of the field.
func (f Field) Limit() (min, max int) {
	return limits[f][0], limits[f][1]
}

// String returns the name of the field.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// pre-defined cron expressions
var special = map[string]string{
	"@yearly":   "0 0 0 1 0 *",
	"@annually": "0 0 0 1 0 *",
	"@monthly":  "0 0 0 1 * *",
	"@weekly":   "0 0 0 * * 0",
	"@daily":    "0 0 0 * * *",
	"@midnight": "0 0 0 * * *",
	"@hourly":   "0 0 * * * *",
}

// MatchSet is a decoded cron field: either match-any or a sorted,
// duplicate-free set of values. The zero value matches any value.
type MatchSet struct {
	values []int
}

// MatchAny returns a MatchSet that matches every value.
func MatchAny() MatchSet {
	return MatchSet{}
}

// IsAny reports whether the set matches every value.
func (m MatchSet) IsAny() bool {
	return m.values == nil
}

// Values returns a copy of the set members, or nil for match-any.
func (m MatchSet) Values() []int {
	if m.values == nil {
		return nil
	}
	values := make([]int, len(m.values))
	copy(values, m.values)
	return values
}

// Match reports whether the value is a member of the set.
func (m MatchSet) Match(value int) bool {
	if m.values == nil {
		return true
	}
	i := sort.SearchInts(m.values, value)
	return i < len(m.values) && m.values[i] == value
}

// NextAfter returns the smallest member greater than value. If there is
// none, the smallest member is returned together with a carry flag.
// A match-any set returns value + 1.
func (m MatchSet) NextAfter(value int) (int, bool) {
	if m.values == nil {
		return value + 1, false
	}
	i := sort.SearchInts(m.values, value+1)
	if i < len(m.values) {
		return m.values[i], false
	}
	return m.values[0], true
}

// String returns the comma-separated members, or "*" for match-any.
func (m MatchSet) String() string {
	if m.values == nil {
		return "*"
	}
	return strings.Trim(strings.Join(strings.Fields(fmt.Sprint(m.values)), ","), "[]")
}

// TimeMatch reports whether the value satisfies the decoded field.
func TimeMatch(value int, set MatchSet) bool {
	return set.Match(value)
}

// DomLimit returns the number of days in the zero-based month of the year.
func DomLimit(year, month int) int {
	return csm.DaysInMonth(year, month)
}

// DecodeTrigger decodes a cron expression of six whitespace-separated fields
// into one MatchSet per field.
func DecodeTrigger(expression string) ([fieldCount]MatchSet, error) {
	var fields [fieldCount]MatchSet
	expression = strings.TrimSpace(expression)
	if value, ok := special[expression]; ok {
		expression = value
	}

	tokens := strings.Fields(expression)
	if len(tokens) != fieldCount {
		return fields, cronParseError(fmt.Sprintf("expected %d fields, found %d",
			fieldCount, len(tokens)))
	}

	for i, token := range tokens {
		set, err := DecodeTimeStr(token, Field(i))
		if err != nil {
			return fields, err
		}
		fields[i] = set
	}
	return fields, nil
}

// DecodeTimeStr decodes a single cron field. Supported forms are "*" (also
// "?" and "-1"), a number "N", a range "A-B", a step "R/P" (or "*/P") and
// comma-separated lists of those.
func DecodeTimeStr(timeStr string, field Field) (MatchSet, error) {
	if field < 0 || field >= fieldCount {
		return MatchSet{}, illegalArgumentError("unknown field " + field.String())
	}
	switch timeStr {
	case "*", "?", "-1":
		return MatchAny(), nil
	}

	min, max := field.Limit()
	seen := make(map[int]struct{})
	for _, token := range strings.Split(timeStr, ",") {
		values, err := decodeToken(token, min, max)
		if err != nil {
			return MatchSet{}, cronParseError(fmt.Sprintf("%s field %q: %s",
				field, timeStr, err))
		}
		for _, v := range values {
			seen[v] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return MatchSet{}, cronParseError(fmt.Sprintf("%s field %q matches no value",
			field, timeStr))
	}

	values := make([]int, 0, len(seen))
	for v := range seen {
		if !inScope(v, min, max) {
			return MatchSet{}, cronParseError(fmt.Sprintf("%s value %d out of range [%d, %d]",
				field, v, min, max))
		}
		values = append(values, v)
	}
	sort.Ints(values)
	return MatchSet{values}, nil
}

// decodeToken expands a single list element.
func decodeToken(token string, min, max int) ([]int, error) {
	switch {
	case strings.Contains(token, "-"):
		bounds := strings.Split(token, "-")
		if len(bounds) != 2 {
			return nil, errors.Newf("invalid range %q", token)
		}
		from, err := atoi(bounds[0])
		if err != nil {
			return nil, err
		}
		to, err := atoi(bounds[1])
		if err != nil {
			return nil, err
		}
		return fillRange(from, to)

	case strings.Contains(token, "/"):
		parts := strings.Split(token, "/")
		if len(parts) != 2 {
			return nil, errors.Newf("invalid step %q", token)
		}
		remainder := 0
		if parts[0] != "*" {
			var err error
			if remainder, err = atoi(parts[0]); err != nil {
				return nil, err
			}
		}
		period, err := atoi(parts[1])
		if err != nil {
			return nil, err
		}
		return fillStep(remainder, period, min, max)

	default:
		value, err := atoi(token)
		if err != nil {
			return nil, err
		}
		return []int{value}, nil
	}
}

func fillRange(from, to int) ([]int, error) {
	if to < from {
		return nil, errors.Newf("invalid range %d-%d", from, to)
	}

	length := (to - from) + 1
	arr := make([]int, length)

	for i, j := from, 0; i <= to; i, j = i+1, j+1 {
		arr[j] = i
	}

	return arr, nil
}

// fillStep returns all values within [min, max] congruent to remainder
// modulo period.
func fillStep(remainder, period, min, max int) ([]int, error) {
	if period == 0 {
		return nil, errors.New("zero step")
	}

	var arr []int
	for i := min; i <= max; i++ {
		if i%period == remainder {
			arr = append(arr, i)
		}
	}

	return arr, nil
}

func inScope(i, min, max int) bool {
	return i >= min && i <= max
}

// atoi parses a non-negative decimal number.
func atoi(str string) (int, error) {
	if str == "" {
		return 0, errors.New("empty value")
	}
	for _, r := range str {
		if r < '0' || r > '9' {
			return 0, errors.Newf("invalid value %q", str)
		}
	}
	return strconv.Atoi(str)
}
