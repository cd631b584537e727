package types

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

// TimeUnit is one field of an interval qualifier.
type TimeUnit int

const (
	Year TimeUnit = iota
	Month
	Day
	Hour
	Minute
	Second
)

func (u TimeUnit) String() string {
	switch u {
	case Year:
		return "YEAR"
	case Month:
		return "MONTH"
	case Day:
		return "DAY"
	case Hour:
		return "HOUR"
	case Minute:
		return "MINUTE"
	case Second:
		return "SECOND"
	default:
		return "?"
	}
}

// DefaultLeadPrecision is used when an IntervalQualifier carries
// UnspecifiedPrecision for StartPrecision, per the data model's precision
// invariant (-1 means "use system default").
const DefaultLeadPrecision = 2

// DefaultFractionalSecondPrecision is the system default fractional-second
// precision, used the same way.
const DefaultFractionalSecondPrecision = 6

// IntervalQualifier is the immutable interval qualifier from the data model
// (§3): created by the parser, validated on first use.
type IntervalQualifier struct {
	StartUnit                 TimeUnit
	EndUnit                   *TimeUnit // nil iff single-unit
	StartPrecision            int       // -1 = unspecified
	FractionalSecondPrecision int       // -1 = unspecified
	ParserPosition             int
}

// NewIntervalQualifier builds a qualifier in canonical form: if endUnit
// equals startUnit it is cleared, per the data model's canonical-form rule.
func NewIntervalQualifier(startUnit TimeUnit, endUnit *TimeUnit, startPrecision, fractionalSecondPrecision, parserPosition int) *IntervalQualifier {
	q := &IntervalQualifier{
		StartUnit:                 startUnit,
		EndUnit:                   endUnit,
		StartPrecision:            startPrecision,
		FractionalSecondPrecision: fractionalSecondPrecision,
		ParserPosition:            parserPosition,
	}
	if q.EndUnit != nil && *q.EndUnit == q.StartUnit {
		q.EndUnit = nil
	}
	return q
}

// IsYearMonth reports whether the qualifier belongs to the YEAR/MONTH class
// rather than the DAY..SECOND class.
func (q *IntervalQualifier) IsYearMonth() bool {
	return q.StartUnit == Year || q.StartUnit == Month
}

func (q *IntervalQualifier) leadPrecision() int {
	if q.StartPrecision == UnspecifiedPrecision {
		return DefaultLeadPrecision
	}
	return q.StartPrecision
}

func (q *IntervalQualifier) fracPrecision() int {
	if q.FractionalSecondPrecision == UnspecifiedPrecision {
		return DefaultFractionalSecondPrecision
	}
	return q.FractionalSecondPrecision
}

// validPairs enumerates the (start_unit, end_unit) combinations permitted by
// the data model invariant.
var validPairs = map[[2]TimeUnit]bool{
	{Year, Month}:    true,
	{Day, Hour}:      true,
	{Day, Minute}:    true,
	{Day, Second}:    true,
	{Hour, Minute}:   true,
	{Hour, Second}:   true,
	{Minute, Second}: true,
}

var singleUnits = map[TimeUnit]bool{
	Year: true, Month: true, Day: true, Hour: true, Minute: true, Second: true,
}

// ValidatePair reports whether the qualifier's (start_unit, end_unit) lies in
// the enumerated set from the data model.
func (q *IntervalQualifier) ValidatePair() bool {
	if q.EndUnit == nil {
		return singleUnits[q.StartUnit]
	}
	return validPairs[[2]TimeUnit{q.StartUnit, *q.EndUnit}]
}

func (q *IntervalQualifier) qualifierName() string {
	name := q.StartUnit.String()
	if q.EndUnit != nil {
		name += " TO " + q.EndUnit.String()
	}
	if q.StartPrecision != UnspecifiedPrecision {
		name += "(" + strconv.Itoa(q.StartPrecision) + ")"
	}
	return name
}

// Errors raised by the interval validator (spec §7 "Parse/structural").
var (
	ErrUnsupportedIntervalLiteral = errors.NewKind("unsupported interval literal %q for qualifier %s at position %d")
	ErrFieldExceedsPrecision      = errors.NewKind("interval field value %q exceeds precision for qualifier %s")
)

// IntervalValue is the normalized output of ValidateIntervalLiteral.
//
// Fields is always exactly 2 slots for a YEAR/MONTH-class qualifier
// ([year, month]) or exactly 5 slots for a DAY..SECOND-class qualifier
// ([day, hour, minute, second, fractional-millis]), per the data model's
// "one slot per positional field" rule: slots the qualifier's actual
// start/end range doesn't cover are zero.
type IntervalValue struct {
	Sign   int
	Fields []int
}

// yearMonthSlots / dayTimeSlots index the two interval classes.
const (
	slotYear = iota
	slotMonth
)

const (
	slotDay = iota
	slotHour
	slotMinute
	slotSecond
	slotFraction
)

func secondaryMax(slot int) int {
	switch slot {
	case slotMonth:
		return 11
	case slotHour:
		return 23
	case slotMinute, slotSecond:
		return 59
	default:
		return 0
	}
}

// capturedSlots returns the full-vector slot indices captured by q's
// start/end range, in order, for use against the regex's capture groups.
func (q *IntervalQualifier) capturedSlots() []int {
	if q.IsYearMonth() {
		if q.EndUnit == nil {
			return []int{slotYear}
		}
		return []int{slotYear, slotMonth}
	}

	order := []TimeUnit{Day, Hour, Minute, Second}
	slotOf := map[TimeUnit]int{Day: slotDay, Hour: slotHour, Minute: slotMinute, Second: slotSecond}

	end := q.StartUnit
	if q.EndUnit != nil {
		end = *q.EndUnit
	}

	var startIdx, endIdx int
	for i, u := range order {
		if u == q.StartUnit {
			startIdx = i
		}
		if u == end {
			endIdx = i
		}
	}

	var slots []int
	for i := startIdx; i <= endIdx; i++ {
		slots = append(slots, slotOf[order[i]])
	}
	if end == Second && q.fracPrecision() > 0 {
		slots = append(slots, slotFraction)
	}
	return slots
}

func (q *IntervalQualifier) vectorLen() int {
	if q.IsYearMonth() {
		return 2
	}
	return 5
}

// pattern builds the regex for q's captured slots: the lead (first captured)
// slot is bounded only by digit count (its numeric range is checked
// separately against declared precision); every other captured slot is a
// 1-2 digit group, except a trailing fractional slot which is 1..p digits
// and optional.
func pattern(q *IntervalQualifier) *regexp.Regexp {
	slots := q.capturedSlots()

	var sb strings.Builder
	sb.WriteString("^")
	for i, slot := range slots {
		switch {
		case i == 0:
			// The lead field admits any run of digits; its range is checked
			// numerically against the declared precision afterward (step 5),
			// not bounded by the regex itself.
			sb.WriteString(`(\d+)`)
		case slot == slotFraction:
			sb.WriteString(`(?:\.(\d{1,` + itoa(q.fracPrecision()) + `}))?`)
		case slot == slotMonth:
			sb.WriteString(`-(\d{1,2})`)
		case slot == slotHour && slots[i-1] == slotDay:
			sb.WriteString(` (\d{1,2})`)
		default:
			sb.WriteString(`:(\d{1,2})`)
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

func itoa(i int) string { return strconv.Itoa(i) }

// ValidateIntervalLiteral implements the interval-qualifier validator
// algorithm of spec §4.1.
func ValidateIntervalLiteral(text string, q *IntervalQualifier) (*IntervalValue, error) {
	original := text

	// 1. trim whitespace; record sign; strip sign.
	trimmed := strings.TrimSpace(text)
	sign := 1
	if strings.HasPrefix(trimmed, "+") {
		trimmed = trimmed[1:]
	} else if strings.HasPrefix(trimmed, "-") {
		sign = -1
		trimmed = trimmed[1:]
	}
	trimmed = strings.TrimSpace(trimmed)

	// 2. reject empty remainder.
	if trimmed == "" {
		return nil, ErrUnsupportedIntervalLiteral.New(original, q.qualifierName(), q.ParserPosition)
	}

	if !q.ValidatePair() {
		return nil, ErrUnsupportedIntervalLiteral.New(original, q.qualifierName(), q.ParserPosition)
	}

	// 3. choose regex by qualifier.
	slots := q.capturedSlots()
	re := pattern(q)
	m := re.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, ErrUnsupportedIntervalLiteral.New(original, q.qualifierName(), q.ParserPosition)
	}

	fields := make([]int, q.vectorLen())
	leadLimit := leadFieldLimit(q.leadPrecision())

	for i, slot := range slots {
		raw := m[i+1]
		switch {
		case slot == slotFraction:
			fields[slot] = fractionalMillis(raw)
		case i == 0:
			// 5. lead-field range check.
			v, _ := strconv.Atoi(raw)
			if v >= leadLimit {
				return nil, ErrFieldExceedsPrecision.New(original, q.qualifierName())
			}
			fields[slot] = v
		default:
			// 6. secondary-field range check.
			v, _ := strconv.Atoi(raw)
			if v > secondaryMax(slot) {
				return nil, ErrFieldExceedsPrecision.New(original, q.qualifierName())
			}
			fields[slot] = v
		}
	}

	return &IntervalValue{Sign: sign, Fields: fields}, nil
}

// leadFieldLimit implements step 5: precision p<10 bounds the lead field to
// 10^p; otherwise it is bounded by 2^31.
func leadFieldLimit(p int) int {
	if p < 10 {
		limit := 1
		for i := 0; i < p; i++ {
			limit *= 10
		}
		return limit
	}
	return 1 << 31
}

// fractionalMillis implements step 7: parse the captured digits as
// "0."+digits, multiply by 1000, and truncate to an integer number of
// milliseconds.
func fractionalMillis(captured string) int {
	if captured == "" {
		return 0
	}
	digits := captured
	for len(digits) < 3 {
		digits += "0"
	}
	ms, _ := strconv.Atoi(digits[:3])
	return ms
}
