package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type TimerStartKind string

const (
	TimerStartDuration TimerStartKind = "duration"
	TimerStartUntil    TimerStartKind = "until"
)

// TimerStart is a parsed timer request: either a relative duration or an
// absolute end time.
type TimerStart struct {
	kind     TimerStartKind
	duration time.Duration
	clock    time.Duration
	date     time.Time
	dated    bool
	raw      string
}

// TimerStartZero expires as soon as it is started.
var TimerStartZero = TimerStart{kind: TimerStartDuration, raw: "0"}

func NewDurationStart(d time.Duration) TimerStart {
	return TimerStart{kind: TimerStartDuration, duration: d}
}

func NewUntilStart(at time.Time) TimerStart {
	return TimerStart{kind: TimerStartUntil, date: at, dated: true}
}

var (
	unitPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-z]+)`)
	fillerWords = strings.NewReplacer("and", "", ",", "", " ", "")
)

var durationUnits = map[string]time.Duration{
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
}

var datedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05pm",
	"3:04pm",
	"3pm",
}

// ParseTimerStart parses free-form input such as "300", "5:00", "1h30m",
// "5 minutes" or "until 17:30".
func ParseTimerStart(input string) (TimerStart, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return TimerStart{}, &ValidationError{Input: input, Err: ErrInvalidTimerStart}
	}
	lower := strings.ToLower(raw)
	for _, prefix := range []string{"until ", "at "} {
		if strings.HasPrefix(lower, prefix) {
			ts, err := parseUntil(strings.TrimSpace(raw[len(prefix):]))
			if err != nil {
				return TimerStart{}, &ValidationError{Input: input, Err: err}
			}
			ts.raw = raw
			return ts, nil
		}
	}

	d, err := parseDuration(lower)
	if err != nil {
		return TimerStart{}, &ValidationError{Input: input, Err: err}
	}
	if d <= 0 {
		return TimerStart{}, &ValidationError{Input: input, Err: ErrNonPositiveDuration}
	}
	return TimerStart{kind: TimerStartDuration, duration: d, raw: raw}, nil
}

// maxSeconds is the largest whole number of seconds a time.Duration holds.
const maxSeconds = int64(math.MaxInt64 / int64(time.Second))

var errDurationRange = fmt.Errorf("%w: duration out of range", ErrInvalidTimerStart)

func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs > maxSeconds || secs < -maxSeconds {
			return 0, errDurationRange
		}
		return time.Duration(secs) * time.Second, nil
	}
	if strings.Contains(s, ":") {
		return parseClockDuration(s)
	}
	if d, err := time.ParseDuration(strings.ReplaceAll(s, " ", "")); err == nil {
		return d, nil
	}

	matches := unitPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, ErrInvalidTimerStart
	}
	if rest := fillerWords.Replace(unitPattern.ReplaceAllString(s, "")); rest != "" {
		return 0, ErrInvalidTimerStart
	}
	var total time.Duration
	for _, m := range matches {
		unit, ok := durationUnits[m[2]]
		if !ok {
			return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidTimerStart, m[2])
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, ErrInvalidTimerStart
		}
		f := v * float64(unit)
		if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
			return 0, errDurationRange
		}
		d := time.Duration(f)
		if d > 0 && total > math.MaxInt64-d {
			return 0, errDurationRange
		}
		total += d
	}
	return total, nil
}

// parseClockDuration handles m:ss and h:mm:ss.
func parseClockDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, ErrInvalidTimerStart
	}
	values := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || v < 0 {
			return 0, ErrInvalidTimerStart
		}
		if i > 0 && v >= 60 {
			return 0, ErrInvalidTimerStart
		}
		values[i] = v
	}
	// Fold h:mm:ss or m:ss into seconds; only the leading field is unbounded.
	var secs int64
	for _, v := range values {
		if secs > (maxSeconds-v)/60 {
			return 0, errDurationRange
		}
		secs = secs*60 + v
	}
	return time.Duration(secs) * time.Second, nil
}

func parseUntil(s string) (TimerStart, error) {
	if s == "" {
		return TimerStart{}, ErrInvalidTimerStart
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return TimerStart{kind: TimerStartUntil, date: t, dated: true}, nil
	}
	for _, layout := range datedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return TimerStart{kind: TimerStartUntil, date: t, dated: true}, nil
		}
	}
	compact := strings.ReplaceAll(strings.ToLower(s), " ", "")
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, compact); err == nil {
			clock := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
			return TimerStart{kind: TimerStartUntil, clock: clock}, nil
		}
	}
	return TimerStart{}, ErrInvalidTimerStart
}

func (ts TimerStart) Kind() TimerStartKind {
	if ts.kind == "" {
		return TimerStartDuration
	}
	return ts.kind
}

func (ts TimerStart) IsZero() bool {
	return ts.Kind() == TimerStartDuration && ts.duration == 0
}

// Duration returns the requested duration for relative starts.
func (ts TimerStart) Duration() (time.Duration, bool) {
	if ts.Kind() != TimerStartDuration {
		return 0, false
	}
	return ts.duration, true
}

// EndTime resolves the absolute end time relative to now. A date-less clock
// time resolves to its next occurrence; a dated time may lie in the past.
func (ts TimerStart) EndTime(now time.Time) time.Time {
	if ts.Kind() == TimerStartDuration {
		return now.Add(ts.duration)
	}
	if ts.dated {
		return ts.date
	}
	y, m, d := now.Date()
	candidate := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(ts.clock)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func (ts TimerStart) Equal(other TimerStart) bool {
	if ts.Kind() != other.Kind() {
		return false
	}
	if ts.Kind() == TimerStartDuration {
		return ts.duration == other.duration
	}
	if ts.dated != other.dated {
		return false
	}
	if ts.dated {
		return ts.date.Equal(other.date)
	}
	return ts.clock == other.clock
}

func (ts TimerStart) String() string {
	if ts.raw != "" {
		return ts.raw
	}
	if ts.Kind() == TimerStartDuration {
		if ts.duration == 0 {
			return "0"
		}
		return ts.duration.String()
	}
	if ts.dated {
		return "until " + ts.date.Format("2006-01-02 15:04:05")
	}
	return "until " + time.Time{}.Add(ts.clock).Format("15:04:05")
}

func (ts TimerStart) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

func (ts *TimerStart) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || s == "0" {
		*ts = TimerStartZero
		return nil
	}
	parsed, err := ParseTimerStart(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
