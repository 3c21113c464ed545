package moderation

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxTimeout is the longest timeout the platform accepts.
const MaxTimeout = 28 * 24 * time.Hour

const maxTimeoutSeconds = int64(MaxTimeout / time.Second)

var durationTokenPattern = regexp.MustCompile(`(?i)(\d+)\s*([smhdw])`)

var unitSeconds = map[byte]int64{
	's': 1,
	'm': 60,
	'h': 3600,
	'd': 86400,
	'w': 604800,
}

type RejectionReason string

const (
	RejectNoMatch        RejectionReason = "no_match"
	RejectBadMagnitude   RejectionReason = "bad_magnitude"
	RejectNonPositive    RejectionReason = "non_positive"
	RejectExceedsMaximum RejectionReason = "exceeds_maximum"
)

var (
	ErrDurationNoMatch        = errors.New("duration has no recognizable tokens")
	ErrDurationBadMagnitude   = errors.New("duration magnitude is not a valid integer")
	ErrDurationNonPositive    = errors.New("duration must be positive")
	ErrDurationExceedsMaximum = errors.New("duration exceeds maximum")
)

var rejectionErrors = map[RejectionReason]error{
	RejectNoMatch:        ErrDurationNoMatch,
	RejectBadMagnitude:   ErrDurationBadMagnitude,
	RejectNonPositive:    ErrDurationNonPositive,
	RejectExceedsMaximum: ErrDurationExceedsMaximum,
}

type DurationRejection struct {
	Reason RejectionReason
	Input  string
}

func (e *DurationRejection) Error() string {
	return e.Unwrap().Error()
}

func (e *DurationRejection) Unwrap() error {
	return rejectionErrors[e.Reason]
}

type DurationToken struct {
	Magnitude int64
	Unit      byte
}

// ResolvedDuration is a validated timeout length, 0 < Seconds <= MaxTimeout.
type ResolvedDuration struct {
	Seconds int64
}

func (d ResolvedDuration) Duration() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

func (d ResolvedDuration) WholeDays() bool {
	return d.Seconds > 0 && d.Seconds%86400 == 0
}

func (d ResolvedDuration) String() string {
	return FormatDuration(d)
}

// ParseDuration sums every "<digits><unit>" token in text, ignoring anything
// in between, e.g. "1d 2h" or "2h30m".
func ParseDuration(text string) (ResolvedDuration, error) {
	matches := durationTokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ResolvedDuration{}, &DurationRejection{Reason: RejectNoMatch, Input: text}
	}

	tokens := make([]DurationToken, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return ResolvedDuration{}, &DurationRejection{Reason: RejectBadMagnitude, Input: text}
		}
		tokens = append(tokens, DurationToken{Magnitude: n, Unit: strings.ToLower(m[2])[0]})
	}

	total := int64(0)
	for _, tok := range tokens {
		total = saturatingAdd(total, saturatingMul(tok.Magnitude, unitSeconds[tok.Unit]))
	}
	if total <= 0 {
		return ResolvedDuration{}, &DurationRejection{Reason: RejectNonPositive, Input: text}
	}
	if total > maxTimeoutSeconds {
		return ResolvedDuration{}, &DurationRejection{Reason: RejectExceedsMaximum, Input: text}
	}
	return ResolvedDuration{Seconds: total}, nil
}

func saturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
