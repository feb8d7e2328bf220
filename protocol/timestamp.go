package protocol

import (
	"errors"
	"time"
)

// MillisPerSecond is the millisecond rollover of the arena time base
const MillisPerSecond = 1000

// ErrMalformedTimestamp is returned when a reply timestamp is not "<sec>.<ms>"
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Timestamp is a reading of the arena time base.
// Seconds wrap at 65536, Millis stays in 0..999.
type Timestamp struct {
	Seconds uint16
	Millis  uint16
}

// AppendTo appends "<seconds>.<millis>" with no zero padding
func (t Timestamp) AppendTo(dst []byte) []byte {
	dst = AppendUint(dst, uint32(t.Seconds))
	dst = append(dst, '.')
	return AppendUint(dst, uint32(t.Millis))
}

func (t Timestamp) String() string {
	var tmp [12]byte
	return string(t.AppendTo(tmp[:0]))
}

// Duration converts the reading into time elapsed since the last reset
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.Seconds)*time.Second + time.Duration(t.Millis)*time.Millisecond
}

// ParseTimestamp parses the "<seconds>.<millis>" form. Because millis are not
// zero padded, "2.5" means two seconds and five milliseconds.
func ParseTimestamp(s string) (Timestamp, error) {
	dot := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			dot = i
			break
		}
	}
	if dot <= 0 || dot == len(s)-1 {
		return Timestamp{}, ErrMalformedTimestamp
	}

	sec, ok := parseUint(s[:dot], 65535)
	if !ok {
		return Timestamp{}, ErrMalformedTimestamp
	}
	ms, ok := parseUint(s[dot+1:], MillisPerSecond-1)
	if !ok {
		return Timestamp{}, ErrMalformedTimestamp
	}
	return Timestamp{Seconds: uint16(sec), Millis: uint16(ms)}, nil
}

func parseUint(s string, max uint32) (uint32, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return 0, false
		}
		v = v*10 + uint64(s[i]-'0')
		if v > uint64(max) {
			return 0, false
		}
	}
	return uint32(v), true
}
