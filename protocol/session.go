package protocol

import "errors"

// Field errors
var (
	ErrFieldEmpty     = errors.New("field is empty")
	ErrFieldMalformed = errors.New("field is not a number")
)

const sessionMax = 8

// CommandSession collects the characters of one multi-character argument.
// It lives for a single command and is never reused afterwards.
type CommandSession struct {
	buf    [sessionMax]byte
	want   int
	n      int
	crEnds bool
	ended  bool
}

// NewCommandSession expects exactly want characters, carriage return included.
func NewCommandSession(want int) CommandSession {
	if want > sessionMax {
		want = sessionMax
	}
	return CommandSession{want: want}
}

// NewNumericField accepts up to FieldDigits characters; a carriage return
// ends the field early and is not stored.
func NewNumericField() CommandSession {
	return CommandSession{want: FieldDigits, crEnds: true}
}

// Feed stores b and reports whether the session is complete.
func (s *CommandSession) Feed(b byte) bool {
	if s.Done() {
		return true
	}
	if s.crEnds && b == CarriageReturn {
		s.ended = true
		return true
	}
	s.buf[s.n] = b
	s.n++
	return s.Done()
}

// Done reports whether no more characters are expected
func (s *CommandSession) Done() bool {
	return s.ended || s.n >= s.want
}

// Len returns the number of stored characters
func (s *CommandSession) Len() int {
	return s.n
}

// Bytes returns the stored characters
func (s *CommandSession) Bytes() []byte {
	return s.buf[:s.n]
}

// Uint parses the stored characters as an unsigned decimal number.
func (s *CommandSession) Uint() (uint32, error) {
	if s.n == 0 {
		return 0, ErrFieldEmpty
	}
	var v uint32
	for _, b := range s.buf[:s.n] {
		if !IsDigit(b) {
			return 0, ErrFieldMalformed
		}
		v = v*10 + uint32(b-'0')
	}
	return v, nil
}
