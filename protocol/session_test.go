package protocol

import (
	"errors"
	"testing"
)

func feedAll(s *CommandSession, input string) int {
	consumed := 0
	for i := 0; i < len(input); i++ {
		consumed++
		if s.Feed(input[i]) {
			break
		}
	}
	return consumed
}

func TestNumericFieldCarriageReturn(t *testing.T) {
	field := NewNumericField()
	consumed := feedAll(&field, "12\r")

	if consumed != 3 {
		t.Errorf("Expected 3 characters consumed, got %d", consumed)
	}
	if field.Len() != 2 {
		t.Errorf("Expected 2 stored digits, got %d", field.Len())
	}
	v, err := field.Uint()
	if err != nil || v != 12 {
		t.Errorf("Expected 12, got %d (%v)", v, err)
	}
}

func TestNumericFieldTruncatesAtFourDigits(t *testing.T) {
	field := NewNumericField()
	consumed := feedAll(&field, "12345")

	if consumed != FieldDigits {
		t.Errorf("Expected field to end after %d characters, consumed %d", FieldDigits, consumed)
	}
	v, err := field.Uint()
	if err != nil || v != 1234 {
		t.Errorf("Expected 1234, got %d (%v)", v, err)
	}
	if !field.Feed('9') {
		t.Error("Expected a complete field to stay complete")
	}
	if field.Len() != FieldDigits {
		t.Errorf("Expected extra input to be ignored, got length %d", field.Len())
	}
}

func TestNumericFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "\r", ErrFieldEmpty},
		{"letters", "1a\r", ErrFieldMalformed},
		{"negative", "-12\r", ErrFieldMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := NewNumericField()
			feedAll(&field, tt.input)
			if _, err := field.Uint(); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCommandSessionKeepsCarriageReturn(t *testing.T) {
	session := NewCommandSession(FeederSessionLen)
	consumed := feedAll(&session, "F\r1L2")

	if consumed != 4 {
		t.Errorf("Expected 4 characters consumed, got %d", consumed)
	}
	if got := string(session.Bytes()); got != "F\r1L" {
		t.Errorf("Expected %q, got %q", "F\r1L", got)
	}
}
