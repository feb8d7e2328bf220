package protocol

// AppendUint appends the decimal form of n to dst without using fmt.
func AppendUint(dst []byte, n uint32) []byte {
	if n == 0 {
		return append(dst, '0')
	}

	var tmp [10]byte
	pos := len(tmp)
	for n > 0 {
		pos--
		tmp[pos] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, tmp[pos:]...)
}

// Utoa converts an unsigned integer to a string
func Utoa(n uint32) string {
	var tmp [10]byte
	return string(AppendUint(tmp[:0], n))
}

// IsDigit reports whether b is an ASCII decimal digit
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
