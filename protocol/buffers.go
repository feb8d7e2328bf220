package protocol

// ScratchOutput assembles a reply fragment in a fixed-size buffer so the
// firmware never allocates while talking to the host.
type ScratchOutput struct {
	buf [MessageMax]byte
	pos int
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{pos: 0}
}

// Output appends raw bytes, silently truncating at MessageMax
func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
}

// WriteString appends a string
func (s *ScratchOutput) WriteString(str string) {
	n := copy(s.buf[s.pos:], str)
	s.pos += n
}

// WriteByte appends a single byte
func (s *ScratchOutput) WriteByte(b byte) error {
	if s.pos < len(s.buf) {
		s.buf[s.pos] = b
		s.pos++
	}
	return nil
}

// Uint appends the decimal form of n
func (s *ScratchOutput) Uint(n uint32) {
	var tmp [10]byte
	s.Output(AppendUint(tmp[:0], n))
}

// Timestamp appends ts as "<seconds>.<millis>"
func (s *ScratchOutput) Timestamp(ts Timestamp) {
	var tmp [12]byte
	s.Output(ts.AppendTo(tmp[:0]))
}

// CurPosition returns the current write position
func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// RxQueue is the receive FIFO between the UART reader and the main loop.
// Head and tail run free and are masked on access, so all RxQueueSize slots
// are usable. It is not safe for concurrent use; callers guard it.
type RxQueue struct {
	buf        [RxQueueSize]byte
	head, tail uint32
}

const rxMask = RxQueueSize - 1

// Push queues b, returning false when the queue is full
func (q *RxQueue) Push(b byte) bool {
	if q.head-q.tail == RxQueueSize {
		return false
	}
	q.buf[q.head&rxMask] = b
	q.head++
	return true
}

// Pop removes the oldest byte
func (q *RxQueue) Pop() (byte, bool) {
	if q.head == q.tail {
		return 0, false
	}
	b := q.buf[q.tail&rxMask]
	q.tail++
	return b, true
}

// Len is the number of queued bytes
func (q *RxQueue) Len() int { return int(q.head - q.tail) }

func (q *RxQueue) Empty() bool { return q.head == q.tail }

// Reset discards everything queued
func (q *RxQueue) Reset() { q.head, q.tail = 0, 0 }
