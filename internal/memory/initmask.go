package memory

// InitMask tracks which bytes of an allocation hold initialized data,
// one bit per byte.
type InitMask struct {
	words []uint64
	len   int
}

const wordBits = 64

// NewInitMask returns a mask for n bytes, every byte marked with init.
func NewInitMask(n int, init bool) InitMask {
	m := InitMask{
		words: make([]uint64, (n+wordBits-1)/wordBits),
		len:   n,
	}
	if init {
		m.SetRange(0, n, true)
	}
	return m
}

// Len returns the number of bytes the mask covers.
func (m *InitMask) Len() int {
	return m.len
}

// Get reports whether byte i is initialized.
func (m *InitMask) Get(i int) bool {
	if i < 0 || i >= m.len {
		return false
	}
	return m.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

// Set marks byte i.
func (m *InitMask) Set(i int, init bool) {
	if i < 0 || i >= m.len {
		return
	}
	if init {
		m.words[i/wordBits] |= 1 << (i % wordBits)
	} else {
		m.words[i/wordBits] &^= 1 << (i % wordBits)
	}
}

// SetRange marks bytes [start, end).
func (m *InitMask) SetRange(start, end int, init bool) {
	for i := start; i < end && i < m.len; i++ {
		m.Set(i, init)
	}
}

// RangeInit reports whether every byte in [start, end) is initialized.
func (m *InitMask) RangeInit(start, end int) bool {
	for i := start; i < end; i++ {
		if !m.Get(i) {
			return false
		}
	}
	return true
}
