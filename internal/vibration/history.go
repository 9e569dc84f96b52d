package vibration

// historyCapacity bounds the diagnostic analysis history per sensor.
const historyCapacity = 100

// ring is a bounded append-only history of analyses, oldest evicted first.
// It is advisory only: the classifier never reads it back.
type ring struct {
	buf []Analysis
	max int
}

func newRing(max int) *ring {
	return &ring{max: max}
}

func (r *ring) append(a Analysis) {
	if len(r.buf) == r.max {
		copy(r.buf, r.buf[1:])
		r.buf[len(r.buf)-1] = a
		return
	}
	r.buf = append(r.buf, a)
}

func (r *ring) len() int { return len(r.buf) }

// recent returns a copy of the newest n entries, oldest first.
func (r *ring) recent(n int) []Analysis {
	if n > len(r.buf) {
		n = len(r.buf)
	}
	if n <= 0 {
		return nil
	}
	out := make([]Analysis, n)
	copy(out, r.buf[len(r.buf)-n:])
	return out
}
