package quiz

// Navigator tracks the current question index in [0, n-1].
// Moves saturate at both ends and never wrap.
type Navigator struct {
	n   int
	cur int
}

func NewNavigator(n int) *Navigator {
	if n < 1 {
		n = 1
	}
	return &Navigator{n: n}
}

// Next advances one question; it reports false when already on the last one.
func (nv *Navigator) Next() bool {
	if nv.cur >= nv.n-1 {
		return false
	}
	nv.cur++
	return true
}

// Previous steps back one question; it reports false when already on the first one.
func (nv *Navigator) Previous() bool {
	if nv.cur <= 0 {
		return false
	}
	nv.cur--
	return true
}

func (nv *Navigator) Index() int    { return nv.cur }
func (nv *Navigator) Len() int      { return nv.n }
func (nv *Navigator) IsFirst() bool { return nv.cur == 0 }
func (nv *Navigator) IsLast() bool  { return nv.cur == nv.n-1 }
