package referee

// TestingT is the subset of testing.TB used to report failures.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// Bound reports assertion failures to a TestingT.
type Bound struct {
	r *Referee
	t TestingT
}

// T binds r to t.
func (r *Referee) T(t TestingT) *Bound {
	return &Bound{r: r, t: t}
}

// Assert runs the named assertion and reports a failure to t. It returns
// whether the assertion held.
func (b *Bound) Assert(name string, args ...any) bool {
	b.t.Helper()
	return b.report(b.r.Assert(name, args...))
}

// Refute runs the negated assertion and reports a failure to t.
func (b *Bound) Refute(name string, args ...any) bool {
	b.t.Helper()
	return b.report(b.r.Refute(name, args...))
}

// AssertMsg is Assert with a custom message.
func (b *Bound) AssertMsg(name, message string, args ...any) bool {
	b.t.Helper()
	return b.report(b.r.AssertMsg(name, message, args...))
}

// RefuteMsg is Refute with a custom message.
func (b *Bound) RefuteMsg(name, message string, args ...any) bool {
	b.t.Helper()
	return b.report(b.r.RefuteMsg(name, message, args...))
}

func (b *Bound) report(err error) bool {
	b.t.Helper()
	if err != nil {
		b.t.Errorf("%s", err)
		return false
	}
	return true
}
