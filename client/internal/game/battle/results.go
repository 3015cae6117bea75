package battle

// ResultsPresenter guards the one-shot terminal results view: at most one
// reveal per session id, and never for a session that has already been
// superseded.
type ResultsPresenter struct {
	shownFor int64
}

// Present pushes the final state to the listener unless this session's
// results were already revealed. Reports whether the reveal happened.
func (p *ResultsPresenter) Present(sessionID int64, r Result, l Listener) bool {
	if sessionID == 0 || p.shownFor == sessionID {
		return false
	}
	p.shownFor = sessionID
	if l != nil {
		l.ResultsReady(r)
	}
	return true
}

// Shown reports whether the given session's results were revealed.
func (p *ResultsPresenter) Shown(sessionID int64) bool {
	return sessionID != 0 && p.shownFor == sessionID
}
