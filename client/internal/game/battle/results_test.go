package battle

import "testing"

func TestPresentOncePerSession(t *testing.T) {
	var p ResultsPresenter
	l := &recListener{}
	r := Result{Victory: true, Stars: 3}

	if !p.Present(42, r, l) {
		t.Fatalf("first reveal must happen")
	}
	if p.Present(42, r, l) {
		t.Fatalf("second reveal for the same session must be rejected")
	}
	if len(l.results) != 1 {
		t.Fatalf("listener notified %d times", len(l.results))
	}
	if !p.Shown(42) || p.Shown(77) {
		t.Fatalf("Shown: got %v/%v", p.Shown(42), p.Shown(77))
	}
}

func TestPresentRejectsZeroSession(t *testing.T) {
	var p ResultsPresenter
	l := &recListener{}
	if p.Present(0, Result{}, l) {
		t.Fatalf("session id 0 must never reveal")
	}
	if p.Shown(0) {
		t.Fatalf("Shown(0) must be false")
	}
}
