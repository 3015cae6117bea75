package battle

import "errors"

var ErrDepleted = errors.New("battle: deployable depleted")

// SelectionController holds the single armed deployable. Exactly one type
// can be armed at a time; there is no queue and no multi-select.
type SelectionController struct {
	armed string
}

// Arm switches the armed deployable to name. Arming a depleted type is
// ineffective and leaves the current selection untouched. The bool reports
// whether the visible selection changed.
func (s *SelectionController) Arm(name string, remaining int) (bool, error) {
	if remaining <= 0 {
		return false, ErrDepleted
	}
	if s.armed == name {
		return false, nil
	}
	s.armed = name
	return true, nil
}

// Clear unconditionally returns to no selection.
func (s *SelectionController) Clear() bool {
	if s.armed == "" {
		return false
	}
	s.armed = ""
	return true
}

func (s *SelectionController) Armed() string { return s.armed }
