package battle

import "testing"

func TestArmExclusive(t *testing.T) {
	var s SelectionController
	if changed, err := s.Arm("Archer", 3); err != nil || !changed {
		t.Fatalf("arm archer: changed=%v err=%v", changed, err)
	}
	if changed, err := s.Arm("Footman", 2); err != nil || !changed {
		t.Fatalf("arm footman: changed=%v err=%v", changed, err)
	}
	if s.Armed() != "Footman" {
		t.Fatalf("want single armed Footman, got %q", s.Armed())
	}
}

func TestArmDepletedIneffective(t *testing.T) {
	var s SelectionController
	s.Arm("Archer", 3)
	if _, err := s.Arm("Ogre", 0); err != ErrDepleted {
		t.Fatalf("want ErrDepleted, got %v", err)
	}
	if s.Armed() != "Archer" {
		t.Fatalf("selection must be untouched, got %q", s.Armed())
	}
}

func TestArmSameIsNoop(t *testing.T) {
	var s SelectionController
	s.Arm("Archer", 3)
	if changed, err := s.Arm("Archer", 3); err != nil || changed {
		t.Fatalf("re-arming the armed type: changed=%v err=%v", changed, err)
	}
}

func TestClear(t *testing.T) {
	var s SelectionController
	if s.Clear() {
		t.Fatalf("clearing nothing must report no change")
	}
	s.Arm("Archer", 1)
	if !s.Clear() || s.Armed() != "" {
		t.Fatalf("clear must return to none, got %q", s.Armed())
	}
}
