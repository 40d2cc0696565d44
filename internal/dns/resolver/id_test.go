package resolver

import "testing"

func TestIDSequenceIsMonotonic(t *testing.T) {
	var seq idSequence
	first := seq.nextID()
	second := seq.nextID()
	third := seq.nextID()

	if second != first+1 || third != second+1 {
		t.Fatalf("ids not strictly increasing: %d, %d, %d", first, second, third)
	}
}

func TestIDSequenceWrapsModulo2to16(t *testing.T) {
	seq := idSequence{next: 0xFFFF}
	got := seq.nextID()
	if got != 0x0000 {
		t.Fatalf("expected wraparound to 0, got %d", got)
	}
}
