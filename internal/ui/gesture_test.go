package ui

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"globequiz/internal/quiz"
)

func TestGestureClick(t *testing.T) {
	var g gesture
	if kind, _, _ := g.update(3, 4, true); kind != gestureNone {
		t.Fatalf("press reported %d", kind)
	}
	// Repeated reports from the same cell are not movement
	if kind, _, _ := g.update(3, 4, true); kind != gestureNone {
		t.Fatalf("stationary report reported %d", kind)
	}
	if kind, _, _ := g.update(3, 4, false); kind != gestureClick {
		t.Fatalf("release reported %d, want click", kind)
	}
	if x, y := g.origin(); x != 3 || y != 4 {
		t.Fatalf("origin (%d, %d)", x, y)
	}
	if kind, _, _ := g.update(3, 4, false); kind != gestureNone {
		t.Fatalf("motion without a button reported %d", kind)
	}
}

func TestGestureDrag(t *testing.T) {
	var g gesture
	g.update(10, 10, true)

	steps := []struct {
		x, y   int
		down   bool
		kind   gestureKind
		dx, dy int
	}{
		{12, 10, true, gestureDragStart, 2, 0},
		{12, 7, true, gestureDrag, 0, -3},
		{11, 8, true, gestureDrag, -1, 1},
		{11, 8, false, gestureDragEnd, 0, 0},
	}
	for i, s := range steps {
		kind, dx, dy := g.update(s.x, s.y, s.down)
		if kind != s.kind || dx != s.dx || dy != s.dy {
			t.Fatalf("step %d: got (%d, %d, %d), want (%d, %d, %d)", i, kind, dx, dy, s.kind, s.dx, s.dy)
		}
	}
}

func TestGestureCancel(t *testing.T) {
	var g gesture
	g.update(0, 0, true)
	g.update(1, 0, true)
	if !g.cancel() {
		t.Fatalf("cancel lost the live drag")
	}
	if kind, _, _ := g.update(1, 0, false); kind != gestureNone {
		t.Fatalf("release after cancel reported %d", kind)
	}
}

type failingBeeper struct {
	tcell.Screen
	beeps int
}

func (f *failingBeeper) Beep() error {
	f.beeps++
	return errors.New("no bell")
}

func TestBellPlayer(t *testing.T) {
	screen := &failingBeeper{}
	p := NewBellPlayer(screen)

	if err := p.Play(SoundClick); err != nil || screen.beeps != 0 {
		t.Fatalf("click rang the bell")
	}
	if err := p.Play(SoundWrong); err == nil {
		t.Fatalf("bell failure not reported")
	}

	p.SetMuted(true)
	if err := p.Play(SoundWrong); err != nil || screen.beeps != 1 {
		t.Fatalf("muted player rang the bell")
	}
}

func TestSoundForTier(t *testing.T) {
	cases := map[quiz.Tier]Sound{
		quiz.TierCorrect:       SoundCorrect,
		quiz.TierClose:         SoundClose,
		quiz.TierSomewhatClose: SoundClose,
		quiz.TierWrong:         SoundWrong,
	}
	for tier, want := range cases {
		if got := soundFor(tier); got != want {
			t.Errorf("soundFor(%s) = %s, want %s", tier, got, want)
		}
	}
}
