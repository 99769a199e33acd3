package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"globequiz/internal/quiz"
)

// Sound is a game event the player can hear
type Sound int

const (
	SoundClick Sound = iota
	SoundCorrect
	SoundClose
	SoundWrong
)

func (s Sound) String() string {
	switch s {
	case SoundClick:
		return "click"
	case SoundCorrect:
		return "correct"
	case SoundClose:
		return "close"
	case SoundWrong:
		return "wrong"
	}
	return fmt.Sprintf("sound(%d)", int(s))
}

// soundFor maps a guess result to the sound announcing it
func soundFor(t quiz.Tier) Sound {
	switch t {
	case quiz.TierCorrect:
		return SoundCorrect
	case quiz.TierClose, quiz.TierSomewhatClose:
		return SoundClose
	}
	return SoundWrong
}

// Player plays game sounds. Errors are reported but never stop the game.
type Player interface {
	Play(s Sound) error
}

// bellPatterns is how many times the terminal bell rings per sound. A
// click is silent; a terminal has only the one tone.
var bellPatterns = map[Sound]int{
	SoundClick:   0,
	SoundCorrect: 1,
	SoundClose:   1,
	SoundWrong:   2,
}

// BellPlayer rings the terminal bell
type BellPlayer struct {
	screen tcell.Screen
	muted  bool
}

// NewBellPlayer creates a player that rings the bell of screen
func NewBellPlayer(screen tcell.Screen) *BellPlayer {
	return &BellPlayer{screen: screen}
}

// Play rings the bell pattern for s
func (b *BellPlayer) Play(s Sound) error {
	if b.muted {
		return nil
	}
	for i := 0; i < bellPatterns[s]; i++ {
		if err := b.screen.Beep(); err != nil {
			return fmt.Errorf("bell for %s: %w", s, err)
		}
	}
	return nil
}

// SetMuted silences or restores the bell
func (b *BellPlayer) SetMuted(muted bool) {
	b.muted = muted
}

// Muted reports whether the bell is silenced
func (b *BellPlayer) Muted() bool {
	return b.muted
}
