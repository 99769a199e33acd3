package ui

import (
	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"globequiz/internal/quiz"
	"globequiz/internal/render"
)

var printer = message.NewPrinter(language.English)

// ScoreView shows the target, clock, score and the last result. Before a
// mode is chosen it shows the mode menu instead.
type ScoreView struct {
	x      int
	y      int
	width  int
	height int
}

// NewScoreView creates a new score panel
func NewScoreView(x, y, width, height int) *ScoreView {
	return &ScoreView{
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

// Draw renders the panel to the screen
func (s *ScoreView) Draw(screen tcell.Screen, game *quiz.Game, muted bool) {
	if s.width < 4 || s.height < 3 {
		return
	}

	c := render.NewCanvas(s.width, s.height)
	c.Fill(tcell.StyleDefault)
	c.DrawBox(0, 0, s.width, s.height, render.StylePanelBox)
	c.DrawTextCentered(1, 0, s.width-2, " Globe Quiz ", render.StyleTitle)

	row := 2
	line := func(text string, style tcell.Style) {
		if row < s.height-1 {
			c.DrawTextWidth(2, row, s.width-4, text, style)
		}
		row++
	}

	switch {
	case !game.Started():
		line("Choose a mode", render.StyleTitle)
		row++
		line("[e] Easy   no borders", render.StyleLabel)
		line("[h] Hard   borders shown", render.StyleLabel)

	case game.Complete():
		line("Congratulations!", render.StyleForTier(string(quiz.TierCorrect)))
		line("You found every country.", render.StyleLabel)
		row++
		line(printer.Sprintf("Final score  %d", game.Score()), render.StyleTitle)
		line("[r] play again", render.StyleDim)

	default:
		if target := game.Target(); target != nil {
			line("Find", render.StyleDim)
			line(target.Name, render.StyleTitle)
		} else if last := game.LastGuess(); last != nil {
			line("It was", render.StyleDim)
			line(last.Target.Name, render.StyleTitle)
		} else {
			line("Press [n] to start", render.StyleDim)
			row++
		}
		row++
		line("Time   "+game.ElapsedText(), render.StyleLabel)
		line(printer.Sprintf("Score  %d", game.Score()), render.StyleLabel)
		line(printer.Sprintf("Left   %d / %d", game.Remaining(), game.Total()), render.StyleLabel)
		line("Mode   "+string(game.Mode()), render.StyleLabel)
		if last := game.LastGuess(); last != nil {
			row++
			line(resultText(last.Result), render.StyleForTier(string(last.Result.Tier)))
		}
	}

	help := "n next  r reset  q quit"
	if muted {
		help = "n next  r reset  m unmute"
	}
	c.DrawTextCentered(1, s.height-1, s.width-2, " "+help+" ", render.StyleDim)

	c.Blit(screen, s.x, s.y)
}

// resultText announces a guess result
func resultText(r quiz.Result) string {
	switch r.Tier {
	case quiz.TierCorrect:
		return printer.Sprintf("Correct!  +%d", r.Points)
	case quiz.TierClose:
		return printer.Sprintf("Close, %.0f km  +%d", r.DistanceKm, r.Points)
	case quiz.TierSomewhatClose:
		return printer.Sprintf("Somewhat close, %.0f km  +%d", r.DistanceKm, r.Points)
	}
	return printer.Sprintf("Wrong, %.0f km away", r.DistanceKm)
}

// UpdateDimensions updates the view dimensions
func (s *ScoreView) UpdateDimensions(x, y, width, height int) {
	s.x = x
	s.y = y
	s.width = width
	s.height = height
}
