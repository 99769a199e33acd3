package ui

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"globequiz/internal/config"
	"globequiz/internal/facts"
	"globequiz/internal/geo"
	"globequiz/internal/globe"
	"globequiz/internal/quiz"
)

type recordingPlayer struct {
	played []Sound
	err    error
}

func (p *recordingPlayer) Play(s Sound) error {
	p.played = append(p.played, s)
	return p.err
}

type stubProvider struct {
	facts *facts.Facts
	err   error
}

func (p stubProvider) Lookup(ctx context.Context, country *geo.Country) (*facts.Facts, error) {
	if p.err != nil {
		return nil, p.err
	}
	f := *p.facts
	f.Name = country.Name
	return &f, nil
}

func square(id, name string, lon0, lat0, size float64) *geo.Country {
	ring := orb.Ring{
		{lon0, lat0}, {lon0 + size, lat0}, {lon0 + size, lat0 + size}, {lon0, lat0 + size}, {lon0, lat0},
	}
	return geo.NewCountry(id, name, orb.MultiPolygon{{ring}})
}

// newTestApp builds an app on an 80x25 simulation screen. The globe area
// is 54 columns (432 x 400 virtual pixels) with the disc centred on cell
// (27, 12) and a radius of 160 pixels.
func newTestApp(t *testing.T, countries []*geo.Country, player Player, provider facts.Provider) (*App, *globe.ManualClock) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	clock := globe.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	cfg := config.Default()
	cfg.StarCount = 10

	app, err := NewApp(Options{
		Config:    cfg,
		Countries: countries,
		Facts:     provider,
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Clock:     clock,
		Screen:    screen,
		Player:    player,
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(app.cleanup)
	return app, clock
}

func press(a *App, x, y int) {
	a.handleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
}

func release(a *App, x, y int) {
	a.handleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func key(a *App, r rune) bool {
	return a.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func screenText(s tcell.Screen) string {
	cells, w, h := s.(tcell.SimulationScreen).GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if runes := cells[y*w+x].Runes; len(runes) > 0 {
				b.WriteRune(runes[0])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func waitFacts(t *testing.T, a *App) factsResult {
	t.Helper()
	select {
	case res := <-a.factsCh:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("facts lookup never finished")
	}
	return factsResult{}
}

func TestModeMenu(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, nil)

	a.render()
	if !strings.Contains(screenText(a.screen), "Choose a mode") {
		t.Fatalf("mode menu not shown")
	}

	key(a, 'h')
	if !a.game.Started() || a.game.Mode() != quiz.Hard {
		t.Fatalf("hard mode not started")
	}
	if !a.frameInput(a.clock.Now()).Borders {
		t.Fatalf("hard mode frame has no boundary overlay")
	}
	if a.game.Target() == nil {
		t.Fatalf("first round not started")
	}

	key(a, 'r')
	if a.game.Started() {
		t.Fatalf("reset did not return to the menu")
	}
}

func TestClickGuessesCountry(t *testing.T) {
	player := &recordingPlayer{}
	provider := stubProvider{facts: &facts.Facts{Alpha2: "SQ", Capital: "Centre", Population: 1234567}}
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, player, provider)

	key(a, 'e')
	press(a, 27, 12)
	release(a, 27, 12)

	if a.game.Score() != 1000 {
		t.Fatalf("score %d after clicking the target", a.game.Score())
	}
	if got := player.played[len(player.played)-1]; got != SoundCorrect {
		t.Fatalf("played %s, want correct", got)
	}

	if !a.applyFacts(waitFacts(t, a)) {
		t.Fatalf("fresh facts were dropped")
	}
	a.render()

	text := screenText(a.screen)
	for _, want := range []string{"Squareland", "Correct!", "Capital: Centre", "Population: 1,234,567"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen is missing %q", want)
		}
	}
}

func TestClickOnOceanIsIgnored(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -5, -5, 10)}, &recordingPlayer{}, nil)

	key(a, 'e')
	// 60 pixels right of centre is about 22 degrees east, open ocean
	press(a, 34, 12)
	release(a, 34, 12)

	if !a.game.InProgress() || a.game.LastGuess() != nil {
		t.Fatalf("click on the ocean resolved the round")
	}
}

func TestDragRotatesWithoutGuessing(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, nil)
	key(a, 'e')

	press(a, 27, 12)
	a.handleEvent(tcell.NewEventMouse(32, 12, tcell.Button1, tcell.ModNone))
	if a.ctrl.State().Mode != globe.UserDragging {
		t.Fatalf("mode %s while dragging", a.ctrl.State().Mode)
	}
	release(a, 32, 12)

	// 5 cells of 8 pixels at sensitivity 75 / scale 160
	want := 40 * 75.0 / 160
	if got := a.ctrl.State().Lambda; math.Abs(got-want) > 1e-9 {
		t.Fatalf("lambda %g, want %g", got, want)
	}
	if a.ctrl.State().Mode != globe.AutoRotating {
		t.Fatalf("rotation did not resume on release")
	}
	if !a.game.InProgress() {
		t.Fatalf("drag was taken as a guess")
	}
}

func TestWheelAndKeysZoom(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, nil)
	start := a.ctrl.State().Scale

	a.handleEvent(tcell.NewEventMouse(10, 10, tcell.WheelUp, tcell.ModNone))
	if got := a.ctrl.State().Scale; got != start+10 {
		t.Fatalf("wheel up scale %g, want %g", got, start+10)
	}

	key(a, '-')
	key(a, '-')
	if got := a.ctrl.State().Scale; got != start-10 {
		t.Fatalf("scale %g after two zoom-out keys, want %g", got, start-10)
	}
}

func TestStaleFactsAreDropped(t *testing.T) {
	countries := []*geo.Country{
		square("001", "Squareland", -20, -20, 40),
		square("002", "Farland", 100, -20, 40),
	}
	provider := stubProvider{facts: &facts.Facts{Capital: "Centre"}}
	a, _ := newTestApp(t, countries, &recordingPlayer{}, provider)

	key(a, 'e')
	a.fetchFacts(countries[0])
	res := waitFacts(t, a)

	key(a, 'n')
	if a.applyFacts(res) {
		t.Fatalf("facts from an old round were shown")
	}
	if a.factsView.Country() != nil {
		t.Fatalf("facts panel not cleared by the new round")
	}
}

func TestFactsFailureShowsPlaceholder(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, stubProvider{err: facts.ErrNotFound})

	key(a, 'e')
	press(a, 27, 12)
	release(a, 27, 12)
	a.applyFacts(waitFacts(t, a))
	a.render()

	if !strings.Contains(screenText(a.screen), "Error loading country data") {
		t.Fatalf("failure placeholder not shown")
	}
}

func TestSoundFailureDoesNotBlockGame(t *testing.T) {
	player := &recordingPlayer{err: errors.New("no audio")}
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, player, nil)

	key(a, 'e')
	press(a, 27, 12)
	release(a, 27, 12)

	if a.game.Score() != 1000 {
		t.Fatalf("guess lost when the sound failed")
	}
}

func TestGameCompletes(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, nil)

	key(a, 'e')
	press(a, 27, 12)
	release(a, 27, 12)
	key(a, 'n')

	if !a.game.Complete() {
		t.Fatalf("game not complete after the only country")
	}
	a.render()
	if !strings.Contains(screenText(a.screen), "Congratulations!") {
		t.Fatalf("completion message not shown")
	}
}

func TestTravelAnimationRedraws(t *testing.T) {
	a, clock := newTestApp(t, []*geo.Country{
		square("001", "Squareland", -20, -20, 40),
		square("002", "Nextdoor", 21, -20, 10),
	}, &recordingPlayer{}, nil)

	key(a, 'e')
	press(a, 27, 12)
	release(a, 27, 12)

	now := clock.Now()
	if !a.animateTravel(now) {
		t.Fatalf("no redraw while the travel line grows")
	}
	clock.Advance(a.cfg.TravelTime.Duration)
	if !a.animateTravel(clock.Now()) {
		t.Fatalf("no final redraw when the travel line finishes")
	}
	if a.animateTravel(clock.Now()) {
		t.Fatalf("redraw requested after the animation ended")
	}
}

func TestResizeRecentresGlobe(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, nil)

	a.screen.(tcell.SimulationScreen).SetSize(120, 40)
	a.handleEvent(tcell.NewEventResize(120, 40))

	st := a.ctrl.State()
	// 120 - 32 columns of 8 pixels, 40 rows of 16
	if st.CenterX != 88*8/2 || st.CenterY != 40*16/2 {
		t.Fatalf("centre (%g, %g) after resize", st.CenterX, st.CenterY)
	}
}

func TestQuitKey(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, nil)

	if key(a, 'q') {
		t.Fatalf("q did not ask to quit")
	}
	// A second quit key before Run returns must not panic
	if a.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("escape did not ask to quit")
	}
	if key(a, 'Q') {
		t.Fatalf("Q did not ask to quit")
	}
}

func TestRunStopsOnEscape(t *testing.T) {
	a, _ := newTestApp(t, []*geo.Country{square("001", "Squareland", -20, -20, 40)}, &recordingPlayer{}, nil)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	a.screen.(tcell.SimulationScreen).InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Escape")
	}
}

func TestNewAppRejectsEmptyWorld(t *testing.T) {
	if _, err := NewApp(Options{Config: config.Default(), Screen: tcell.NewSimulationScreen("UTF-8")}); !errors.Is(err, geo.ErrNoCountries) {
		t.Fatalf("got %v, want ErrNoCountries", err)
	}
}
