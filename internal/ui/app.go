package ui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"globequiz/internal/config"
	"globequiz/internal/debug"
	"globequiz/internal/facts"
	"globequiz/internal/geo"
	"globequiz/internal/globe"
	"globequiz/internal/quiz"
)

const (
	panelWidth   = 32
	scoreHeight  = 14
	wheelNotch   = 100 // wheel delta-Y per notch, as a browser reports it
	arrowPixels  = 40  // virtual pixels one arrow key press drags the globe
	factsTimeout = 15 * time.Second
)

// Options wires an App to its collaborators
type Options struct {
	Config    config.Config
	Countries []*geo.Country
	Facts     facts.Provider // nil disables facts lookups
	Rand      *rand.Rand
	Clock     globe.Clock  // nil uses the system clock
	Screen    tcell.Screen // nil creates a terminal screen
	Player    Player       // nil rings the terminal bell
}

// factsResult is a finished lookup, tagged with the round that asked for it
type factsResult struct {
	round   int
	country *geo.Country
	facts   *facts.Facts
	err     error
}

// App is the main application controller. Everything except the facts
// lookups and the event reader runs on the Run goroutine.
type App struct {
	screen    tcell.Screen
	cfg       config.Config
	countries []*geo.Country

	game      *quiz.Game
	ctrl      *globe.Controller
	scheduler *globe.Scheduler
	clock     globe.Clock

	provider facts.Provider
	player   Player
	bell     *BellPlayer

	globeView *GlobeView
	scoreView *ScoreView
	factsView *FactsView

	gesture      gesture
	wasAnimating bool
	dirty        bool

	events  chan tcell.Event
	factsCh chan factsResult
	ctx     context.Context
	cancel  context.CancelFunc
	closed  sync.Once
}

// NewApp creates a new application
func NewApp(opts Options) (*App, error) {
	if len(opts.Countries) == 0 {
		return nil, geo.ErrNoCountries
	}

	screen := opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to create screen: %w", err)
		}
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault)
	screen.EnableMouse()
	screen.Clear()

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	clock := opts.Clock
	if clock == nil {
		clock = globe.SystemClock{}
	}

	cfg := opts.Config
	width, height := screen.Size()
	globeWidth, _ := layout(width)

	globeView := NewGlobeView(globeWidth, height, cfg.CellWidth, cfg.AspectRatio)
	pw, ph := globeView.PixelSize()
	ctrl := globe.NewController(cfg, pw, ph)

	starOpts := globe.StarOptions{
		Count:        cfg.StarCount,
		ShellMin:     cfg.StarShellMin,
		ShellMax:     cfg.StarShellMax,
		SphereRadius: ctrl.State().Scale,
		FieldRadius:  cfg.StarFieldRadius,
		FieldDepth:   cfg.StarFieldDepth,
		Size:         cfg.StarSize,
		FocalLength:  cfg.FocalLength,
	}
	globeView.SetStars(globe.GenerateStars(rng, starOpts), starOpts)

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		screen:    screen,
		cfg:       cfg,
		countries: opts.Countries,
		game: quiz.NewGame(opts.Countries, quiz.Options{
			Rand:       rng,
			TravelTime: cfg.TravelTime.Duration,
		}),
		ctrl:      ctrl,
		scheduler: globe.NewScheduler(clock),
		clock:     clock,
		provider:  opts.Facts,
		player:    opts.Player,
		globeView: globeView,
		scoreView: NewScoreView(0, 0, 0, 0),
		factsView: NewFactsView(0, 0, 0, 0),
		dirty:     true,
		events:    make(chan tcell.Event, 16),
		factsCh:   make(chan factsResult, 1),
		ctx:       ctx,
		cancel:    cancel,
	}

	if app.player == nil {
		app.bell = NewBellPlayer(screen)
		app.player = app.bell
	}

	app.layoutPanels(width, height)

	app.scheduler.Add(app.ctrl.AdvanceRotation)
	app.scheduler.Add(app.game.Tick)
	app.scheduler.Add(app.animateTravel)

	if cfg.Mode != "" {
		mode, err := quiz.ParseMode(cfg.Mode)
		if err != nil {
			app.cleanup()
			return nil, err
		}
		app.startGame(mode)
	}

	return app, nil
}

// layout splits the screen width between the globe and the side panels
func layout(width int) (globeWidth, sideWidth int) {
	sideWidth = min(panelWidth, width/3)
	return width - sideWidth, sideWidth
}

func (a *App) layoutPanels(width, height int) {
	globeWidth, sideWidth := layout(width)
	sh := min(scoreHeight, height)
	a.scoreView.UpdateDimensions(globeWidth, 0, sideWidth, sh)
	a.factsView.UpdateDimensions(globeWidth, sh, sideWidth, height-sh)
}

// Run starts the application main loop
func (a *App) Run() error {
	defer a.cleanup()

	go a.readEvents()

	ticker := time.NewTicker(a.cfg.FrameInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case ev := <-a.events:
			if !a.handleEvent(ev) {
				return nil // Quit requested
			}
			a.dirty = true

		case res := <-a.factsCh:
			if a.applyFacts(res) {
				a.dirty = true
			}

		case <-ticker.C:
			if a.scheduler.Tick() {
				a.dirty = true
			}
			if a.dirty {
				a.render()
				a.dirty = false
			}
		}
	}
}

// readEvents forwards terminal events to the Run loop. PollEvent returns
// nil once the screen is finalized.
func (a *App) readEvents() {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.events <- ev:
		case <-a.ctx.Done():
			return
		}
	}
}

// animateTravel keeps redrawing while the travel line grows, and once
// more when it has finished
func (a *App) animateTravel(now time.Time) bool {
	animating := a.game.Animating(now)
	changed := animating || a.wasAnimating
	a.wasAnimating = animating
	return changed
}

// frameInput collects what the globe needs for one frame
func (a *App) frameInput(now time.Time) globe.FrameInput {
	in := globe.FrameInput{
		State:      a.ctrl.State(),
		Countries:  a.countries,
		Highlights: a.game.Highlights(),
		Borders:    a.game.Mode().Borders(),
		TravelLine: a.game.TravelLine(now),
	}
	if last := a.game.LastGuess(); last != nil {
		at := last.At
		in.Marker = &at
	}
	return in
}

// render renders the current state to the screen
func (a *App) render() {
	a.screen.Clear()

	a.globeView.Draw(a.screen, a.frameInput(a.clock.Now()))
	a.scoreView.Draw(a.screen, a.game, a.bell != nil && a.bell.Muted())
	a.factsView.Draw(a.screen)

	a.screen.Show()
}

// handleEvent processes keyboard and mouse events
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		a.handleMouse(ev)

	case *tcell.EventResize:
		a.handleResize()
	}

	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return false

	case tcell.KeyLeft:
		a.nudge(-arrowPixels, 0)
	case tcell.KeyRight:
		a.nudge(arrowPixels, 0)
	case tcell.KeyUp:
		a.nudge(0, -arrowPixels)
	case tcell.KeyDown:
		a.nudge(0, arrowPixels)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false

		case 'e', 'E':
			if !a.game.Started() {
				a.play(SoundClick)
				a.startGame(quiz.Easy)
			}

		case 'h', 'H':
			if !a.game.Started() {
				a.play(SoundClick)
				a.startGame(quiz.Hard)
			}

		case 'n', 'N':
			if a.game.Started() {
				a.play(SoundClick)
				a.nextRound()
			}

		case 'r', 'R':
			a.play(SoundClick)
			a.reset()

		case ' ':
			a.ctrl.Resume()

		case 'm', 'M':
			if a.bell != nil {
				a.bell.SetMuted(!a.bell.Muted())
			}

		case '+', '=':
			a.ctrl.Wheel(-wheelNotch)

		case '-', '_':
			a.ctrl.Wheel(wheelNotch)
		}
	}

	return true
}

// nudge rotates the globe as a short drag would
func (a *App) nudge(dx, dy float64) {
	a.ctrl.DragStart()
	a.ctrl.Drag(dx, dy)
	a.ctrl.DragEnd()
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.ctrl.Wheel(-wheelNotch)
		return
	case buttons&tcell.WheelDown != 0:
		a.ctrl.Wheel(wheelNotch)
		return
	}

	kind, dx, dy := a.gesture.update(x, y, buttons&tcell.Button1 != 0)
	cw, ch := a.globeView.CellSize()

	switch kind {
	case gestureDragStart:
		a.ctrl.DragStart()
		a.ctrl.Drag(float64(dx)*cw, float64(dy)*ch)
	case gestureDrag:
		a.ctrl.Drag(float64(dx)*cw, float64(dy)*ch)
	case gestureDragEnd:
		a.ctrl.DragEnd()
	case gestureClick:
		a.click(a.gesture.origin())
	}
}

// click guesses the country under a screen cell
func (a *App) click(x, y int) {
	if !a.globeView.Contains(x, y) || !a.game.InProgress() {
		return
	}

	ll, ok := a.ctrl.Invert(a.globeView.Pixel(x, y))
	if !ok {
		return
	}

	res, err := a.game.Guess(geo.Locate(a.countries, ll), ll, a.clock.Now())
	if err != nil {
		debug.Log("Guess at %.2f, %.2f ignored: %v", ll.Lat, ll.Lon, err)
		return
	}

	a.play(SoundClick)
	a.play(soundFor(res.Tier))

	last := a.game.LastGuess()
	if res.Tier == quiz.TierCorrect {
		a.ctrl.OnCorrectGuess()
		if a.cfg.FocusOnReveal {
			a.ctrl.FocusOn(last.TargetCentroid)
		}
	}

	a.fetchFacts(last.Target)
}

// startGame begins a session in mode and starts its first round
func (a *App) startGame(mode quiz.Mode) {
	a.game.Start(mode)
	a.factsView.Clear()
	a.nextRound()
}

// nextRound starts a round. Facts and travel lines of the old round are
// dropped, including lookups still in flight.
func (a *App) nextRound() {
	a.factsView.Clear()
	if _, err := a.game.StartRound(a.clock.Now()); err != nil {
		if !errors.Is(err, quiz.ErrGameOver) {
			debug.Log("Failed to start round: %v", err)
		}
	}
}

// reset goes back to the mode menu
func (a *App) reset() {
	a.game.Reset()
	a.factsView.Clear()
}

// fetchFacts looks up facts for country off the Run goroutine
func (a *App) fetchFacts(country *geo.Country) {
	if a.provider == nil || country == nil {
		return
	}

	round := a.game.Round()
	a.factsView.SetLoading(round, country)

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, factsTimeout)
		defer cancel()

		f, err := a.provider.Lookup(ctx, country)
		select {
		case a.factsCh <- factsResult{round: round, country: country, facts: f, err: err}:
		case <-a.ctx.Done():
		}
	}()
}

// applyFacts shows a finished lookup unless its round is over
func (a *App) applyFacts(res factsResult) bool {
	if res.round != a.game.Round() {
		debug.Log("Dropping stale facts for %s from round %d", res.country.Name, res.round)
		return false
	}

	if res.err != nil {
		debug.Log("Facts lookup for %s failed: %v", res.country.Name, res.err)
		a.factsView.SetError(res.round, res.country, res.err)
		return true
	}

	a.factsView.SetFacts(res.round, res.country, res.facts)
	return true
}

// play plays a sound. Failures are logged and otherwise ignored.
func (a *App) play(s Sound) {
	if err := a.player.Play(s); err != nil {
		debug.Log("Sound %s failed: %v", s, err)
	}
}

// handleResize handles terminal resize events
func (a *App) handleResize() {
	a.screen.Sync()
	width, height := a.screen.Size()

	globeWidth, _ := layout(width)
	a.globeView.UpdateDimensions(globeWidth, height)
	a.ctrl.Resize(a.globeView.PixelSize())
	a.layoutPanels(width, height)

	// A press that began before the resize may no longer map to the same cell
	if a.gesture.cancel() {
		a.ctrl.DragEnd()
	}
}

// cleanup performs cleanup before exit
func (a *App) cleanup() {
	a.closed.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}

		if a.screen != nil {
			a.screen.Fini()
		}
	})
}
