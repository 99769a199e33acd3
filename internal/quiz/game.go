package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"globequiz/internal/debug"
	"globequiz/internal/geo"
)

var (
	ErrGameOver      = errors.New("all countries have been guessed")
	ErrNoRound       = errors.New("no round in progress")
	ErrRoundResolved = errors.New("round already resolved")
	ErrNoCountry     = errors.New("guess is not on a country")
)

// Mode is the game difficulty
type Mode string

const (
	Easy Mode = "easy"
	Hard Mode = "hard"
)

// Borders reports whether the country boundary overlay is drawn. Only
// hard mode draws it.
func (m Mode) Borders() bool {
	return m == Hard
}

// ParseMode accepts "easy" or "hard"
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Easy, Hard:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// Game holds the round and score state of one quiz session. It is driven
// from a single goroutine and never locks.
type Game struct {
	countries []*geo.Country
	ids       []string // distinct country ids in load order
	rng       *rand.Rand
	travel    time.Duration

	mode    Mode
	started bool

	guessed  map[string]bool
	score    int
	complete bool

	target     *geo.Country
	round      int
	inProgress bool
	startTime  time.Time
	elapsed    time.Duration

	last       *GuessRecord
	highlights map[string]Tier
}

// Options configures a Game
type Options struct {
	Rand       *rand.Rand    // nil seeds from the runtime
	TravelTime time.Duration // travel line animation length
}

// NewGame creates a game over the loaded countries
func NewGame(countries []*geo.Country, opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	seen := make(map[string]bool, len(countries))
	ids := make([]string, 0, len(countries))
	for _, c := range countries {
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
	}

	g := &Game{
		countries: countries,
		ids:       ids,
		rng:       rng,
		travel:    opts.TravelTime,
	}
	g.Reset()
	return g
}

// Start begins a session in the given mode, discarding any previous one
func (g *Game) Start(mode Mode) {
	g.Reset()
	g.mode = mode
	g.started = true
	debug.Log("Game started in %s mode with %d countries", mode, len(g.ids))
}

// Reset clears guesses, score, clock and any guess artifacts
func (g *Game) Reset() {
	g.round++
	g.started = false
	g.mode = ""
	g.guessed = make(map[string]bool, len(g.ids))
	g.score = 0
	g.complete = false
	g.target = nil
	g.inProgress = false
	g.startTime = time.Time{}
	g.elapsed = 0
	g.last = nil
	g.highlights = make(map[string]Tier)
}

// PickNextTarget chooses uniformly among the countries not yet guessed.
// It returns nil when every country has been guessed.
func (g *Game) PickNextTarget() *geo.Country {
	var available []*geo.Country
	for _, c := range g.countries {
		if !g.guessed[c.ID] {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return nil
	}
	return available[g.rng.IntN(len(available))]
}

// StartRound cancels the current round's clock and guess artifacts and
// picks a new target. The first call after the last country is guessed
// reports ErrGameOver and marks the game complete; later calls keep
// returning ErrGameOver without searching again.
func (g *Game) StartRound(now time.Time) (*geo.Country, error) {
	g.round++
	g.inProgress = false
	g.target = nil
	g.last = nil
	g.highlights = make(map[string]Tier)
	g.elapsed = 0

	if g.complete {
		return nil, ErrGameOver
	}

	target := g.PickNextTarget()
	if target == nil {
		g.complete = true
		debug.Log("Game complete with score %d", g.score)
		return nil, ErrGameOver
	}

	g.target = target
	g.startTime = now
	g.inProgress = true
	debug.Log("Round %d: find %s (%s)", g.round, target.Name, target.ID)
	return target, nil
}

// Guess resolves the round with the country the player clicked and the
// coordinate they clicked on. Guesses outside a round are rejected and
// change nothing.
func (g *Game) Guess(country *geo.Country, at geo.LatLon, now time.Time) (Result, error) {
	if !g.inProgress || g.target == nil {
		if g.last != nil {
			return Result{}, ErrRoundResolved
		}
		return Result{}, ErrNoRound
	}
	if country == nil {
		return Result{}, ErrNoCountry
	}

	target := g.target
	res := ScoreGuess(country, target)

	g.score += res.Points
	g.guessed[target.ID] = true
	g.inProgress = false
	g.elapsed = now.Sub(g.startTime)

	g.highlights[country.ID] = res.Tier
	g.highlights[target.ID] = res.Tier

	centroid := target.Centroid()
	g.last = &GuessRecord{
		Guessed:        country,
		Target:         target,
		At:             at,
		TargetCentroid: centroid,
		Result:         res,
		round:          g.round,
		start:          now,
		path:           geo.Interpolate(at, centroid, travelSegments(geo.Distance(at, centroid))),
	}

	debug.Log("Guessed %s for %s: %s, %.0f km, %d points", country.Name, target.Name, res.Tier, res.DistanceKm, res.Points)
	return res, nil
}

// Tick advances the round clock. It reports whether the displayed time
// changed.
func (g *Game) Tick(now time.Time) bool {
	if !g.inProgress {
		return false
	}
	before := g.ElapsedText()
	g.elapsed = now.Sub(g.startTime)
	return g.ElapsedText() != before
}

// ElapsedText formats the round clock as mm:ss
func (g *Game) ElapsedText() string {
	secs := int(g.elapsed / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Mode returns the difficulty of the current session
func (g *Game) Mode() Mode {
	return g.mode
}

// Started reports whether a mode has been chosen
func (g *Game) Started() bool {
	return g.started
}

// Target returns the country to find, nil between rounds
func (g *Game) Target() *geo.Country {
	return g.target
}

// InProgress reports whether a guess would be accepted
func (g *Game) InProgress() bool {
	return g.inProgress
}

// Complete reports whether every country has been guessed
func (g *Game) Complete() bool {
	return g.complete
}

// Score returns the running total
func (g *Game) Score() int {
	return g.score
}

// Remaining returns how many countries are left to guess
func (g *Game) Remaining() int {
	return len(g.ids) - len(g.guessed)
}

// Total returns how many distinct countries the game was loaded with
func (g *Game) Total() int {
	return len(g.ids)
}

// Guessed reports whether a country id has been a resolved target
func (g *Game) Guessed(id string) bool {
	return g.guessed[id]
}

// LastGuess returns the record of the guess that resolved the current
// round, or nil
func (g *Game) LastGuess() *GuessRecord {
	return g.last
}

// Highlights returns the result class of each highlighted country id
func (g *Game) Highlights() map[string]string {
	out := make(map[string]string, len(g.highlights))
	for id, tier := range g.highlights {
		out[id] = string(tier)
	}
	return out
}

// Round returns a token that changes whenever a round starts or the game
// resets. Work started for one round compares it to drop stale results.
func (g *Game) Round() int {
	return g.round
}

// TravelLine returns the part of the travel line drawn so far. It is
// empty when there is no guess or the guess belongs to an older round.
func (g *Game) TravelLine(now time.Time) []geo.LatLon {
	if g.last == nil || g.last.round != g.round {
		return nil
	}
	return g.last.progress(now, g.travel)
}

// Animating reports whether the travel line is still being drawn
func (g *Game) Animating(now time.Time) bool {
	if g.last == nil || g.last.round != g.round {
		return false
	}
	return now.Sub(g.last.start) < g.travel
}
