package quiz

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"globequiz/internal/geo"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func squareAt(id string, lat, lon float64) *geo.Country {
	const h = 0.1
	ring := orb.Ring{{lon - h, lat - h}, {lon + h, lat - h}, {lon + h, lat + h}, {lon - h, lat + h}, {lon - h, lat - h}}
	return geo.NewCountry(id, "Country "+id, orb.MultiPolygon{{ring}})
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed>>16|3))
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		km     float64
		tier   Tier
		points int
	}{
		{0, TierClose, 500},
		{299.9, TierClose, 500},
		{300.0, TierClose, 500},
		{300.1, TierSomewhatClose, 100},
		{500.0, TierSomewhatClose, 100},
		{500.1, TierWrong, 0},
		{20000, TierWrong, 0},
	}

	for _, tt := range tests {
		got := Classify(tt.km)
		if got.Tier != tt.tier || got.Points != tt.points {
			t.Errorf("Classify(%v) = %s/%d, want %s/%d", tt.km, got.Tier, got.Points, tt.tier, tt.points)
		}
	}
}

func TestScoreGuessExactMatchWins(t *testing.T) {
	a := squareAt("A", 10, 10)
	if res := ScoreGuess(a, a); res.Tier != TierCorrect || res.Points != 1000 {
		t.Fatalf("ScoreGuess(A, A) = %+v", res)
	}

	// Same id, different geometry: still correct
	elsewhere := squareAt("A", -40, 120)
	if res := ScoreGuess(elsewhere, a); res.Tier != TierCorrect {
		t.Fatalf("same id scored %s", res.Tier)
	}

	// Same geometry, different id: only close
	twin := squareAt("T", 10, 10)
	if res := ScoreGuess(twin, a); res.Tier != TierClose || res.DistanceKm > 1e-6 {
		t.Fatalf("zero-distance twin scored %+v", res)
	}
}

func TestScoreGuessDistanceSymmetric(t *testing.T) {
	a := squareAt("A", 48, 2)
	b := squareAt("B", 51, 0)
	ab, ba := ScoreGuess(a, b), ScoreGuess(b, a)
	if ab != ba {
		t.Fatalf("asymmetric scores %+v vs %+v", ab, ba)
	}
}

// startWithTarget finds a seed whose first round targets want
func startWithTarget(t *testing.T, countries []*geo.Country, want *geo.Country) *Game {
	t.Helper()
	for seed := uint64(1); seed < 1000; seed++ {
		g := NewGame(countries, Options{Rand: seeded(seed)})
		g.Start(Easy)
		target, err := g.StartRound(epoch)
		if err != nil {
			t.Fatalf("StartRound: %v", err)
		}
		if target == want {
			return g
		}
	}
	t.Fatalf("no seed picked %s first", want.ID)
	return nil
}

func TestThreeCountryScenario(t *testing.T) {
	// B lies 2.69 degrees north of A (about 299 km), C 50 degrees north
	a := squareAt("A", 0, 0)
	b := squareAt("B", 2.69, 0)
	c := squareAt("C", 50, 0)
	countries := []*geo.Country{a, b, c}

	tests := []struct {
		guess  *geo.Country
		tier   Tier
		points int
	}{
		{b, TierClose, 500},
		{c, TierWrong, 0},
		{a, TierCorrect, 1000},
	}

	for _, tt := range tests {
		g := startWithTarget(t, countries, a)
		res, err := g.Guess(tt.guess, tt.guess.Centroid(), epoch.Add(3*time.Second))
		if err != nil {
			t.Fatalf("Guess(%s): %v", tt.guess.ID, err)
		}
		if res.Tier != tt.tier || res.Points != tt.points {
			t.Errorf("guess %s for A: %s/%d (%.1f km), want %s/%d",
				tt.guess.ID, res.Tier, res.Points, res.DistanceKm, tt.tier, tt.points)
		}
		if g.Score() != tt.points {
			t.Errorf("score %d, want %d", g.Score(), tt.points)
		}
		if !g.Guessed("A") || g.Remaining() != 2 {
			t.Errorf("target not marked guessed: remaining %d", g.Remaining())
		}
		hl := g.Highlights()
		if hl["A"] != string(tt.tier) || hl[tt.guess.ID] != string(tt.tier) {
			t.Errorf("highlights %v", hl)
		}
	}
}

func TestGuessIgnoredOutsideRound(t *testing.T) {
	a := squareAt("A", 0, 0)
	g := NewGame([]*geo.Country{a, squareAt("B", 20, 20)}, Options{Rand: seeded(5)})
	g.Start(Hard)

	if _, err := g.Guess(a, geo.LatLon{}, epoch); !errors.Is(err, ErrNoRound) {
		t.Fatalf("guess before round: %v", err)
	}

	target, err := g.StartRound(epoch)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Guess(nil, geo.LatLon{}, epoch); !errors.Is(err, ErrNoCountry) {
		t.Fatalf("ocean guess: %v", err)
	}
	if !g.InProgress() {
		t.Fatalf("ocean guess resolved the round")
	}

	if _, err := g.Guess(target, target.Centroid(), epoch); err != nil {
		t.Fatal(err)
	}
	score := g.Score()
	if _, err := g.Guess(target, target.Centroid(), epoch); !errors.Is(err, ErrRoundResolved) {
		t.Fatalf("second guess: %v", err)
	}
	if g.Score() != score {
		t.Fatalf("ignored guess changed score")
	}
}

func TestGameCompletesOnce(t *testing.T) {
	countries := []*geo.Country{squareAt("A", 0, 0), squareAt("B", 10, 10), squareAt("C", 20, 20)}
	g := NewGame(countries, Options{Rand: seeded(9)})
	g.Start(Easy)

	seen := make(map[string]bool)
	for i := 0; i < len(countries); i++ {
		target, err := g.StartRound(epoch)
		if err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		if seen[target.ID] {
			t.Fatalf("target %s picked twice", target.ID)
		}
		seen[target.ID] = true
		if _, err := g.Guess(target, target.Centroid(), epoch); err != nil {
			t.Fatal(err)
		}
	}

	if g.Remaining() != 0 || g.Score() != 3000 {
		t.Fatalf("remaining %d score %d", g.Remaining(), g.Score())
	}
	if g.PickNextTarget() != nil {
		t.Fatalf("exhausted game still picks a target")
	}

	for i := 0; i < 3; i++ {
		target, err := g.StartRound(epoch)
		if target != nil || !errors.Is(err, ErrGameOver) {
			t.Fatalf("StartRound after completion: %v, %v", target, err)
		}
	}
	if !g.Complete() || g.InProgress() {
		t.Fatalf("complete=%v inProgress=%v", g.Complete(), g.InProgress())
	}
	if _, err := g.Guess(countries[0], geo.LatLon{}, epoch); !errors.Is(err, ErrNoRound) {
		t.Fatalf("guess after completion: %v", err)
	}
}

func TestPickNextTargetSkipsGuessed(t *testing.T) {
	countries := []*geo.Country{squareAt("A", 0, 0), squareAt("B", 10, 10), squareAt("C", 20, 20), squareAt("D", 30, 30)}
	g := NewGame(countries, Options{Rand: seeded(3)})
	g.Start(Easy)

	target, _ := g.StartRound(epoch)
	g.Guess(target, target.Centroid(), epoch)

	counts := make(map[string]int)
	for i := 0; i < 3000; i++ {
		c := g.PickNextTarget()
		if c.ID == target.ID {
			t.Fatalf("picked guessed country %s", c.ID)
		}
		counts[c.ID]++
	}
	for id, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("country %s picked %d of 3000 times", id, n)
		}
	}
}

func TestDuplicateIDsCountOnce(t *testing.T) {
	countries := []*geo.Country{squareAt("A", 0, 0), squareAt("A", 5, 5), squareAt("B", 10, 10)}
	g := NewGame(countries, Options{Rand: seeded(1)})
	if g.Total() != 2 || g.Remaining() != 2 {
		t.Fatalf("total %d remaining %d", g.Total(), g.Remaining())
	}
}

func TestRoundClock(t *testing.T) {
	g := NewGame([]*geo.Country{squareAt("A", 0, 0)}, Options{Rand: seeded(1)})
	g.Start(Easy)
	if g.Tick(epoch) {
		t.Fatalf("clock ticked before a round")
	}

	target, _ := g.StartRound(epoch)
	if g.ElapsedText() != "00:00" {
		t.Fatalf("fresh round shows %s", g.ElapsedText())
	}
	if g.Tick(epoch.Add(500 * time.Millisecond)) {
		t.Fatalf("half a second changed the display")
	}
	if !g.Tick(epoch.Add(time.Second)) || g.ElapsedText() != "00:01" {
		t.Fatalf("one second shows %s", g.ElapsedText())
	}
	g.Tick(epoch.Add(125 * time.Second))
	if g.ElapsedText() != "02:05" {
		t.Fatalf("125s shows %s", g.ElapsedText())
	}

	g.Guess(target, target.Centroid(), epoch.Add(130*time.Second))
	if g.Tick(epoch.Add(200*time.Second)) || g.ElapsedText() != "02:10" {
		t.Fatalf("clock kept running after the guess: %s", g.ElapsedText())
	}
}

func TestTravelLineAnimatesAndCancels(t *testing.T) {
	a := squareAt("A", 0, 0)
	b := squareAt("B", 0, 20)
	g := startWithTarget(t, []*geo.Country{a, b}, a)
	g.travel = time.Second

	at := b.Centroid()
	g.Guess(b, at, epoch)

	full := g.LastGuess().Path()
	if len(full) < 3 {
		t.Fatalf("travel path has %d points", len(full))
	}
	if geo.Distance(full[len(full)-1], a.Centroid()) > 1e-6 {
		t.Fatalf("travel line ends at %+v", full[len(full)-1])
	}

	if got := g.TravelLine(epoch); len(got) != 1 {
		t.Fatalf("line at start has %d points", len(got))
	}
	half := g.TravelLine(epoch.Add(500 * time.Millisecond))
	if len(half) <= 1 || len(half) >= len(full) {
		t.Fatalf("half-way line has %d of %d points", len(half), len(full))
	}
	if !g.Animating(epoch.Add(500 * time.Millisecond)) {
		t.Fatalf("not animating half way")
	}
	if got := g.TravelLine(epoch.Add(2 * time.Second)); len(got) != len(full) {
		t.Fatalf("finished line has %d of %d points", len(got), len(full))
	}

	g.StartRound(epoch.Add(3 * time.Second))
	if g.TravelLine(epoch.Add(500*time.Millisecond)) != nil || g.LastGuess() != nil {
		t.Fatalf("new round kept the old travel line")
	}
	if len(g.Highlights()) != 0 {
		t.Fatalf("new round kept highlights %v", g.Highlights())
	}
}

func TestResetClearsSession(t *testing.T) {
	a := squareAt("A", 0, 0)
	g := NewGame([]*geo.Country{a, squareAt("B", 10, 10)}, Options{Rand: seeded(2)})
	g.Start(Hard)
	target, _ := g.StartRound(epoch)
	g.Guess(target, target.Centroid(), epoch.Add(5*time.Second))
	before := g.Round()

	g.Reset()
	if g.Score() != 0 || g.Remaining() != 2 || g.InProgress() || g.Started() || g.Target() != nil {
		t.Fatalf("reset left state: score %d remaining %d", g.Score(), g.Remaining())
	}
	if g.ElapsedText() != "00:00" || g.LastGuess() != nil {
		t.Fatalf("reset left clock %s or guess", g.ElapsedText())
	}
	if g.Round() == before {
		t.Fatalf("reset did not invalidate the round token")
	}
}

func TestModeBorders(t *testing.T) {
	if Easy.Borders() || !Hard.Borders() {
		t.Fatalf("only hard mode draws the boundary overlay")
	}
	if Mode("").Borders() {
		t.Fatalf("boundaries drawn before a mode was chosen")
	}
	if _, err := ParseMode("medium"); err == nil {
		t.Fatalf("ParseMode accepted medium")
	}
	if m, err := ParseMode("hard"); err != nil || m != Hard {
		t.Fatalf("ParseMode(hard) = %v, %v", m, err)
	}
}
