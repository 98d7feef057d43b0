// Package commentary renders ball-by-ball and milestone commentary from a
// catalogue of text templates.
package commentary

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/Dosada05/cricket-live/models"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultCatalogue []byte

type Style string

const (
	StyleExcited    Style = "excited"
	StyleAnalytical Style = "analytical"
	StyleNeutral    Style = "neutral"
	StyleDramatic   Style = "dramatic"
)

// Rotation is the order styles are used in when no style is requested.
var Rotation = []Style{StyleExcited, StyleAnalytical, StyleNeutral, StyleDramatic}

func (s Style) Valid() bool {
	for _, r := range Rotation {
		if r == s {
			return true
		}
	}
	return false
}

// Branch is the shape of a delivery as far as commentary is concerned.
type Branch string

const (
	BranchWicket Branch = "wicket"
	BranchSix    Branch = "six"
	BranchFour   Branch = "four"
	BranchDot    Branch = "dot"
	BranchExtra  Branch = "extra"
	BranchRuns   Branch = "runs"
)

var branches = []Branch{BranchWicket, BranchSix, BranchFour, BranchDot, BranchExtra, BranchRuns}

// BranchFor classifies a delivery. A wicket wins over everything else and
// an extra wins over the runs off the bat.
func BranchFor(ev models.BallEvent) Branch {
	switch {
	case ev.IsWicket:
		return BranchWicket
	case ev.IsExtra:
		return BranchExtra
	case ev.Runs == 6:
		return BranchSix
	case ev.Runs == 4:
		return BranchFour
	case ev.Runs == 0:
		return BranchDot
	default:
		return BranchRuns
	}
}

// BallContext is everything a ball template can refer to.
type BallContext struct {
	Event         models.BallEvent
	Batsman       string
	Bowler        string
	BatsmanRuns   int
	BatsmanBalls  int
	BowlerWickets int
	BowlerRuns    int
	Snapshot      models.ScoreSnapshot
}

type ballData struct {
	Batsman       string
	Bowler        string
	Runs          int
	Extra         string
	Wicket        string
	BatsmanRuns   int
	BatsmanBalls  int
	BowlerWickets int
	BowlerRuns    int
	Score         string
	Overs         string
	Situation     string
}

type milestoneData struct {
	Player string
	Value  int
}

type catalogue struct {
	Ball       map[Branch]map[Style][]string   `yaml:"ball"`
	Milestones map[models.MilestoneKind]string `yaml:"milestones"`
}

// Generator is safe for concurrent use. Only the style pointer and the
// random source are shared between calls.
type Generator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	next int

	ball       map[Branch]map[Style][]*template.Template
	milestones map[models.MilestoneKind]*template.Template
}

type Option func(*Generator)

// WithRand injects the random source, so tests can seed it.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// New builds a generator from the embedded catalogue.
func New(opts ...Option) (*Generator, error) {
	return NewFromYAML(defaultCatalogue, opts...)
}

// NewFromYAML builds a generator from a caller supplied catalogue. Every
// branch needs at least one template for every style.
func NewFromYAML(raw []byte, opts ...Option) (*Generator, error) {
	var c catalogue
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("commentary: parse catalogue: %w", err)
	}

	g := &Generator{
		ball:       make(map[Branch]map[Style][]*template.Template, len(branches)),
		milestones: make(map[models.MilestoneKind]*template.Template, len(c.Milestones)),
	}
	for _, b := range branches {
		g.ball[b] = make(map[Style][]*template.Template, len(Rotation))
		for _, st := range Rotation {
			texts := c.Ball[b][st]
			if len(texts) == 0 {
				return nil, fmt.Errorf("commentary: no %s templates for %s", st, b)
			}
			for i, text := range texts {
				tmpl, err := template.New(fmt.Sprintf("%s.%s.%d", b, st, i)).Parse(text)
				if err != nil {
					return nil, fmt.Errorf("commentary: %s/%s #%d: %w", b, st, i, err)
				}
				g.ball[b][st] = append(g.ball[b][st], tmpl)
			}
		}
	}
	for kind, text := range c.Milestones {
		tmpl, err := template.New(string(kind)).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("commentary: milestone %s: %w", kind, err)
		}
		g.milestones[kind] = tmpl
	}

	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	return g, nil
}

// Ball renders commentary for one delivery. Commentary typed in by the
// scorer is returned unchanged. An empty or unknown preferred style means
// the next style in the rotation.
func (g *Generator) Ball(bc BallContext, preferred Style) string {
	if text := strings.TrimSpace(bc.Event.Commentary); text != "" {
		return text
	}

	branch := BranchFor(bc.Event)

	g.mu.Lock()
	style := preferred
	if !style.Valid() {
		style = Rotation[g.next]
		g.next = (g.next + 1) % len(Rotation)
	}
	variants := g.ball[branch][style]
	tmpl := variants[g.rng.IntN(len(variants))]
	g.mu.Unlock()

	var sb strings.Builder
	if err := tmpl.Execute(&sb, newBallData(bc)); err != nil {
		return fallback(bc)
	}
	return sb.String()
}

// Milestone renders the single template registered for kind.
func (g *Generator) Milestone(kind models.MilestoneKind, player string, value int) string {
	tmpl, ok := g.milestones[kind]
	if !ok {
		return fmt.Sprintf("%s: %s (%d)", kind, player, value)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, milestoneData{Player: player, Value: value}); err != nil {
		return fmt.Sprintf("%s: %s (%d)", kind, player, value)
	}
	return sb.String()
}

func newBallData(bc BallContext) ballData {
	ev := bc.Event
	d := ballData{
		Batsman:       orUnknown(bc.Batsman, "the batter"),
		Bowler:        orUnknown(bc.Bowler, "the bowler"),
		Runs:          ev.TotalRuns(),
		BatsmanRuns:   bc.BatsmanRuns,
		BatsmanBalls:  bc.BatsmanBalls,
		BowlerWickets: bc.BowlerWickets,
		BowlerRuns:    bc.BowlerRuns,
		Score:         fmt.Sprintf("%d/%d", bc.Snapshot.Runs, bc.Snapshot.Wickets),
		Overs:         fmt.Sprintf("%.1f", bc.Snapshot.Overs),
	}
	if ev.IsExtra {
		d.Extra = extraName(ev.ExtraType)
	}
	if ev.IsWicket {
		d.Wicket = strings.ToLower(strings.ReplaceAll(string(ev.WicketType), "_", " "))
	}
	d.Situation = situation(bc.Snapshot)
	return d
}

func situation(s models.ScoreSnapshot) string {
	if s.RunsNeeded != nil && s.BallsRemaining != nil {
		return fmt.Sprintf("%d needed from %d balls.", *s.RunsNeeded, *s.BallsRemaining)
	}
	return fmt.Sprintf("%d/%d after %.1f overs.", s.Runs, s.Wickets, s.Overs)
}

func extraName(t models.ExtraType) string {
	switch t {
	case models.ExtraWide:
		return "Wide"
	case models.ExtraNoBall:
		return "No ball"
	case models.ExtraBye:
		return "Byes"
	case models.ExtraLegBye:
		return "Leg byes"
	case models.ExtraPenalty:
		return "Penalty runs"
	}
	return "Extras"
}

func fallback(bc BallContext) string {
	return fmt.Sprintf("%s to %s, %s", orUnknown(bc.Bowler, "the bowler"), orUnknown(bc.Batsman, "the batter"), bc.Event.Notation())
}

func orUnknown(name, placeholder string) string {
	if name == "" {
		return placeholder
	}
	return name
}
