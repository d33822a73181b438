package challenge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ascendhq/ascendcore/internal/jsonstream"
	"github.com/ascendhq/ascendcore/internal/llmclient"
	"github.com/ascendhq/ascendcore/internal/promptbuilder"
	"github.com/ascendhq/ascendcore/internal/repository"
)

// Config bundles the tunables spec §6 lists for generation.
type Config struct {
	Model             string
	Temperature       float64
	Timeout           time.Duration
	MaxRetries        int
	EventQueueBound   int
	MaxActiveChallenges int
}

// Generator runs the three-challenge generation batch described in spec
// §4.7, orchestrating promptbuilder, an llmclient.Client, and jsonstream.
type Generator struct {
	repo repository.Repository
	llm  llmclient.Client
	cfg  Config

	mu       sync.Mutex
	inFlight map[uuid.UUID]*inFlightGeneration
}

// New builds a Generator. A zero EventQueueBound becomes 64 and a zero
// MaxActiveChallenges becomes 3; the remaining fields are passed to the LLM
// client as given, where a zero Timeout falls back to its 30s default.
func New(repo repository.Repository, llm llmclient.Client, cfg Config) *Generator {
	if cfg.EventQueueBound <= 0 {
		cfg.EventQueueBound = 64
	}
	if cfg.MaxActiveChallenges <= 0 {
		cfg.MaxActiveChallenges = 3
	}
	return &Generator{repo: repo, llm: llm, cfg: cfg, inFlight: make(map[uuid.UUID]*inFlightGeneration)}
}

type inFlightGeneration struct {
	mu   sync.Mutex
	subs []chan Event
}

func (f *inFlightGeneration) addSubscriber(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, ch)
}

func (f *inFlightGeneration) broadcast(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		ch <- e
	}
}

func (f *inFlightGeneration) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		close(ch)
	}
	f.subs = nil
}

// Generate starts (or joins) generation for profileID, per the Open
// Question (a) resolution in DESIGN.md: a second concurrent call for the
// same profile joins the in-flight event stream rather than being
// rejected. The returned channel is closed once a complete/error/cancelled
// event has been delivered.
func (g *Generator) Generate(ctx context.Context, profileID uuid.UUID) (<-chan Event, error) {
	g.mu.Lock()
	if fl, ok := g.inFlight[profileID]; ok {
		sub := make(chan Event, g.cfg.EventQueueBound)
		fl.addSubscriber(sub)
		g.mu.Unlock()
		return sub, nil
	}

	fl := &inFlightGeneration{}
	sub := make(chan Event, g.cfg.EventQueueBound)
	fl.addSubscriber(sub)
	g.inFlight[profileID] = fl
	g.mu.Unlock()

	go g.run(ctx, profileID, fl)
	return sub, nil
}

func (g *Generator) run(ctx context.Context, profileID uuid.UUID, fl *inFlightGeneration) {
	defer func() {
		g.mu.Lock()
		delete(g.inFlight, profileID)
		g.mu.Unlock()
		fl.closeAll()
	}()

	profile, err := g.repo.GetProfile(ctx, profileID)
	if err != nil {
		fl.broadcast(errorEvent(profileID, err))
		return
	}

	track := promptbuilder.InferTrack(profile.CareerGoal)
	fl.broadcast(Event{Type: EventStart, ProfileID: profileID, Track: track})
	fl.broadcast(Event{Type: EventProgress, ProfileID: profileID, Percent: 10, Message: "building prompt"})

	prompt := promptbuilder.BuildGeneration(profile)

	deltas, errs, err := g.llm.Stream(ctx, prompt, llmclient.Options{
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		Timeout:     g.cfg.Timeout,
		MaxRetries:  g.cfg.MaxRetries,
	})
	if err != nil {
		fl.broadcast(errorEvent(profileID, err))
		return
	}
	fl.broadcast(Event{Type: EventProgress, ProfileID: profileID, Percent: 40, Message: "connected to model"})

	parser := jsonstream.NewParser()
	var challenges []repository.Challenge
	var parseErr error

	progressAt := []int{70, 95}

	handle := func(events []jsonstream.Event) bool {
		for _, pe := range events {
			switch pe.Type {
			case jsonstream.EventArrayItem:
				if pe.Path != "challenges" {
					continue
				}
				raw, ok := pe.Value.(map[string]any)
				if !ok {
					parseErr = errUnexpectedElementShape
					return false
				}
				ch, verr := validateChallenge(profileID, raw)
				if verr != nil {
					parseErr = verr
					return false
				}
				challenges = append(challenges, ch)
				fl.broadcast(Event{Type: EventChallengeChunk, ProfileID: profileID, Index: pe.Index, PartialChallenge: raw})
				fl.broadcast(Event{Type: EventChallenge, ProfileID: profileID, Index: pe.Index, Challenge: ch})
				if pe.Index < len(progressAt) {
					fl.broadcast(Event{Type: EventProgress, ProfileID: profileID, Percent: progressAt[pe.Index], Message: "parsed challenge"})
				}
			case jsonstream.EventComplete:
				if pe.Partial {
					parseErr = errTruncatedGeneration
					return false
				}
			case jsonstream.EventError:
				parseErr = pe.Err
				return false
			}
		}
		return true
	}

readLoop:
	for {
		select {
		case <-ctx.Done():
			fl.broadcast(Event{Type: EventCancelled, ProfileID: profileID})
			return
		case d, ok := <-deltas:
			if !ok {
				deltas = nil
				if errs == nil {
					break readLoop
				}
				continue
			}
			if !handle(parser.Feed(d.Text)) {
				break readLoop
			}
		case e, ok := <-errs:
			if !ok {
				errs = nil
				if deltas == nil {
					break readLoop
				}
				continue
			}
			if e != nil {
				fl.broadcast(errorEvent(profileID, e))
				return
			}
		}
	}

	if parseErr == nil {
		handle(parser.Finish())
	}

	if parseErr != nil {
		fl.broadcast(Event{Type: EventError, ProfileID: profileID, Kind: repository.KindParseFailure, Err: parseErr})
		return
	}
	if len(challenges) != 3 {
		fl.broadcast(Event{
			Type: EventError, ProfileID: profileID, Kind: repository.KindParseFailure,
			Err: errIncompleteBatch,
		})
		return
	}

	if err := g.persist(ctx, profileID, challenges); err != nil {
		fl.broadcast(errorEvent(profileID, err))
		return
	}

	fl.broadcast(Event{Type: EventProgress, ProfileID: profileID, Percent: 100, Message: "persisted"})
	fl.broadcast(Event{Type: EventComplete, ProfileID: profileID, Challenges: challenges})
}

// persist retires the profile's current active challenges and stores the
// new batch in one transaction, so a mid-batch repository failure leaves
// zero challenges persisted (spec §8 property 5).
func (g *Generator) persist(ctx context.Context, profileID uuid.UUID, challenges []repository.Challenge) error {
	return g.repo.RunInTransaction(ctx, func(tx repository.Repository) error {
		if err := tx.DeactivateActiveChallenges(ctx, profileID); err != nil {
			return err
		}
		for _, ch := range challenges {
			if err := tx.CreateChallenge(ctx, ch); err != nil {
				return err
			}
		}
		return nil
	})
}

func errorEvent(profileID uuid.UUID, err error) Event {
	kind, ok := repository.KindOf(err)
	if !ok {
		kind = repository.KindRepositoryFailure
	}
	return Event{Type: EventError, ProfileID: profileID, Kind: kind, Err: err}
}
