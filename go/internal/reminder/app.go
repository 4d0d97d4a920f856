package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/playgroundhq/playground-reminder/go/clients/solapi_client"
	"github.com/playgroundhq/playground-reminder/go/internal/models"
	"github.com/playgroundhq/playground-reminder/go/internal/reminder/events"
	"github.com/rs/zerolog/log"
)

// MatchPager streams candidate matches page by page.
type MatchPager interface {
	More() bool
	NextPage(ctx context.Context) ([]models.Match, error)
}

// MatchStore defines what the scheduler needs from the match store
type MatchStore interface {
	CandidateMatches() MatchPager
	MarkWindow(ctx context.Context, matchID string, label models.WindowLabel, at time.Time) error
}

// DispatchGateway defines what the scheduler needs from the outbound
// message gateway. An unconfigured gateway degrades the run to marks-only.
type DispatchGateway interface {
	IsConfigured() bool
	SendBatch(ctx context.Context, messages []solapi_client.Message) (*solapi_client.SendManyResponse, error)
}

// RunSummary is the per-invocation operational record.
type RunSummary struct {
	Scanned              int `json:"scanned"`
	WindowsEvaluated     int `json:"windows_evaluated"`
	Dispatched           int `json:"dispatched"`
	SkippedAlreadyMarked int `json:"skipped_already_marked"`
	SkippedNoContact     int `json:"skipped_no_contact"`
	Errors               int `json:"errors"`
}

// App drives one reminder invocation: enumerate candidate matches, resolve
// the active window per match, compute non-responders, dispatch, and write
// the window mark as the final step per match.
type App struct {
	matches  MatchStore
	resolver *Resolver
	policy   *Policy
	gateway  DispatchGateway
	events   events.Publisher

	clock      clockwork.Clock
	numWorkers int
	instanceID string
}

const defaultNumWorkers = 4

// NewApp creates a new reminder App. The events publisher may be nil, which
// disables event publishing without affecting the run.
func NewApp(matchStore MatchStore, resolver *Resolver, policy *Policy, gateway DispatchGateway, publisher events.Publisher) *App {
	return &App{
		matches:    matchStore,
		resolver:   resolver,
		policy:     policy,
		gateway:    gateway,
		events:     publisher,
		clock:      clockwork.NewRealClock(),
		numWorkers: defaultNumWorkers,
		instanceID: uuid.New().String()[:8],
	}
}

// RunOnce performs a single reminder invocation. It returns an error only
// for systemic failures (candidate enumeration); per-match failures are
// caught, logged and counted, and never abort the rest of the batch.
func (a *App) RunOnce(ctx context.Context) (RunSummary, error) {
	now := a.clock.Now()

	if !a.gateway.IsConfigured() {
		log.Info().
			Str("instance", a.instanceID).
			Msg("dispatch gateway not configured - running in marks-only mode")
	}

	candidates, err := a.collectCandidates(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	state := &runState{}
	a.processAll(ctx, now, candidates, state)

	summary := state.snapshot()
	summary.Scanned = len(candidates)

	log.Info().
		Str("instance", a.instanceID).
		Int("scanned", summary.Scanned).
		Int("windows_evaluated", summary.WindowsEvaluated).
		Int("dispatched", summary.Dispatched).
		Int("skipped_already_marked", summary.SkippedAlreadyMarked).
		Int("skipped_no_contact", summary.SkippedNoContact).
		Int("errors", summary.Errors).
		Msg("reminder run complete")

	return summary, nil
}

// collectCandidates drains the match store's pager into memory. The
// candidate set is bounded by "matches in the next couple of days", not by
// total history, so accumulating before fan-out is acceptable. A failure
// here is fatal for the invocation; the next scheduled run retries from
// scratch.
func (a *App) collectCandidates(ctx context.Context) ([]models.Match, error) {
	pager := a.matches.CandidateMatches()

	var candidates []models.Match
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate candidate matches: %w", err)
		}
		candidates = append(candidates, page...)
	}
	return candidates, nil
}

// processAll fans the candidate list out over a bounded worker pool. Each
// match id is handed to exactly one worker, so no two workers ever target
// the same match within one invocation.
func (a *App) processAll(ctx context.Context, now time.Time, candidates []models.Match, state *runState) {
	if len(candidates) == 0 {
		return
	}

	numWorkers := a.numWorkers
	if numWorkers > len(candidates) {
		numWorkers = len(candidates)
	}

	workCh := make(chan models.Match)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go a.worker(ctx, &wg, workCh, now, state)
	}

	seen := make(map[string]bool, len(candidates))
	for _, match := range candidates {
		if seen[match.ID] {
			continue
		}
		seen[match.ID] = true
		workCh <- match
	}
	close(workCh)
	wg.Wait()
}

// worker processes matches from the work channel until it is closed.
func (a *App) worker(ctx context.Context, wg *sync.WaitGroup, workCh <-chan models.Match, now time.Time, state *runState) {
	defer wg.Done()

	for match := range workCh {
		if err := a.safeProcessMatch(ctx, now, match, state); err != nil {
			state.addError()
			log.Error().
				Err(err).
				Str("match_id", match.ID).
				Str("instance", a.instanceID).
				Msg("match processing failed - continuing with remaining matches")
		}
	}
}

// safeProcessMatch shields the batch from a single match blowing up.
func (a *App) safeProcessMatch(ctx context.Context, now time.Time, match models.Match, state *runState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing match %s: %v", match.ID, r)
		}
	}()
	return a.processMatch(ctx, now, match, state)
}

// processMatch applies the per-match transition rule. The window mark is
// always the final write, and it is written regardless of dispatch outcome:
// a dropped notification is lower-severity than re-spamming the stores on
// every hourly run.
func (a *App) processMatch(ctx context.Context, now time.Time, match models.Match, state *runState) error {
	hoursUntil := HoursUntil(now, match.ScheduledAt)

	win, ok := a.policy.Resolve(hoursUntil)
	if !ok {
		return nil
	}
	state.addWindowEvaluated()

	if match.WindowMarked(win.Label) {
		state.addSkippedAlreadyMarked()
		return nil
	}

	pending, err := a.resolver.NonResponders(ctx, match.HomeTeamID, match.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve non-responders: %w", err)
	}

	if len(pending) == 0 {
		// Everyone already answered. The mark is still written so the window
		// reads as processed, not as missed.
		if err := a.matches.MarkWindow(ctx, match.ID, win.Label, a.clock.Now()); err != nil {
			return fmt.Errorf("failed to mark window %s: %w", win.Label, err)
		}
		log.Info().
			Str("match_id", match.ID).
			Str("window", string(win.Label)).
			Msg("all members responded - window marked without dispatch")
		a.publishProcessed(ctx, match, win, nil, nil, false)
		return nil
	}

	reachable, noContact := splitByContact(pending)
	if len(noContact) > 0 {
		state.addSkippedNoContact(len(noContact))
		log.Warn().
			Str("match_id", match.ID).
			Str("window", string(win.Label)).
			Strs("user_ids", userIDs(noContact)).
			Msg("members without contact address cannot be reminded")
	}

	dispatched := false
	if a.gateway.IsConfigured() && len(reachable) > 0 {
		messages := buildDispatchMessages(match, win, reachable)
		if _, err := a.gateway.SendBatch(ctx, messages); err != nil {
			// Best-effort side channel: a gateway failure counts as attempted
			// and must not block the mark.
			log.Error().
				Err(err).
				Str("match_id", match.ID).
				Str("window", string(win.Label)).
				Int("recipients", len(messages)).
				Msg("dispatch gateway call failed - marking window anyway")
		} else {
			dispatched = true
			state.addDispatched(len(messages))
			log.Info().
				Str("match_id", match.ID).
				Str("window", string(win.Label)).
				Str("venue", match.Venue).
				Int("pending", len(pending)).
				Int("recipients", len(messages)).
				Msg("reminder batch dispatched")
		}
	}

	if err := a.matches.MarkWindow(ctx, match.ID, win.Label, a.clock.Now()); err != nil {
		return fmt.Errorf("failed to mark window %s: %w", win.Label, err)
	}

	a.publishProcessed(ctx, match, win, userIDs(reachable), userIDs(noContact), dispatched)
	return nil
}

// publishProcessed emits the ReminderProcessed event. Publishing is best
// effort; failures are logged and never affect the run.
func (a *App) publishProcessed(ctx context.Context, match models.Match, win Window, recipients, noContact []string, dispatched bool) {
	if a.events == nil {
		return
	}

	payload := events.ReminderProcessedPayload{
		MatchID:          match.ID,
		TeamID:           match.HomeTeamID,
		Window:           string(win.Label),
		Venue:            match.Venue,
		ScheduledAt:      match.ScheduledAt,
		Recipients:       recipients,
		NoContactUserIDs: noContact,
		Dispatched:       dispatched,
		ProcessedAt:      a.clock.Now(),
	}
	if err := a.events.PublishReminderProcessed(ctx, payload); err != nil {
		log.Warn().
			Err(err).
			Str("match_id", match.ID).
			Str("window", string(win.Label)).
			Msg("failed to publish ReminderProcessed event")
	}
}

// splitByContact separates members with a dispatchable address from the
// rest, preserving order.
func splitByContact(members []models.TeamMember) (reachable, noContact []models.TeamMember) {
	for _, m := range members {
		if m.HasContact() {
			reachable = append(reachable, m)
		} else {
			noContact = append(noContact, m)
		}
	}
	return reachable, noContact
}

func userIDs(members []models.TeamMember) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids
}

// runState aggregates counters across workers.
type runState struct {
	mu      sync.Mutex
	summary RunSummary
}

func (s *runState) addWindowEvaluated() {
	s.mu.Lock()
	s.summary.WindowsEvaluated++
	s.mu.Unlock()
}

func (s *runState) addSkippedAlreadyMarked() {
	s.mu.Lock()
	s.summary.SkippedAlreadyMarked++
	s.mu.Unlock()
}

func (s *runState) addSkippedNoContact(n int) {
	s.mu.Lock()
	s.summary.SkippedNoContact += n
	s.mu.Unlock()
}

func (s *runState) addDispatched(n int) {
	s.mu.Lock()
	s.summary.Dispatched += n
	s.mu.Unlock()
}

func (s *runState) addError() {
	s.mu.Lock()
	s.summary.Errors++
	s.mu.Unlock()
}

func (s *runState) snapshot() RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}
