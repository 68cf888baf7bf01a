// Package match implements the request-matching engine (spec 4.C): given
// an incoming request and a registry snapshot, select the best-matching
// interaction under a three-phase gather/score/choose discipline.
package match

import (
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
	"github.com/pact-foundation/pact-stub-server/internal/registry"
)

// Config holds the matcher's per-run configuration, set once from CLI
// flags at startup (spec 6) and passed to every Handle call.
type Config struct {
	AutoCORS                bool
	CORSRefererOrigin       bool
	ProviderStateRegex      *regexp.Regexp
	EmptyProviderStates     bool
	ProviderStateHeaderName string
}

// OutcomeKind discriminates what the engine decided for one request.
type OutcomeKind int

const (
	NoMatch OutcomeKind = iota
	Matched
	CORSReply
)

// Outcome is the matcher's verdict for one request: either a concrete
// response to serve, or a "no match" signal the runtime turns into 404.
type Outcome struct {
	Kind     OutcomeKind
	Response pact.Response
}

// Engine runs the matching algorithm against a fixed configuration.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// New builds an Engine.
func New(cfg Config, logger *zap.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

type candidate struct {
	entryIndex       int
	interactionIndex int
	interaction      pact.Interaction
	mismatches       []Mismatch
}

// Handle runs the full three-phase algorithm (spec 4.C) against one
// incoming request and a registry snapshot.
func (e *Engine) Handle(req pact.Request, snap *registry.Snapshot) Outcome {
	stateRegex := e.cfg.ProviderStateRegex
	if override := req.Headers.Get(e.cfg.ProviderStateHeaderName); override != "" {
		stateRegex = resolveProviderStateRegex(e.cfg.ProviderStateRegex, e.cfg.ProviderStateHeaderName, override, e.logger)
	}

	candidates := e.gather(req, snap, stateRegex)
	survivors := e.score(req, candidates)
	chosen, multipleSurvived := choose(survivors)

	if multipleSurvived {
		e.logger.Warn("more than one pact interaction matched, using the one with the fewest mismatches (earliest by load order on a tie)",
			zap.String("method", req.Method), zap.String("path", req.Path))
	}

	if chosen != nil {
		return Outcome{Kind: Matched, Response: render(chosen.interaction.Response, chosen.interaction.Generators)}
	}

	if eligibleForCORS(req, e.cfg.AutoCORS) {
		return Outcome{Kind: CORSReply, Response: corsFallback(req, e.cfg.CORSRefererOrigin)}
	}

	return Outcome{Kind: NoMatch}
}

// gather is Phase 1: flatten the snapshot's HTTP-synchronous
// interactions, keep only those whose method and path accept the
// request, then apply the provider-state filter.
func (e *Engine) gather(req pact.Request, snap *registry.Snapshot, stateRegex *regexp.Regexp) []candidate {
	var candidates []candidate
	for ei, entry := range snap.Entries {
		for ii, interaction := range entry.Pact.Interactions {
			if !interaction.IsHTTPSync() {
				continue
			}
			if !methodMatches(interaction.Request.Method, req.Method, interaction.MatchingRules) {
				continue
			}
			if !pathMatches(interaction.Request.Path, req.Path, interaction.MatchingRules) {
				continue
			}
			if !providerStateAllows(stateRegex, e.cfg.EmptyProviderStates, interaction) {
				continue
			}
			candidates = append(candidates, candidate{entryIndex: ei, interactionIndex: ii, interaction: interaction})
		}
	}
	return candidates
}

// score is Phase 2: run the full per-category matcher and discard
// candidates with a disqualifying mismatch.
func (e *Engine) score(req pact.Request, candidates []candidate) []candidate {
	bodySensitive := methodSupportsPayload(req.Method) && req.Body.IsPresent()

	survivors := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		var mismatches []Mismatch
		mismatches = append(mismatches, queryMismatches(c.interaction.Request.Query, req.Query, c.interaction.MatchingRules)...)
		mismatches = append(mismatches, headerMismatches(c.interaction.Request.Headers, req.Headers, c.interaction.MatchingRules)...)
		mismatches = append(mismatches, bodyMismatches(c.interaction.Request.Body, req.Body, c.interaction.MatchingRules)...)

		disqualified := false
		for _, m := range mismatches {
			if m.disqualifies(bodySensitive) {
				disqualified = true
				break
			}
		}
		if disqualified {
			continue
		}
		c.mismatches = mismatches
		survivors = append(survivors, c)
	}
	return survivors
}

// choose is Phase 3: sort by mismatch count ascending, stable so ties
// keep their Phase-1 aggregation order (pact load order, then
// interaction order within a pact), and take the first.
func choose(survivors []candidate) (*candidate, bool) {
	if len(survivors) == 0 {
		return nil, false
	}
	sort.SliceStable(survivors, func(i, j int) bool {
		return len(survivors[i].mismatches) < len(survivors[j].mismatches)
	})
	chosen := survivors[0]
	return &chosen, len(survivors) > 1
}
