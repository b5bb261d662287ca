package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oceanic/riskscreen/internal/aggregator"
	"github.com/oceanic/riskscreen/internal/cache"
	"github.com/oceanic/riskscreen/internal/circuitbreaker"
	"github.com/oceanic/riskscreen/internal/composite"
	"github.com/oceanic/riskscreen/internal/events"
	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/normalize"
	"github.com/oceanic/riskscreen/internal/registry"
	"github.com/oceanic/riskscreen/internal/riskerr"
)

var imoPattern = regexp.MustCompile(`^[0-9]{7}$`)

// ScreeningRequest is the orchestrator's input for one screening call,
// already decoded and validated by the HTTP layer (spec's Non-goal:
// "request/response schema validation... stays external").
type ScreeningRequest struct {
	ID             string // operation UUID; generated if empty (first screening of a new operation)
	BusinessNumber string
	Vertical       string
	VesselIMO      string
	VesselName     string
	DateWindow     string // "YYYY-MM-DD-YYYY-MM-DD"; defaulted if empty
	PortCountry    string
	CargoOrigin    string
	Stakeholders   map[string][]string // role -> names, in request order
	Operator       string
}

// Orchestrator drives a screening session end to end (spec §4.F).
type Orchestrator struct {
	registry  *registry.Registry
	cache     *cache.Cache
	breakers  *circuitbreaker.AdapterCircuitBreakers
	intelA    IntelligenceAClient
	intelB    IntelligenceBClient
	watchlist WatchlistClient
	sanctions SanctionsClient
	store     VerdictStore
	bus       events.EventEmitter
}

// New wires an Orchestrator from its dependencies. cache and breakers are
// shared across the process so the coalescing and trip-state they
// implement actually dedupes and protects call volume across sessions.
func New(
	reg *registry.Registry,
	c *cache.Cache,
	breakers *circuitbreaker.AdapterCircuitBreakers,
	intelA IntelligenceAClient,
	intelB IntelligenceBClient,
	watchlist WatchlistClient,
	sanctions SanctionsClient,
	st VerdictStore,
	bus events.EventEmitter,
) *Orchestrator {
	return &Orchestrator{
		registry: reg, cache: c, breakers: breakers,
		intelA: intelA, intelB: intelB, watchlist: watchlist, sanctions: sanctions,
		store: st, bus: bus,
	}
}

// Screen runs one full screening session: resolve → prefetch → evaluate →
// assemble → persist (spec §4.F steps 1-6).
func (o *Orchestrator) Screen(ctx context.Context, req ScreeningRequest) (models.OperationVerdict, error) {
	if !imoPattern.MatchString(req.VesselIMO) {
		return models.OperationVerdict{}, fmt.Errorf("orchestrator: vessel IMO %q is not 7 digits", req.VesselIMO)
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	dateWindow := req.DateWindow
	if dateWindow == "" {
		now := time.Now().UTC()
		dateWindow = normalize.DateWindow{Start: now.AddDate(0, 0, -365), End: now}.String()
	}

	descriptors, err := o.registry.Resolve(req.Vertical)
	if err != nil {
		return models.OperationVerdict{}, err
	}

	bundle, err := o.prefetch(ctx, req.VesselIMO, dateWindow)
	if err != nil {
		return models.OperationVerdict{}, err
	}

	allResults := evaluateVessel(req.VesselIMO, req.PortCountry, req.CargoOrigin, bundle)

	vesselChecks := make([]models.CheckResult, 0, len(descriptors))
	for _, d := range descriptors {
		if r, ok := allResults[d.ID]; ok {
			vesselChecks = append(vesselChecks, r)
		}
	}
	vesselChecks = append(vesselChecks, composite.Evaluate("vessel_composite", req.VesselIMO, "", vesselChecks))

	previous, err := o.store.LatestVerdict(ctx, id)
	hasPrevious := err == nil
	if err != nil && !riskerr.Is(err, riskerr.KindLookupMiss) {
		return models.OperationVerdict{}, err
	}

	screenedAt := time.Now().UTC()
	byRole, err := o.evaluateStakeholders(ctx, req.Vertical, req.Stakeholders, screenedAt, previous, hasPrevious)
	if err != nil {
		return models.OperationVerdict{}, err
	}

	verdict := aggregator.Operation(id, req.BusinessNumber, req.Vertical, req.VesselIMO, req.VesselName,
		req.Operator, vesselChecks, byRole, screenedAt, registry.DomainSubsets(req.Vertical))

	if err := o.store.AppendVerdict(ctx, verdict); err != nil {
		return models.OperationVerdict{}, err
	}

	if o.bus != nil {
		o.bus.Emit(events.EventVerdictComputed, "riskscreen/orchestrator", verdict.ID, map[string]interface{}{
			"operation_id": verdict.ID,
			"overall":      verdict.Overall.String(),
			"vertical":     verdict.Vertical,
		})
	}

	return verdict, nil
}

// evaluateStakeholders runs the stakeholder checks for every role the
// vertical defines, in request order, with per-role parallelism for list
// roles (spec §4.F step 4). For each result it locates the matching entry
// in the previous verdict (if any) to compute changed_at (step 5).
func (o *Orchestrator) evaluateStakeholders(
	ctx context.Context,
	vertical string,
	requested map[string][]string,
	screenedAt time.Time,
	previous models.OperationVerdict,
	hasPrevious bool,
) (map[string][]models.StakeholderVerdict, error) {
	byRole := make(map[string][]models.StakeholderVerdict)

	for _, role := range registry.StakeholderRoles(vertical) {
		names := requested[role]
		results := make([]models.StakeholderVerdict, len(names))

		var wg sync.WaitGroup
		errs := make([]error, len(names))
		for i, name := range names {
			wg.Add(1)
			go func(i int, name string) {
				defer wg.Done()
				checkResults, err := o.evaluateStakeholder(ctx, name)
				if err != nil {
					errs[i] = err
					return
				}
				composed := composite.Evaluate("stakeholder_composite", "", name, checkResults)
				level := composed.Level

				prevLevel := models.RiskNone
				prevChangedAt := time.Time{}
				if hasPrevious {
					if entry, ok := findStakeholder(previous, role, name); ok {
						prevLevel = entry.Level
						prevChangedAt = entry.ChangedAt
					}
				}
				changedAt := prevChangedAt
				if level != prevLevel {
					changedAt = screenedAt
				}

				entity := models.Entity{Kind: "stakeholder", Role: role, Name: name}
				allResults := append(checkResults, composed)
				results[i] = aggregator.Stakeholder(entity, allResults, screenedAt, changedAt, "")
			}(i, name)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		byRole[role] = results
	}

	return byRole, nil
}

// findStakeholder locates the entry for (role, name) in a previous verdict,
// matching names case/whitespace-insensitively per spec §3.
func findStakeholder(v models.OperationVerdict, role, name string) (models.StakeholderVerdict, bool) {
	for _, entry := range v.StakeholdersByRole[role] {
		if normalize.EqualFold(entry.Entity.Name, name) {
			return entry, true
		}
	}
	return models.StakeholderVerdict{}, false
}
