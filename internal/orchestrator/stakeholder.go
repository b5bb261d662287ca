package orchestrator

import (
	"context"

	"github.com/oceanic/riskscreen/internal/adapters/sanctions"
	"github.com/oceanic/riskscreen/internal/cache"
	"github.com/oceanic/riskscreen/internal/checks"
	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/normalize"
)

// evaluateStakeholder runs the DowJones sanctions lookup for one entity
// name and derives both stakeholder checks from it: stakeholder_sanctions
// from the lookup's sanctions level directly, and stakeholder_watchlist
// from the same lookup's is_state_owned flag — there is no separate
// stakeholder-level watchlist table in original_source/ (UANI is
// vessel-only), so a state-owned hit stands in for "on the hard block
// list" for entities, per DESIGN.md.
func (o *Orchestrator) evaluateStakeholder(ctx context.Context, name string) ([]models.CheckResult, error) {
	key := cache.Key("GET", "sanctions/lookup", map[string]string{"name": normalize.Name(name)}, nil)
	raw, err := o.cache.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return o.breakerExec(ctx, o.breakers.Sanctions, func(ctx context.Context) (interface{}, error) {
			return o.sanctions.Lookup(ctx, name)
		})
	})

	var res sanctions.Result
	if err != nil {
		// spec §7: an adapter failure degrades its dependent checks to
		// level=none with the error recorded in evidence, never a
		// fabricated hit.
		res = sanctions.Result{}
	} else {
		res, _ = raw.(sanctions.Result)
	}

	level := models.ParseRiskLevel(res.SanctionsLevel)
	flags := map[string]interface{}{
		"is_sanctioned":         res.IsSanctioned,
		"is_state_owned":        res.IsStateOwned,
		"is_ool":                res.IsOOL,
		"is_one_year":           res.IsOneYear,
		"is_sanctioned_country": res.IsSanctionedCountry,
	}
	if err != nil {
		flags["error"] = err.Error()
	}
	sanctionsResult := checks.StakeholderSanctions(name, level, res.SanctionsList, res.MidSanctionsList, res.NoSanctionsList, flags)
	watchlistResult := checks.StakeholderWatchlist(name, res.IsStateOwned)
	if err != nil {
		watchlistResult.Evidence["error"] = err.Error()
	}

	return []models.CheckResult{sanctionsResult, watchlistResult}, nil
}
