package orchestrator

import (
	"context"
	"strconv"
	"sync"

	"github.com/oceanic/riskscreen/internal/cache"
	"github.com/oceanic/riskscreen/internal/normalize"
	"github.com/oceanic/riskscreen/internal/riskerr"
)

// vesselBundle holds every upstream response a screening session needs for
// one vessel, gathered by the single bulk-prefetch pass (spec §4.B: "all
// five Intelligence-A calls, both Intelligence-B calls, and the watchlist
// lookup once, then downstream checks read from cache exclusively").
type vesselBundle struct {
	complianceA    map[string]interface{}
	riskScoreA     map[string]interface{}
	sanctionsA     map[string]interface{}
	advComplianceA map[string]interface{}
	voyageEventsA  map[string]interface{}
	riskB          map[string]interface{}
	complianceB    map[string]interface{}
	onWatchlist    bool
	watchlistErr   error
}

// prefetch runs the bulk-warm pass. A credential/permission failure from
// Intelligence-A (HTTP 403, surfaced as a riskerr.KindConfig error) is fatal
// to the whole screening call, per spec §4.A ("surfaced up"); any other
// adapter failure degrades that one field to empty/false, since every
// downstream check must still run with empty inputs rather than abort the
// operation (spec §3 invariant).
func (o *Orchestrator) prefetch(ctx context.Context, imo, dateWindow string) (vesselBundle, error) {
	var (
		b        vesselBundle
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if riskerr.Is(err, riskerr.KindConfig) && firstErr == nil {
			firstErr = err
		}
	}

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				setErr(err)
			}
		}()
	}

	run(func() error {
		v, err := o.cachedIntelA(ctx, "compliance", imo, dateWindow, func(ctx context.Context) (map[string]interface{}, error) {
			return o.intelA.ComplianceScreening(ctx, imo, dateWindow)
		})
		b.complianceA = v
		return err
	})
	run(func() error {
		v, err := o.cachedIntelA(ctx, "riskscore", imo, dateWindow, func(ctx context.Context) (map[string]interface{}, error) {
			return o.intelA.RiskScore(ctx, imo, dateWindow)
		})
		b.riskScoreA = v
		return err
	})
	run(func() error {
		v, err := o.cachedIntelA(ctx, "sanctions", imo, "", func(ctx context.Context) (map[string]interface{}, error) {
			return o.intelA.Sanctions(ctx, imo)
		})
		b.sanctionsA = v
		return err
	})
	run(func() error {
		v, err := o.cachedIntelA(ctx, "advcompliance", imo, "", func(ctx context.Context) (map[string]interface{}, error) {
			return o.intelA.AdvancedComplianceRisk(ctx, imo)
		})
		b.advComplianceA = v
		return err
	})
	run(func() error {
		v, err := o.cachedIntelA(ctx, "voyageevents", imo, dateWindow, func(ctx context.Context) (map[string]interface{}, error) {
			return o.intelA.VoyageEvents(ctx, imo, dateWindow)
		})
		b.voyageEventsA = v
		return err
	})

	run(func() error {
		imoInt, _ := strconv.Atoi(imo)
		var startDate, endDate string
		if w, err := normalize.ParseDateWindow(dateWindow); err == nil {
			startDate, endDate = w.Start.Format("2006-01-02"), w.End.Format("2006-01-02")
		}
		key := cache.Key("POST", "intelligenceb/vessel-risks", map[string]string{"startDate": startDate, "endDate": endDate}, []int{imoInt})
		raw, err := o.cache.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
			return o.breakerExec(ctx, o.breakers.IntelligenceB, func(ctx context.Context) (interface{}, error) {
				rows, err := o.intelB.VesselRisks(ctx, []int{imoInt}, startDate, endDate)
				if err != nil || len(rows) == 0 {
					return map[string]interface{}(nil), err
				}
				for _, row := range rows {
					if f, ok := getFloat(row, "imo"); ok && strconv.Itoa(int(f)) == imo {
						return row, nil
					}
				}
				return rows[0], nil
			})
		})
		if err != nil {
			return err
		}
		b.riskB, _ = raw.(map[string]interface{})
		return nil
	})
	run(func() error {
		imoInt, _ := strconv.Atoi(imo)
		key := cache.Key("GET", "intelligenceb/compliance-screening", map[string]string{"vessels": imo}, nil)
		raw, err := o.cache.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
			return o.breakerExec(ctx, o.breakers.IntelligenceB, func(ctx context.Context) (interface{}, error) {
				return o.intelB.ComplianceScreening(ctx, imoInt)
			})
		})
		if err != nil {
			return err
		}
		b.complianceB, _ = raw.(map[string]interface{})
		return nil
	})

	run(func() error {
		key := cache.Key("GET", "watchlist/contains", map[string]string{"imo": imo}, nil)
		raw, err := o.cache.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
			return o.breakerExec(ctx, o.breakers.Watchlist, func(ctx context.Context) (interface{}, error) {
				return o.watchlist.Contains(ctx, imo)
			})
		})
		if err != nil {
			// spec §7: an adapter failure degrades its dependent checks to
			// level=none with the error recorded in evidence, never a
			// fabricated hit.
			b.watchlistErr = err
			return nil
		}
		b.onWatchlist, _ = raw.(bool)
		return nil
	})

	wg.Wait()
	return b, firstErr
}

// cachedIntelA runs one Intelligence-A endpoint through the coalescing cache
// and the shared circuit breaker.
func (o *Orchestrator) cachedIntelA(ctx context.Context, endpoint, imo, dateWindow string, fn func(context.Context) (map[string]interface{}, error)) (map[string]interface{}, error) {
	key := cache.Key("GET", "intelligencea/"+endpoint, map[string]string{"imo": imo, "dateWindow": dateWindow}, nil)
	raw, err := o.cache.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return o.breakerExec(ctx, o.breakers.IntelligenceA, func(ctx context.Context) (interface{}, error) {
			return fn(ctx)
		})
	})
	if err != nil {
		return nil, err
	}
	m, _ := raw.(map[string]interface{})
	return m, nil
}

func (o *Orchestrator) breakerExec(ctx context.Context, cb interface {
	ExecuteContext(context.Context, func(context.Context) (interface{}, error)) (interface{}, error)
}, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	return cb.ExecuteContext(ctx, fn)
}
