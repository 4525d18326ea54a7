// Command pitchmark runs the scoring pipeline over a small sample
// report and prints the resulting metrics. It exists to exercise the
// library end to end; real deployments embed the service behind their
// own transport.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pitchmark/pitchmark/internal/adapters/repository"
	app "github.com/pitchmark/pitchmark/internal/app"
	"github.com/pitchmark/pitchmark/internal/config"
	"github.com/pitchmark/pitchmark/internal/domain/model"
	"github.com/pitchmark/pitchmark/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithCatalog(sampleCatalog()),
		app.WithWorkerCount(cfg.ResolveWorkers),
		app.WithCacheSize(cfg.CacheSize),
		app.WithZoneTable(cfg.ZoneMultipliers),
		app.WithDefensiveCategories(cfg.DefensiveSet()),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	svc.PutMapping(ctx, model.ActionTypeMapping{
		ActionType:  "Slide Tackle",
		Category:    model.CategoryDefensive,
		Subcategory: "Tackling",
	})

	reportID := svc.NewReport(ctx)
	for _, a := range sampleActions() {
		if err := svc.AddAction(ctx, reportID, a); err != nil {
			log.Error(ctx, "failed to record action", logger.Error(err))
			return
		}
	}

	metrics, outcomes, err := svc.ScoreReport(ctx, reportID, 72, map[model.StatKey]float64{
		"distance_km":  10.8,
		"sprints":      21,
		"passes_total": 48,
	})
	if err != nil {
		log.Error(ctx, "failed to score report", logger.Error(err))
		return
	}

	for _, o := range outcomes {
		if o.Err != nil {
			log.Warn(ctx, "action flagged",
				logger.Int("actionNumber", o.Adjusted.ActionNumber),
				logger.Error(o.Err),
			)
			continue
		}
		log.Info(ctx, "action resolved",
			logger.Int("actionNumber", o.Adjusted.ActionNumber),
			logger.String("actionType", o.Adjusted.ActionType),
			logger.String("category", string(o.Adjusted.ResolvedCategory)),
			logger.String("subcategory", o.Adjusted.ResolvedSubcategory),
			logger.Float64("effectiveScore", o.Adjusted.EffectiveScore().Or(0)),
		)
	}

	log.Info(ctx, "report scored",
		logger.String("reportID", reportID),
		logger.Int("actions", metrics.ActionCount),
		logger.Float64("totalRawScore", metrics.TotalRawScore),
		logger.Float64("totalAdjustedScore", metrics.TotalAdjustedScore),
		logger.Float64("r90Score", metrics.R90Score.Or(0)),
		logger.Bool("r90Present", metrics.R90Score.Valid()),
		logger.Float64("chainTotal", metrics.ChainTotal.Or(0)),
		logger.Bool("chainPresent", metrics.ChainTotal.Valid()),
	)
	for key, line := range metrics.PerMinute {
		log.Info(ctx, "stat projected",
			logger.String("stat", string(key)),
			logger.Float64("raw", line.Raw.Or(0)),
			logger.Float64("per90", line.Per90.Or(0)),
		)
	}
}

// sampleCatalog seeds a handful of rating entries across the taxonomy.
func sampleCatalog() *repository.MemoryCatalog {
	return repository.NewMemoryCatalog(repository.WithEntries(
		model.RatingEntry{
			ID:          "def-tackle-won",
			Title:       "Tackle won cleanly",
			Category:    model.CategoryDefensive,
			Subcategory: "Tackling",
			BaseScore:   model.NumericBaseScore(0.10),
		},
		model.RatingEntry{
			ID:        "press-regain",
			Title:     "Regain within five seconds",
			Category:  model.CategoryPressing,
			BaseScore: model.NumericBaseScore(0.08),
		},
		model.RatingEntry{
			ID:        "cross-completed",
			Title:     "Completed cross into the area",
			Category:  model.CategoryAttackingCrosses,
			BaseScore: model.NumericBaseScore(0.06),
		},
		model.RatingEntry{
			ID:        "onball-line-break",
			Title:     "Line-breaking pass",
			Category:  model.CategoryOnBallDecisions,
			BaseScore: model.NumericBaseScore(0.07),
		},
	))
}

// sampleActions builds the demo report's action sequence.
func sampleActions() []model.PerformanceAction {
	mk := func(minute, raw float64, zone int, successful bool, actionType, description string) model.PerformanceAction {
		a := model.NewPerformanceAction(actionType, description)
		a.Minute = minute
		a.RawScore = model.NewScore(raw)
		if zone > 0 {
			a.Zone = model.NewZone(zone)
		}
		a.IsSuccessful = successful
		return a
	}

	return []model.PerformanceAction{
		mk(4.15, 0.10, 5, true, "Slide Tackle", "won the ball in the half space"),
		mk(11.30, 0.08, 8, true, "high press", "forced a rushed clearance"),
		mk(23.05, -0.04, 14, false, "cross", "overhit delivery out of play"),
		mk(38.50, 0.07, 11, true, "line-breaking pass", "found the striker between lines"),
		mk(61.20, 0.05, 0, true, "defensive header", "cleared the corner"),
	}
}
