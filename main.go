package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"poimap-scraper/browser"
	"poimap-scraper/config"
	"poimap-scraper/logger"
	"poimap-scraper/models"
	"poimap-scraper/scraper/maps"
	"poimap-scraper/services"
	"poimap-scraper/storage"
	"poimap-scraper/utils"
)

func main() {
	harvest := flag.Bool("harvest", false, "run the Maps harvest job")
	clean := flag.Bool("clean", false, "run the dataset cleaning job")
	flag.Parse()

	log := logger.Init()
	cfg := config.Load()

	if !*harvest && !*clean {
		log.Error().Msg("no job selected; use -harvest and/or -clean")
		os.Exit(1)
	}

	if *harvest {
		if err := runHarvest(cfg, log); err != nil {
			log.Error().Err(err).Msg("harvest job failed")
			os.Exit(1)
		}
	}

	if *clean {
		if err := runClean(cfg, log); err != nil {
			log.Error().Err(err).Msg("clean job failed")
			os.Exit(1)
		}
	}
}

func runHarvest(cfg *config.Config, log zerolog.Logger) error {
	plan, err := config.LoadPlan(cfg.PlanPath)
	if err != nil {
		return err
	}

	store, err := storage.NewCheckpointStore(cfg.TempDir, logger.For(log, "checkpoint"))
	if err != nil {
		return err
	}

	// read-once snapshot; concurrently completed units from another
	// process would not be recognized
	done, err := store.CompletedUnits()
	if err != nil {
		return err
	}

	units := plan.Units()
	remaining := make([]models.Unit, 0, len(units))
	for _, u := range units {
		if _, ok := done[u]; ok {
			continue
		}
		remaining = append(remaining, u)
	}

	log.Info().
		Int("total", len(units)).
		Int("already_done", len(units)-len(remaining)).
		Int("remaining", len(remaining)).
		Msg("work list computed")

	resolver := maps.NewResolver(maps.FallbackSearch(cfg, logger.For(log, "geo")), logger.For(log, "geo"))
	pacer := utils.NewPacer(
		time.Duration(cfg.DelayMinMs)*time.Millisecond,
		time.Duration(cfg.DelayMaxMs)*time.Millisecond,
	)

	failed := 0
	for i, unit := range remaining {
		ulog := log.With().Str("locality", unit.Locality).Str("category", unit.Category).Logger()
		ulog.Info().Msgf("unit %d/%d", i+1, len(remaining))

		places, err := harvestUnit(cfg, ulog, unit, resolver, pacer)
		if err != nil {
			if errors.Is(err, browser.ErrStart) {
				return fmt.Errorf("unit %s/%s: %w", unit.Locality, unit.Category, err)
			}
			// unit stays uncommitted; the next full run redoes it
			failed++
			ulog.Error().Err(err).Msg("unit failed")
			continue
		}

		if err := store.Commit(unit, places); err != nil {
			failed++
			ulog.Error().Err(err).Msg("commit failed")
			continue
		}
		ulog.Info().Int("places", len(places)).Msg("unit committed")
	}

	if failed > 0 {
		log.Warn().Int("units_failed", failed).Msg("leaving checkpoints in place; re-run to finish the remaining units")
		return nil
	}

	merged, err := store.MergeAll(cfg.RawCSVPath)
	if err != nil {
		return fmt.Errorf("merge checkpoints: %w", err)
	}
	log.Info().Int("places", len(merged)).Str("path", cfg.RawCSVPath).Msg("harvest complete")
	return nil
}

func harvestUnit(cfg *config.Config, ulog zerolog.Logger, unit models.Unit, resolver *maps.Resolver, pacer *utils.Pacer) ([]*models.Place, error) {
	agent, err := browser.Open(cfg.Headless)
	if err != nil {
		return nil, err
	}
	defer agent.Close()

	if err := agent.Navigate(cfg.MapsURL); err != nil {
		return nil, err
	}

	harvester := maps.NewHarvester(agent, cfg, logger.For(ulog, "harvest"))
	if err := harvester.Search(unit.Keyword()); err != nil {
		return nil, err
	}

	state, err := harvester.RevealAll()
	if err != nil {
		return nil, err
	}
	if state == maps.TimedOut {
		ulog.Warn().Msg("reveal timed out; collecting the partial list")
	}

	places, err := harvester.Collect()
	if err != nil {
		return nil, err
	}

	enricher := maps.NewEnricher(agent, pacer, logger.For(ulog, "detail"), cfg.WaitTimeout())
	enricher.Enrich(places)

	resolved, unresolved := resolver.Resolve(places)
	ulog.Info().Int("resolved", resolved).Int("unresolved", unresolved).Msg("coordinates assigned")

	return places, nil
}

func runClean(cfg *config.Config, log zerolog.Logger) error {
	raw, err := storage.ReadPlaces(cfg.RawCSVPath)
	if err != nil {
		return err
	}

	cleaner := services.NewCleaner(logger.For(log, "cleaner"))
	clean := cleaner.Clean(raw)

	if err := storage.WriteCleanPlaces(cfg.CleanCSVPath, clean); err != nil {
		return err
	}
	log.Info().Int("rows", len(clean)).Str("path", cfg.CleanCSVPath).Msg("cleaned dataset written")

	if cfg.PostgresEnabled {
		sink, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			return err
		}
		if err := storeClean(sink, clean); err != nil {
			return err
		}
		log.Info().Msg("cleaned dataset stored in postgres (table: places)")
	}

	return nil
}

func storeClean(sink storage.CleanPlaceWriter, clean []*models.CleanPlace) error {
	defer sink.Close()
	return sink.Write(clean)
}
