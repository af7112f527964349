package scheduler

import (
	"context"

	"logintel-backend/config"
	"logintel-backend/internal/schema"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// NewScheduler runs the periodic schema/dictionary refresh. The provider
// starts on the embedded baseline, so an initial refresh is kicked off at
// startup instead of waiting for the first cron tick.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, schemas schema.Provider) *cron.Cron {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	schedule := cfg.Schema.RefreshSchedule
	_, err := c.AddFunc(schedule, func() {
		go func() {
			if err := schemas.Refresh(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error during scheduled schema refresh")
			}
		}()
	})

	if err != nil {
		log.Fatal().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled schema refresh job")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			go func() {
				if err := schemas.Refresh(context.Background()); err != nil {
					log.Warn().Err(err).Msg("Initial schema refresh failed, serving baseline schema")
				}
			}()
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c
}
