package fetch

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StartScheduler runs refresh on the given cron schedule (standard 5-field
// expression) in a background goroutine. An empty schedule disables the
// scheduler. Returns an error only when the expression does not parse;
// failures of individual refresh runs are logged and the loop keeps going.
func StartScheduler(schedule string, refresh func() error) error {
	if schedule == "" {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return err
	}

	go func() {
		for {
			next := sched.Next(time.Now())
			log.Info().Time("next", next).Msg("Next scheduled refresh")
			time.Sleep(time.Until(next))
			if err := refresh(); err != nil {
				log.Error().Err(err).Msg("Scheduled refresh failed")
			} else {
				log.Info().Msg("Scheduled refresh completed")
			}
		}
	}()
	return nil
}
