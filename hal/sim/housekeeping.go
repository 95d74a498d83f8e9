package sim

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartHousekeeping runs each task every interval in the background until
// the returned scheduler is shut down.
func StartHousekeeping(interval time.Duration, tasks ...func()) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("housekeeping: %w", err)
	}
	for _, task := range tasks {
		_, err := scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(task),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return nil, fmt.Errorf("housekeeping: %w", err)
		}
	}
	scheduler.Start()
	return scheduler, nil
}
