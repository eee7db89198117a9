package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// dailySchedule runs winner processing at 00:01 every day
const dailySchedule = "1 0 * * *"

// StartScheduler starts the daily lifecycle job. Errors from a run are
// logged and swallowed; the timer path never crashes the process. The
// returned cron can be stopped by the caller on shutdown.
func StartScheduler(engine *LifecycleEngine) *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc(dailySchedule, func() {
		if err := engine.ReconcileAll(TriggerCron); err != nil {
			log.Printf("daily winner processing finished with errors: %v", err)
		}
	}); err != nil {
		log.Fatal("failed to schedule daily winner processing: ", err)
	}
	c.Start()
	log.Println("Daily winner processing scheduled at 00:01")
	return c
}
