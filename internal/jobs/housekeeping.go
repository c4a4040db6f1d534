package jobs

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bharatwheels/partner-backend/internal/storage"
)

// HousekeepingJob periodically clears lapsed OTP codes from user records.
type HousekeepingJob struct {
	store    storage.Store
	interval time.Duration
	stop     chan struct{}
}

// NewHousekeepingJob creates the job with the given sweep interval.
func NewHousekeepingJob(store storage.Store, interval time.Duration) *HousekeepingJob {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &HousekeepingJob{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (j *HousekeepingJob) Start() {
	go j.run()
	logrus.WithField("interval", j.interval).Info("housekeeping job started")
}

// Stop halts the sweep loop.
func (j *HousekeepingJob) Stop() {
	close(j.stop)
	logrus.Info("housekeeping job stopped")
}

func (j *HousekeepingJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stop:
			return
		}
	}
}

func (j *HousekeepingJob) sweep() {
	cleared, err := j.store.ClearExpiredOTPs()
	if err != nil {
		logrus.WithError(err).Error("failed to clear expired OTPs")
		return
	}
	if cleared > 0 {
		logrus.WithField("cleared", cleared).Debug("expired OTPs cleared")
	}
}
