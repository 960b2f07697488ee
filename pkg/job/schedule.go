package job

import (
	"errors"
	"time"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// cronSchedule adapts a cron.Schedule to river.PeriodicSchedule.
type cronSchedule struct {
	cron.Schedule
}

func (s cronSchedule) Next(t time.Time) time.Time {
	return s.Schedule.Next(t)
}

// ParseSchedule parses a five-field cron expression or a descriptor such
// as "@daily".
func ParseSchedule(expr string) (river.PeriodicSchedule, error) {
	s, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return cronSchedule{Schedule: s}, nil
}
