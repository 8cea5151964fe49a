package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/meeting"
)

const (
	reminderInterval   = 1 * time.Minute
	completionInterval = 10 * time.Minute
)

type MeetingJobs struct {
	meetingService meeting.MeetingService
	logger         *slog.Logger
}

func NewMeetingJobs(meetingService meeting.MeetingService, logger *slog.Logger) *MeetingJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetingJobs{
		meetingService: meetingService,
		logger:         logger,
	}
}

func (j *MeetingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.Add(Job{Name: "meeting_reminders", Interval: reminderInterval, Timeout: 30 * time.Second, Fn: j.SendReminders})
	scheduler.Add(Job{Name: "complete_past_meetings", Interval: completionInterval, Timeout: time.Minute, Fn: j.CompletePastMeetings})
}

// SendReminders notifies attendees of meetings that are about to start.
func (j *MeetingJobs) SendReminders(ctx context.Context) error {
	sent, err := j.meetingService.SendReminders(ctx)
	if err != nil {
		return err
	}
	if sent > 0 {
		j.logger.Info("Cron: meeting reminders sent", "meetings", sent)
	}
	return nil
}

func (j *MeetingJobs) CompletePastMeetings(ctx context.Context) error {
	completed, err := j.meetingService.CompletePastMeetings(ctx)
	if err != nil {
		return err
	}
	if completed > 0 {
		j.logger.Info("Cron: past meetings completed", "meetings", completed)
	}
	return nil
}
