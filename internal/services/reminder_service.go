package services

import (
	"context"
	"log"
	"time"

	"taskpulse/internal/models"
	"taskpulse/internal/repositories"
)

// dueClass buckets a due date relative to the current day.
type dueClass string

const (
	dueNone     dueClass = "none"
	dueTomorrow dueClass = "due_tomorrow"
	dueToday    dueClass = "due_today"
	dueOverdue  dueClass = "overdue"
)

func classifyDue(due, now time.Time) dueClass {
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	switch days := int(day(due.In(now.Location())).Sub(day(now)).Hours() / 24); {
	case days < 0:
		return dueOverdue
	case days == 0:
		return dueToday
	case days == 1:
		return dueTomorrow
	}
	return dueNone
}

func urgencyFor(c dueClass) Urgency {
	switch c {
	case dueOverdue:
		return UrgencyCritical
	case dueToday:
		return UrgencyHigh
	case dueTomorrow:
		return UrgencyMedium
	}
	return UrgencyLow
}

// ReminderService schedules explicit reminders, cancels them, and runs
// the two recurring passes: the explicit-reminder drain and the due-date
// sweep.
type ReminderService interface {
	Schedule(ctx context.Context, taskID, userID int64, at time.Time, channel models.Channel, message string) (*models.Reminder, error)
	Cancel(ctx context.Context, id int64) error
	ListByTask(ctx context.Context, taskID int64) ([]models.Reminder, error)

	// RunExplicit drains every owed user-scheduled reminder, oldest first.
	// Returns the number of reminders processed.
	RunExplicit(ctx context.Context) (int, error)
	// RunDueSweep classifies tasks against their due dates and notifies
	// assignees, at most once per task per calendar day. Returns the
	// number of tasks that fired.
	RunDueSweep(ctx context.Context) (int, error)
}

type reminderService struct {
	reminders  repositories.ReminderRepository
	tasks      repositories.TaskRepository
	users      repositories.UserRepository
	dispatcher NotificationDispatcher
	now        func() time.Time
}

func NewReminderService(
	reminders repositories.ReminderRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	dispatcher NotificationDispatcher,
) ReminderService {
	return &reminderService{
		reminders:  reminders,
		tasks:      tasks,
		users:      users,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (s *reminderService) Schedule(ctx context.Context, taskID, userID int64, at time.Time, channel models.Channel, message string) (*models.Reminder, error) {
	if !models.IsValidChannel(channel) {
		return nil, ErrUnsupportedChannel
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	rem := &models.Reminder{
		TaskID:   taskID,
		UserID:   userID,
		RemindAt: at,
		Channel:  channel,
		Message:  message,
		Source:   models.ReminderSourceUser,
		IsActive: true,
	}
	if err := s.reminders.Create(ctx, rem); err != nil {
		return nil, err
	}
	log.Printf("[reminder][schedule][ok] id=%d task=%d user=%d channel=%s at=%s",
		rem.ID, taskID, userID, channel, at.Format(time.RFC3339))
	return rem, nil
}

func (s *reminderService) Cancel(ctx context.Context, id int64) error {
	ok, err := s.reminders.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReminderNotFound
	}
	log.Printf("[reminder][cancel][ok] id=%d", id)
	return nil
}

func (s *reminderService) ListByTask(ctx context.Context, taskID int64) ([]models.Reminder, error) {
	return s.reminders.ListByTask(ctx, taskID)
}

func (s *reminderService) RunExplicit(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.reminders.ListDue(ctx, now)
	if err != nil {
		return 0, err
	}

	for i := range due {
		// one bad reminder must not abort the drain
		s.processExplicit(ctx, &due[i], now)
	}
	return len(due), nil
}

func (s *reminderService) processExplicit(ctx context.Context, rem *models.Reminder, now time.Time) {
	task, err := s.tasks.FindByID(ctx, rem.TaskID)
	if err != nil {
		log.Printf("[reminder][tick][err] id=%d load task %d: %v", rem.ID, rem.TaskID, err)
		return // task unknown this tick; retry next tick
	}
	user, err := s.users.FindByID(ctx, rem.UserID)
	if err != nil {
		log.Printf("[reminder][tick][err] id=%d load user %d: %v", rem.ID, rem.UserID, err)
		return
	}

	if task != nil && user != nil {
		urgency := UrgencyLow
		if task.DueDate != nil {
			urgency = urgencyFor(classifyDue(*task.DueDate, now))
		}
		ev := Event{
			Task:    task,
			Kind:    EventReminder,
			Urgency: urgency,
			Message: rem.Message,
		}
		s.dispatcher.Dispatch(ctx, ev, user, []models.Channel{rem.Channel})
	} else {
		log.Printf("[reminder][tick][skip] id=%d task or user gone", rem.ID)
	}

	// a reminder fires once: mark sent even when every channel failed.
	// Failures stay visible in the delivery log, the row is not re-tried
	if err := s.reminders.MarkSent(ctx, rem.ID, now); err != nil {
		log.Printf("[reminder][tick][err] mark sent id=%d: %v", rem.ID, err)
	}
}

func (s *reminderService) RunDueSweep(ctx context.Context) (int, error) {
	now := s.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	// everything due before the day after tomorrow is in scope
	tasks, err := s.tasks.ListDueSoon(ctx, today.AddDate(0, 0, 2))
	if err != nil {
		return 0, err
	}

	fired := 0
	for i := range tasks {
		if s.sweepTask(ctx, &tasks[i], today, now) {
			fired++
		}
	}
	return fired, nil
}

func (s *reminderService) sweepTask(ctx context.Context, task *models.Task, today, now time.Time) bool {
	if task.DueDate == nil {
		return false
	}
	class := classifyDue(*task.DueDate, now)
	if class == dueNone {
		return false
	}

	// single atomic insert against the (task_id, day) unique index: two
	// overlapping sweeps cannot both claim the same day
	inserted, err := s.reminders.InsertSweepMarker(ctx, task.ID, today, now, string(class))
	if err != nil {
		log.Printf("[sweep][err] task=%d marker: %v", task.ID, err)
		return false
	}
	if !inserted {
		return false // already fired today
	}

	assignees, err := s.users.ListAssignees(ctx, task.ID)
	if err != nil {
		log.Printf("[sweep][err] task=%d assignees: %v", task.ID, err)
		return true // marker claimed; counts as fired
	}

	ev := Event{
		Task:    task,
		Kind:    EventReminder,
		Urgency: urgencyFor(class),
	}
	for i := range assignees {
		s.dispatcher.Dispatch(ctx, ev, &assignees[i], models.Channels)
	}
	log.Printf("[sweep][ok] task=%d class=%s assignees=%d", task.ID, class, len(assignees))
	return true
}
