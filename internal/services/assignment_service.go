package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"taskpulse/internal/models"
	"taskpulse/internal/repositories"
	"taskpulse/internal/utils"
)

const defaultTokenTTL = 72 * time.Hour

// AssignmentService owns the task-assignment response state machine:
// single-use confirmation tokens, idempotent accept/reject, and the
// resulting task status transitions and notifications.
type AssignmentService interface {
	// Assign creates a pending assignment with a fresh confirmation token
	// and notifies the assignee.
	Assign(ctx context.Context, taskID, userID int64) (*models.Assignment, error)
	// Accept applies pending -> accepted. The task moves todo ->
	// in_progress only; a task that already progressed further keeps its
	// status. A replay of an identical prior accept succeeds with no new
	// side effects.
	Accept(ctx context.Context, taskID int64, token string) (*models.Task, error)
	// Reject applies pending -> rejected and forces the task status to
	// rejected unconditionally. Requires a non-empty reason.
	Reject(ctx context.Context, taskID int64, token, reason string) (*models.Task, error)
}

type assignmentService struct {
	assignments repositories.AssignmentRepository
	tasks       repositories.TaskRepository
	users       repositories.UserRepository
	projects    repositories.ProjectRepository
	activity    repositories.ActivityRepository
	dispatcher  NotificationDispatcher
	baseURL     string
	tokenTTL    time.Duration
}

func NewAssignmentService(
	assignments repositories.AssignmentRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	activity repositories.ActivityRepository,
	dispatcher NotificationDispatcher,
	baseURL string,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		tasks:       tasks,
		users:       users,
		projects:    projects,
		activity:    activity,
		dispatcher:  dispatcher,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenTTL:    defaultTokenTTL,
	}
}

func (s *assignmentService) Assign(ctx context.Context, taskID, userID int64) (*models.Assignment, error) {
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

	token, err := utils.NewConfirmationToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation token: %w", err)
	}

	a := &models.Assignment{
		TaskID:            taskID,
		UserID:            userID,
		Status:            models.AssignmentPending,
		ConfirmationToken: token,
		TokenExpiresAt:    time.Now().Add(s.tokenTTL),
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.appendActivity(ctx, taskID, userID, "assigned", "")

	ev := Event{
		Task:      task,
		Kind:      EventAssignment,
		Urgency:   UrgencyLow,
		AcceptURL: fmt.Sprintf("%s/tasks/%d/accept?token=%s", s.baseURL, taskID, token),
		RejectURL: fmt.Sprintf("%s/tasks/%d/reject?token=%s", s.baseURL, taskID, token),
	}
	s.dispatcher.Dispatch(ctx, ev, user, models.Channels)

	return a, nil
}

func (s *assignmentService) Accept(ctx context.Context, taskID int64, token string) (*models.Task, error) {
	task, a, err := s.resolve(ctx, taskID, token)
	if err != nil {
		return nil, err
	}

	switch a.Status {
	case models.AssignmentAccepted:
		// identical replay: acknowledged as success, no new side effects
		log.Printf("[assign][accept] replay: assignment=%d already accepted", a.ID)
		return task, nil
	case models.AssignmentRejected:
		return nil, ErrAlreadyRejected
	}

	if time.Now().After(a.TokenExpiresAt) {
		return nil, ErrTokenExpired
	}

	ok, err := s.assignments.Respond(ctx, a.ID, models.AssignmentAccepted, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost a race against a concurrent response; re-read and decide
		return s.settleRace(ctx, task, a.ID, models.AssignmentAccepted)
	}

	// advance only from todo: acceptance must not regress a task that was
	// already moved further by manual edits
	if _, err := s.tasks.UpdateStatusIf(ctx, taskID, models.StatusTodo, models.StatusInProgress); err != nil {
		return nil, err
	}
	if task, err = s.tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}

	s.appendActivity(ctx, taskID, a.UserID, "accepted", "")
	s.notifyResponse(ctx, task, a, models.AssignmentAccepted, "")

	log.Printf("[assign][accept][ok] task=%d user=%d", taskID, a.UserID)
	return task, nil
}

func (s *assignmentService) Reject(ctx context.Context, taskID int64, token, reason string) (*models.Task, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	task, a, err := s.resolve(ctx, taskID, token)
	if err != nil {
		return nil, err
	}

	switch a.Status {
	case models.AssignmentRejected:
		log.Printf("[assign][reject] replay: assignment=%d already rejected", a.ID)
		return task, nil
	case models.AssignmentAccepted:
		return nil, ErrAlreadyAccepted
	}

	if time.Now().After(a.TokenExpiresAt) {
		return nil, ErrTokenExpired
	}

	ok, err := s.assignments.Respond(ctx, a.ID, models.AssignmentRejected, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.settleRace(ctx, task, a.ID, models.AssignmentRejected)
	}

	// rejection is an override signal: always force the status so it
	// stays visible no matter how far the task had moved
	if err := s.tasks.UpdateStatus(ctx, taskID, models.StatusRejected); err != nil {
		return nil, err
	}
	if task, err = s.tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}

	s.appendActivity(ctx, taskID, a.UserID, "rejected", reason)
	s.notifyResponse(ctx, task, a, models.AssignmentRejected, reason)

	log.Printf("[assign][reject][ok] task=%d user=%d", taskID, a.UserID)
	return task, nil
}

// resolve validates the token and loads the task + assignment pair.
func (s *assignmentService) resolve(ctx context.Context, taskID int64, token string) (*models.Task, *models.Assignment, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, ErrTokenRequired
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, ErrTaskNotFound
	}

	a, err := s.assignments.FindByToken(ctx, taskID, token)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, ErrAssignmentNotFound
	}
	return task, a, nil
}

// settleRace handles the conditional update losing to a concurrent
// response: a now-identical stored response is an idempotent success, a
// contradicting one is a conflict.
func (s *assignmentService) settleRace(ctx context.Context, task *models.Task, assignmentID int64, wanted models.AssignmentStatus) (*models.Task, error) {
	a, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a != nil && a.Status == wanted {
		return task, nil
	}
	if wanted == models.AssignmentAccepted {
		return nil, ErrAlreadyRejected
	}
	return nil, ErrAlreadyAccepted
}

func (s *assignmentService) appendActivity(ctx context.Context, taskID, userID int64, action, detail string) {
	err := s.activity.Append(ctx, &models.TaskActivity{
		TaskID: taskID,
		UserID: userID,
		Action: action,
		Detail: detail,
	})
	if err != nil {
		log.Printf("[assign][activity][err] task=%d action=%s: %v", taskID, action, err)
	}
}

// notifyResponse tells the project's manager (and, for rejections, every
// manager and admin) what the assignee decided. Best effort: the response
// is already persisted, so notification failure changes nothing.
func (s *assignmentService) notifyResponse(ctx context.Context, task *models.Task, a *models.Assignment, to models.AssignmentStatus, reason string) {
	actor, err := s.users.FindByID(ctx, a.UserID)
	if err != nil {
		log.Printf("[assign][notify][err] load actor %d: %v", a.UserID, err)
	}
	actorName := ""
	if actor != nil {
		actorName = actor.Name
	}

	newStatus := models.StatusInProgress
	urgency := UrgencyLow
	if to == models.AssignmentRejected {
		newStatus = models.StatusRejected
		urgency = UrgencyHigh
	}
	ev := Event{
		Task:      task,
		Kind:      EventStatusChange,
		Urgency:   urgency,
		ActorName: actorName,
		NewStatus: newStatus,
		Reason:    reason,
	}

	recipients := map[int64]*models.User{}

	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		log.Printf("[assign][notify][err] load project %d: %v", task.ProjectID, err)
	}
	if project != nil {
		manager, err := s.users.FindByID(ctx, project.ManagerID)
		if err != nil {
			log.Printf("[assign][notify][err] load manager %d: %v", project.ManagerID, err)
		}
		if manager != nil {
			recipients[manager.ID] = manager
		}
	}

	if to == models.AssignmentRejected {
		admins, err := s.users.ListManagersAndAdmins(ctx)
		if err != nil {
			log.Printf("[assign][notify][err] list managers/admins: %v", err)
		}
		for i := range admins {
			recipients[admins[i].ID] = &admins[i]
		}
	}

	// never notify the responder about their own response
	delete(recipients, a.UserID)

	for _, rcpt := range recipients {
		s.dispatcher.Dispatch(ctx, ev, rcpt, models.Channels)
	}
}
