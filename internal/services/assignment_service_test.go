package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskpulse/internal/models"
)

type assignmentFixture struct {
	svc         AssignmentService
	tasks       *fakeTaskRepo
	assignments *fakeAssignmentRepo
	users       *fakeUserRepo
	activity    *fakeActivityRepo
	dispatcher  *fakeDispatcher
}

// IDs used throughout: task 7 in project 1, assignee 5, manager 2, admin 3.
func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()
	tasks := newFakeTaskRepo(sampleTask())
	users := newFakeUserRepo(
		allOnUser(),
		&models.User{ID: 2, Name: "Mira", Email: "mira@example.com", Role: models.RoleManager,
			Prefs: models.NotificationPrefs{Email: true}},
		&models.User{ID: 3, Name: "Ops", Email: "ops@example.com", Role: models.RoleAdmin,
			Prefs: models.NotificationPrefs{Email: true}},
	)
	assignments := newFakeAssignmentRepo()
	activity := &fakeActivityRepo{}
	dispatcher := &fakeDispatcher{}
	projects := &fakeProjectRepo{projects: map[int64]*models.Project{
		1: {ID: 1, Title: "Q1", ManagerID: 2},
	}}

	svc := NewAssignmentService(assignments, tasks, users, projects, activity, dispatcher, "http://app.local/")
	return &assignmentFixture{
		svc: svc, tasks: tasks, assignments: assignments,
		users: users, activity: activity, dispatcher: dispatcher,
	}
}

func (f *assignmentFixture) assign(t *testing.T) *models.Assignment {
	t.Helper()
	a, err := f.svc.Assign(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	return a
}

func TestAssignCreatesTokenAndNotifies(t *testing.T) {
	f := newAssignmentFixture(t)

	a := f.assign(t)

	if a.Status != models.AssignmentPending {
		t.Errorf("status = %s, want pending", a.Status)
	}
	if len(a.ConfirmationToken) != 64 { // 32 bytes hex encoded
		t.Errorf("token length = %d, want 64", len(a.ConfirmationToken))
	}
	if !a.TokenExpiresAt.After(time.Now()) {
		t.Errorf("token already expired: %s", a.TokenExpiresAt)
	}
	if f.dispatcher.count() != 1 {
		t.Fatalf("dispatch count = %d, want 1", f.dispatcher.count())
	}
	call := f.dispatcher.calls[0]
	if call.UserID != 5 || call.Event.Kind != EventAssignment {
		t.Errorf("dispatched %+v, want assignment notice to user 5", call)
	}
	wantURL := "http://app.local/tasks/7/accept?token=" + a.ConfirmationToken
	if call.Event.AcceptURL != wantURL {
		t.Errorf("accept url = %q, want %q", call.Event.AcceptURL, wantURL)
	}
}

func TestAssignUnknownTaskOrUser(t *testing.T) {
	f := newAssignmentFixture(t)

	if _, err := f.svc.Assign(context.Background(), 999, 5); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("unknown task: err = %v", err)
	}
	if _, err := f.svc.Assign(context.Background(), 7, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestAcceptMovesTaskToInProgress(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	task, err := f.svc.Accept(context.Background(), 7, a.ConfirmationToken)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("task status = %s, want in_progress", task.Status)
	}

	stored, _ := f.assignments.FindByID(context.Background(), a.ID)
	if stored.Status != models.AssignmentAccepted {
		t.Errorf("assignment status = %s, want accepted", stored.Status)
	}
	if stored.RespondedAt == nil {
		t.Error("responded_at not set")
	}

	acts, _ := f.activity.ListByTask(context.Background(), 7)
	if len(acts) != 2 || acts[1].Action != "accepted" {
		t.Errorf("activity = %+v, want [assigned accepted]", acts)
	}

	// assignee got the assignment notice, manager got the response notice
	if got := f.dispatcher.recipients(); !got[2] {
		t.Errorf("manager not notified, recipients = %v", got)
	}
	if got := f.dispatcher.recipients(); got[5] && f.dispatcher.count() > 2 {
		t.Errorf("responder notified about own response")
	}
}

func TestAcceptReplayIsIdempotent(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	if _, err := f.svc.Accept(context.Background(), 7, a.ConfirmationToken); err != nil {
		t.Fatalf("first Accept: %v", err)
	}
	activityBefore := len(f.activity.entries)
	dispatchBefore := f.dispatcher.count()

	task, err := f.svc.Accept(context.Background(), 7, a.ConfirmationToken)
	if err != nil {
		t.Fatalf("replayed Accept: %v", err)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("replay returned status %s", task.Status)
	}
	if len(f.activity.entries) != activityBefore {
		t.Errorf("replay appended activity: %d -> %d", activityBefore, len(f.activity.entries))
	}
	if f.dispatcher.count() != dispatchBefore {
		t.Errorf("replay dispatched again: %d -> %d", dispatchBefore, f.dispatcher.count())
	}
}

func TestAcceptDoesNotRegressAdvancedTask(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	// task moved forward by manual edits before the assignee responded
	f.tasks.UpdateStatus(context.Background(), 7, models.StatusInReview)

	task, err := f.svc.Accept(context.Background(), 7, a.ConfirmationToken)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if task.Status != models.StatusInReview {
		t.Errorf("task status = %s, want in_review kept", task.Status)
	}
	stored, _ := f.assignments.FindByID(context.Background(), a.ID)
	if stored.Status != models.AssignmentAccepted {
		t.Errorf("assignment still %s", stored.Status)
	}
}

func TestAcceptAfterRejectConflicts(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	if _, err := f.svc.Reject(context.Background(), 7, a.ConfirmationToken, "busy"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	_, err := f.svc.Accept(context.Background(), 7, a.ConfirmationToken)
	if !errors.Is(err, ErrAlreadyRejected) {
		t.Errorf("err = %v, want ErrAlreadyRejected", err)
	}
}

func TestRejectForcesTaskStatus(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	// even an already-progressed task flips to rejected
	f.tasks.UpdateStatus(context.Background(), 7, models.StatusInReview)

	task, err := f.svc.Reject(context.Background(), 7, a.ConfirmationToken, "wrong assignee")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if task.Status != models.StatusRejected {
		t.Errorf("task status = %s, want rejected", task.Status)
	}

	stored, _ := f.assignments.FindByID(context.Background(), a.ID)
	if stored.RejectReason != "wrong assignee" {
		t.Errorf("reason = %q", stored.RejectReason)
	}

	acts, _ := f.activity.ListByTask(context.Background(), 7)
	last := acts[len(acts)-1]
	if last.Action != "rejected" || last.Detail != "wrong assignee" {
		t.Errorf("last activity = %+v", last)
	}

	// rejection broadcasts to manager and admins, never to the responder
	got := f.dispatcher.recipients()
	if !got[2] || !got[3] {
		t.Errorf("manager/admin missing from recipients %v", got)
	}
	for _, call := range f.dispatcher.calls {
		if call.Event.Kind == EventStatusChange && call.UserID == 5 {
			t.Error("responder received own rejection notice")
		}
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	for _, reason := range []string{"", "   "} {
		if _, err := f.svc.Reject(context.Background(), 7, a.ConfirmationToken, reason); !errors.Is(err, ErrReasonRequired) {
			t.Errorf("reason %q: err = %v, want ErrReasonRequired", reason, err)
		}
	}
	stored, _ := f.assignments.FindByID(context.Background(), a.ID)
	if stored.Status != models.AssignmentPending {
		t.Errorf("failed reject changed status to %s", stored.Status)
	}
}

func TestRejectAfterAcceptConflicts(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	if _, err := f.svc.Accept(context.Background(), 7, a.ConfirmationToken); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	_, err := f.svc.Reject(context.Background(), 7, a.ConfirmationToken, "changed my mind")
	if !errors.Is(err, ErrAlreadyAccepted) {
		t.Errorf("err = %v, want ErrAlreadyAccepted", err)
	}

	task, _ := f.tasks.FindByID(context.Background(), 7)
	if task.Status != models.StatusInProgress {
		t.Errorf("conflicting reject changed task status to %s", task.Status)
	}
}

func TestRespondTokenValidation(t *testing.T) {
	f := newAssignmentFixture(t)
	f.assign(t)

	if _, err := f.svc.Accept(context.Background(), 7, ""); !errors.Is(err, ErrTokenRequired) {
		t.Errorf("empty token: err = %v", err)
	}
	if _, err := f.svc.Accept(context.Background(), 7, "deadbeef"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("bogus token: err = %v", err)
	}
	if _, err := f.svc.Accept(context.Background(), 999, "deadbeef"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("unknown task: err = %v", err)
	}
}

func TestAcceptExpiredToken(t *testing.T) {
	f := newAssignmentFixture(t)
	a := f.assign(t)

	// age the stored token past its TTL
	f.assignments.mu.Lock()
	f.assignments.byID[a.ID].TokenExpiresAt = time.Now().Add(-time.Minute)
	f.assignments.mu.Unlock()

	if _, err := f.svc.Accept(context.Background(), 7, a.ConfirmationToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
	task, _ := f.tasks.FindByID(context.Background(), 7)
	if task.Status != models.StatusTodo {
		t.Errorf("expired accept moved the task to %s", task.Status)
	}
}

func TestReassignIssuesFreshToken(t *testing.T) {
	f := newAssignmentFixture(t)
	first := f.assign(t)
	second := f.assign(t)

	if first.ConfirmationToken == second.ConfirmationToken {
		t.Error("re-assignment reused the confirmation token")
	}
	if strings.TrimSpace(second.ConfirmationToken) == "" {
		t.Error("second assignment has no token")
	}
}
