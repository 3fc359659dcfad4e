package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskpulse/internal/models"
)

// In-memory repository fakes shared by the service tests. They mimic the
// conditional-update semantics of the SQL layer (Respond, UpdateStatusIf,
// InsertSweepMarker) so race and replay behavior can be exercised without
// a database.

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[int64]*models.Task
}

func newFakeTaskRepo(tasks ...*models.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: map[int64]*models.Task{}}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id int64, to models.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok {
		t.Status = to
	}
	return nil
}

func (r *fakeTaskRepo) UpdateStatusIf(_ context.Context, id int64, from, to models.TaskStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}

func (r *fakeTaskRepo) ListDueSoon(_ context.Context, before time.Time) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.DueDate == nil || t.Status.IsTerminal() {
			continue
		}
		if t.DueDate.Before(before) {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byID: map[int64]*models.Assignment{}}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *fakeAssignmentRepo) FindByID(_ context.Context, id int64) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) FindByToken(_ context.Context, taskID int64, token string) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.TaskID == taskID && a.ConfirmationToken == token {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAssignmentRepo) FindByTask(_ context.Context, taskID int64) ([]models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Assignment
	for _, a := range r.byID {
		if a.TaskID == taskID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Respond(_ context.Context, id int64, to models.AssignmentStatus, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.Status != models.AssignmentPending {
		return false, nil
	}
	now := time.Now()
	a.Status = to
	a.RejectReason = reason
	a.RespondedAt = &now
	return true, nil
}

type fakeReminderRepo struct {
	mu       sync.Mutex
	nextID   int64
	byID     map[int64]*models.Reminder
	markers  map[string]bool // task/day sweep dedup
	markerAt []time.Time     // stamp of each inserted marker, in order
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{byID: map[int64]*models.Reminder{}, markers: map[string]bool{}}
}

func markerKey(taskID int64, day time.Time) string {
	return fmt.Sprintf("%d/%s", taskID, day.Format("2006-01-02"))
}

func (r *fakeReminderRepo) Create(_ context.Context, rem *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rem.ID = r.nextID
	rem.CreatedAt = time.Now()
	cp := *rem
	r.byID[rem.ID] = &cp
	return nil
}

func (r *fakeReminderRepo) FindByID(_ context.Context, id int64) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *rem
	return &cp, nil
}

func (r *fakeReminderRepo) ListByTask(_ context.Context, taskID int64) ([]models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reminder
	for _, rem := range r.byID {
		if rem.TaskID == taskID {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) ListDue(_ context.Context, now time.Time) ([]models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reminder
	for _, rem := range r.byID {
		if rem.Source != models.ReminderSourceUser || !rem.IsActive || rem.SentAt != nil {
			continue
		}
		if !rem.RemindAt.After(now) {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) MarkSent(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rem, ok := r.byID[id]; ok && rem.SentAt == nil {
		t := at
		rem.SentAt = &t
	}
	return nil
}

func (r *fakeReminderRepo) Deactivate(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.byID[id]
	if !ok || !rem.IsActive || rem.SentAt != nil {
		return false, nil
	}
	rem.IsActive = false
	return true, nil
}

func (r *fakeReminderRepo) InsertSweepMarker(_ context.Context, taskID int64, day, at time.Time, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := markerKey(taskID, day)
	if r.markers[key] {
		return false, nil
	}
	r.markers[key] = true
	r.markerAt = append(r.markerAt, at)
	return true, nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[int64]*models.User
	assignees map[int64][]int64 // taskID -> userIDs
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*models.User{}, assignees: map[int64][]int64{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ListManagersAndAdmins(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.RoleManager || u.Role == models.RoleAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListAssignees(_ context.Context, taskID int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range r.assignees[taskID] {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeProjectRepo struct {
	projects map[int64]*models.Project
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id int64) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []models.TaskActivity
}

func (r *fakeActivityRepo) Append(_ context.Context, a *models.TaskActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = int64(len(r.entries) + 1)
	a.CreatedAt = time.Now()
	r.entries = append(r.entries, *a)
	return nil
}

func (r *fakeActivityRepo) ListByTask(_ context.Context, taskID int64) ([]models.TaskActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TaskActivity
	for _, a := range r.entries {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

// recordedDispatch is one Dispatch call as seen by fakeDispatcher.
type recordedDispatch struct {
	Event    Event
	UserID   int64
	Channels []models.Channel
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []recordedDispatch
}

func (d *fakeDispatcher) Dispatch(_ context.Context, ev Event, rcpt *models.User, channels []models.Channel) []ChannelResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, recordedDispatch{Event: ev, UserID: rcpt.ID, Channels: channels})
	out := make([]ChannelResult, len(channels))
	for i, ch := range channels {
		out[i].Channel = ch
	}
	return out
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *fakeDispatcher) recipients() map[int64]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := map[int64]bool{}
	for _, c := range d.calls {
		out[c.UserID] = true
	}
	return out
}

// fakeSender implements ChannelSender for dispatcher tests.
type fakeSender struct {
	channel models.Channel
	err     error

	mu    sync.Mutex
	sends int
}

func (s *fakeSender) Channel() models.Channel { return s.channel }

func (s *fakeSender) Send(_ context.Context, _ *models.User, _ int64, _ Content) error {
	s.mu.Lock()
	s.sends++
	s.mu.Unlock()
	return s.err
}

func (s *fakeSender) sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sends
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
