package services

import (
	"fmt"
	"html"
	"strings"

	"taskpulse/internal/models"
)

// EventKind identifies the logical notification being dispatched.
type EventKind string

const (
	EventAssignment   EventKind = "assignment_notice"
	EventStatusChange EventKind = "status_change_notice"
	EventReminder     EventKind = "reminder_notice"
)

// Urgency is a fixed presentation vocabulary (wording only, never control
// flow): overdue -> critical, due today -> high, due tomorrow -> medium.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Event is the input to the formatter and the dispatcher: one logical
// notification about one task.
type Event struct {
	Task    *models.Task
	Kind    EventKind
	Urgency Urgency

	ActorName string            // who responded / assigned
	NewStatus models.TaskStatus // status change notices
	Reason    string            // rejection reason, verbatim
	Message   string            // user-supplied reminder text, overrides the generated one
	AcceptURL string            // assignment notices only
	RejectURL string
}

// Content is channel-ready message content. Email uses all three fields;
// SMS and WhatsApp carry Text only.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

// maxShortLen bounds SMS/WhatsApp message length.
const maxShortLen = 320

// Format renders one event for one channel. Pure and deterministic; an
// unknown kind or channel is a contract violation and returns
// ErrUnsupportedFormat.
func Format(ev Event, channel models.Channel) (Content, error) {
	if ev.Task == nil {
		return Content{}, fmt.Errorf("%w: event without task", ErrUnsupportedFormat)
	}

	switch channel {
	case models.ChannelEmail:
		return formatEmail(ev)
	case models.ChannelSMS, models.ChannelWhatsApp:
		text, err := formatShort(ev)
		if err != nil {
			return Content{}, err
		}
		return Content{Text: text}, nil
	}
	return Content{}, fmt.Errorf("%w: channel %q", ErrUnsupportedFormat, channel)
}

func formatEmail(ev Event) (Content, error) {
	t := ev.Task
	title := html.EscapeString(t.Title)

	switch ev.Kind {
	case EventAssignment:
		subject := fmt.Sprintf("New task assigned: %s", t.Title)
		var b strings.Builder
		fmt.Fprintf(&b, "<h2>You have been assigned a task</h2>")
		fmt.Fprintf(&b, "<p><strong>%s</strong></p>", title)
		if t.Description != "" {
			fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(t.Description))
		}
		fmt.Fprintf(&b, "<p>Priority: %s%s</p>", t.Priority, dueHTML(t))
		if ev.AcceptURL != "" && ev.RejectURL != "" {
			fmt.Fprintf(&b, `<p><a href="%s">Accept</a> &nbsp;|&nbsp; <a href="%s">Decline</a></p>`,
				ev.AcceptURL, ev.RejectURL)
		}
		return Content{Subject: subject, HTML: b.String(), Text: plainAssignment(ev)}, nil

	case EventStatusChange:
		verb := statusVerb(ev.NewStatus)
		subject := fmt.Sprintf("Task %s: %s", verb, t.Title)
		var b strings.Builder
		fmt.Fprintf(&b, "<h3>Task %s</h3>", verb)
		fmt.Fprintf(&b, "<p><strong>%s</strong></p>", title)
		if ev.ActorName != "" {
			fmt.Fprintf(&b, "<p>By: %s</p>", html.EscapeString(ev.ActorName))
		}
		if ev.Reason != "" {
			fmt.Fprintf(&b, "<p>Reason: %s</p>", html.EscapeString(ev.Reason))
		}
		fmt.Fprintf(&b, "<p>Current status: %s</p>", t.Status)
		return Content{Subject: subject, HTML: b.String(), Text: plainStatusChange(ev)}, nil

	case EventReminder:
		subject := fmt.Sprintf("%s%s", urgencyPrefix(ev.Urgency), t.Title)
		var b strings.Builder
		fmt.Fprintf(&b, "<h3>%s</h3>", reminderHeading(ev.Urgency))
		fmt.Fprintf(&b, "<p><strong>%s</strong>%s</p>", title, dueHTML(t))
		if ev.Message != "" {
			fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(ev.Message))
		}
		return Content{Subject: subject, HTML: b.String(), Text: plainReminder(ev)}, nil
	}
	return Content{}, fmt.Errorf("%w: kind %q", ErrUnsupportedFormat, ev.Kind)
}

func formatShort(ev Event) (string, error) {
	var text string
	switch ev.Kind {
	case EventAssignment:
		text = plainAssignment(ev)
	case EventStatusChange:
		text = plainStatusChange(ev)
	case EventReminder:
		text = plainReminder(ev)
	default:
		return "", fmt.Errorf("%w: kind %q", ErrUnsupportedFormat, ev.Kind)
	}
	return truncate(text, maxShortLen), nil
}

func plainAssignment(ev Event) string {
	t := ev.Task
	s := fmt.Sprintf("New task: %s (priority %s%s)", t.Title, t.Priority, dueText(t))
	if ev.AcceptURL != "" {
		s += " Accept: " + ev.AcceptURL
	}
	return s
}

func plainStatusChange(ev Event) string {
	t := ev.Task
	s := fmt.Sprintf("Task %s: %s", statusVerb(ev.NewStatus), t.Title)
	if ev.ActorName != "" {
		s += " by " + ev.ActorName
	}
	if ev.Reason != "" {
		s += ". Reason: " + ev.Reason
	}
	return s
}

func plainReminder(ev Event) string {
	t := ev.Task
	s := fmt.Sprintf("%s%s%s", urgencyPrefix(ev.Urgency), t.Title, dueText(t))
	if ev.Message != "" {
		s += ". " + ev.Message
	}
	return s
}

// urgencyPrefix maps the urgency vocabulary to wording. Unknown values
// degrade to a plain reminder prefix rather than failing.
func urgencyPrefix(u Urgency) string {
	switch u {
	case UrgencyCritical:
		return "Overdue: "
	case UrgencyHigh:
		return "Due today: "
	case UrgencyMedium:
		return "Due tomorrow: "
	}
	return "Reminder: "
}

func reminderHeading(u Urgency) string {
	switch u {
	case UrgencyCritical:
		return "Task overdue"
	case UrgencyHigh:
		return "Task due today"
	case UrgencyMedium:
		return "Task due tomorrow"
	}
	return "Task reminder"
}

func statusVerb(s models.TaskStatus) string {
	switch s {
	case models.StatusInProgress:
		return "accepted"
	case models.StatusRejected:
		return "rejected"
	}
	if s == "" {
		return "updated"
	}
	return string(s)
}

func dueText(t *models.Task) string {
	if t.DueDate == nil {
		return ""
	}
	return ", due " + t.DueDate.Format("2006-01-02")
}

func dueHTML(t *models.Task) string {
	if t.DueDate == nil {
		return ""
	}
	return fmt.Sprintf(", due <code>%s</code>", t.DueDate.Format("2006-01-02"))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
