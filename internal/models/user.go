package models

// UserRole mirrors the roles the surrounding layer stores. Managers and
// admins receive rejection broadcasts.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
)

// NotificationPrefs are the per-user flags gating which channels are
// eligible for a dispatch. A disabled flag means "skip", never "fail".
type NotificationPrefs struct {
	Email    bool `json:"notify_email"`
	SMS      bool `json:"notify_sms"`
	WhatsApp bool `json:"notify_whatsapp"`
}

// User is the read-only recipient view this core consumes: contact data
// plus notification preferences. Account management lives elsewhere.
type User struct {
	ID    int64             `json:"id"`
	Name  string            `json:"name"`
	Email string            `json:"email"`
	Phone string            `json:"phone,omitempty"`
	Role  UserRole          `json:"role"`
	Prefs NotificationPrefs `json:"prefs"`
}
