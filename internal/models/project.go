package models

// Project is the read-only view used to route manager notifications.
type Project struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ManagerID int64  `json:"manager_id"`
}
