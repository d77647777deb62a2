package model

import "time"

// Organization owns requirements and users. OwnerUserID designates the reminder recipient.
type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID string    `json:"owner_user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}
