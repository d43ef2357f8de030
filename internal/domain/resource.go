package domain

import "time"

type SupportResource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Category    string    `json:"category"`
	IsEmergency bool      `json:"is_emergency"`
	CreatedAt   time.Time `json:"created_at"`
}
