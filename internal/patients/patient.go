package patients

import (
	"time"

	"github.com/rehabtrack/rehabtrack/internal/sessions"
)

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Patient struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	CreatedAt time.Time   `json:"createdAt"`
	User      UserSummary `json:"user"`
}

type Detail struct {
	Patient
	Sessions []sessions.Session `json:"sessions"`
}
