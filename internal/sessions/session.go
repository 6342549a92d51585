package sessions

import (
	"time"
)

type Session struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	StartedAt    time.Time `json:"startedAt"`
	EndedAt      time.Time `json:"endedAt"`
	DurationSecs *int      `json:"durationSecs"`
	RomMaxDeg    *float64  `json:"romMaxDeg"`
	ExerciseID   *string   `json:"exerciseId"`
	PhaseLabel   *string   `json:"phaseLabel"`
	SessionType  *string   `json:"sessionType"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Projection is the minimal view of a session used by population-wide aggregations.
type Projection struct {
	StartedAt   time.Time
	ExerciseID  *string
	PhaseLabel  *string
	SessionType *string
	RomMaxDeg   *float64
}

type PatientUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SessionPatient struct {
	ID   string      `json:"id"`
	User PatientUser `json:"user"`
}

type WithPatient struct {
	Session
	Patient SessionPatient `json:"patient"`
}

// NewSessionRequest is the payload posted by the mobile app.
type NewSessionRequest struct {
	Date         *time.Time `json:"date"`
	DurationSecs *int       `json:"durationSecs"`
	RomMaxDeg    *float64   `json:"romMaxDeg"`
	Notes        *string    `json:"notes"`
	ExerciseID   *string    `json:"exerciseId"`
	PhaseLabel   *string    `json:"phaseLabel"`
	SessionType  *string    `json:"sessionType"`
}

type RomFilter struct {
	// empty means all patients
	PatientID  string
	ExerciseID string
}
