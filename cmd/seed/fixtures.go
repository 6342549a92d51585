package main

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/rehabtrack/rehabtrack/internal/auth"
	"github.com/rehabtrack/rehabtrack/internal/sessions"
	"github.com/rehabtrack/rehabtrack/pkg"
)

var (
	seedExercises    = []string{"knee-flexion", "knee-extension", "shoulder-abduction", "hip-flexion", ""}
	seedPhases       = []string{"Fase 1", "Fase 2", "Fase 3", ""}
	seedSessionTypes = []string{"home", "clinic", ""}
)

type fakeUser struct {
	user     auth.User
	password string
}

func newFakeUser(faker *gofakeit.Faker, role auth.Role) (*fakeUser, error) {
	password, err := pkg.GenerateRandomString(12)
	if err != nil {
		return nil, err
	}
	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &fakeUser{
		user: auth.User{
			Email:        faker.Email(),
			PasswordHash: passwordHash,
			Name:         faker.Name(),
			Role:         role,
		},
		password: password,
	}, nil
}

// newFakeSession fakes a session started within the given window before now.
// Empty picks become NULL columns, so analyses see missing labels too.
func newFakeSession(faker *gofakeit.Faker, patientID string, now time.Time, window time.Duration) sessions.Session {
	startedAt := faker.DateRange(now.Add(-window), now).UTC()
	durationSecs := faker.Number(60, 1800)

	var rom *float64
	if faker.Number(1, 10) > 1 {
		v := faker.Float64Range(15, 150)
		rom = &v
	}

	return sessions.Session{
		PatientID:    patientID,
		StartedAt:    startedAt,
		EndedAt:      startedAt.Add(time.Duration(durationSecs) * time.Second),
		DurationSecs: &durationSecs,
		RomMaxDeg:    rom,
		ExerciseID:   pkg.StrOrNil(faker.RandomString(seedExercises)),
		PhaseLabel:   pkg.StrOrNil(faker.RandomString(seedPhases)),
		SessionType:  pkg.StrOrNil(faker.RandomString(seedSessionTypes)),
		Notes:        pkg.StrOrNil(faker.Sentence(6)),
	}
}
