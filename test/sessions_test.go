//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rehabtrack/rehabtrack/internal/analysis"
	"github.com/rehabtrack/rehabtrack/internal/auth"
	"github.com/rehabtrack/rehabtrack/internal/patients"
	"github.com/rehabtrack/rehabtrack/internal/sessions"
)

type createdSession struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *sessions.Session `json:"data"`
}

func ptr[T any](v T) *T {
	return &v
}

func (s *IntegrationTestSuite) createSession(ctx context.Context, token string, req sessions.NewSessionRequest) *sessions.Session {
	t := s.T()

	status, respBytes := doRequest(ctx, t, http.MethodPost, "/sessions", token, req)
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	var resp createdSession
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	return resp.Data
}

func (s *IntegrationTestSuite) TestSessionsAndAnalyses() {
	ctx := context.Background()
	t := s.T()

	patient := registerUser(ctx, t, auth.RolePatient)
	clinician := registerUser(ctx, t, auth.RoleClinician)

	day1 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	first := s.createSession(ctx, patient.AccessToken, sessions.NewSessionRequest{
		Date:         &day1,
		DurationSecs: ptr(600),
		RomMaxDeg:    ptr(60.0),
		ExerciseID:   ptr("knee-flexion"),
		PhaseLabel:   ptr("Fase 1"),
		SessionType:  ptr("home"),
	})
	s.createSession(ctx, patient.AccessToken, sessions.NewSessionRequest{
		Date:         &day2,
		DurationSecs: ptr(900),
		RomMaxDeg:    ptr(80.0),
		ExerciseID:   ptr("knee-flexion"),
	})
	assert.Equal(t, day1, first.StartedAt.UTC())
	assert.Equal(t, day1.Add(10*time.Minute), first.EndedAt.UTC())

	// a clinician has no patient record to record sessions against
	status, _ := doRequest(ctx, t, http.MethodPost, "/sessions", clinician.AccessToken, sessions.NewSessionRequest{})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(ctx, t, http.MethodPost, "/sessions", patient.AccessToken, sessions.NewSessionRequest{
		DurationSecs: ptr(-1),
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, respBytes := doRequest(ctx, t, http.MethodGet, "/sessions/"+first.ID, clinician.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var gotSession sessions.Session
	require.NoError(t, json.Unmarshal(respBytes, &gotSession))
	assert.Equal(t, first.ID, gotSession.ID)

	status, _ = doRequest(ctx, t, http.MethodGet, "/sessions/missing-session", clinician.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// patient detail
	status, respBytes = doRequest(ctx, t, http.MethodGet, "/patients/"+first.PatientID, clinician.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var detail patients.Detail
	require.NoError(t, json.Unmarshal(respBytes, &detail))
	assert.Equal(t, patient.User.Sub, detail.UserID)
	assert.Equal(t, patient.User.Email, detail.User.Email)
	assert.Len(t, detail.Sessions, 2)

	// patient analysis
	status, respBytes = doRequest(ctx, t, http.MethodGet, "/analysis/patient/"+first.PatientID, clinician.AccessToken, nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))
	var pa struct {
		TotalSessions        int                          `json:"totalSessions"`
		AvgRom               *float64                     `json:"avgRom"`
		RomByExercise        map[string]analysis.RomStats `json:"romByExercise"`
		RomTrend             []analysis.RomTrendPoint     `json:"romTrend"`
		SessionDurationStats *analysis.DurationStats      `json:"sessionDurationStats"`
		SessionsByPhase      map[string]int               `json:"sessionsByPhase"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &pa))
	assert.Equal(t, 2, pa.TotalSessions)
	require.NotNil(t, pa.AvgRom)
	assert.InDelta(t, 70.0, *pa.AvgRom, 0.0001)
	assert.Equal(t, analysis.RomStats{Avg: 70, Min: 60, Max: 80, Count: 2}, pa.RomByExercise["knee-flexion"])
	require.Len(t, pa.RomTrend, 2)
	assert.Equal(t, "2024-03-04", pa.RomTrend[0].Date)
	assert.Equal(t, "2024-03-05", pa.RomTrend[1].Date)
	require.NotNil(t, pa.SessionDurationStats)
	assert.Equal(t, 1500, pa.SessionDurationStats.Total)
	assert.Equal(t, map[string]int{"Fase 1": 1, "Sin fase": 1}, pa.SessionsByPhase)

	status, _ = doRequest(ctx, t, http.MethodGet, "/analysis/patient/missing-patient", clinician.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// session analysis
	status, respBytes = doRequest(ctx, t, http.MethodGet, "/analysis/session/"+first.ID, clinician.AccessToken, nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))
	var sa analysis.SessionAnalysis
	require.NoError(t, json.Unmarshal(respBytes, &sa))
	assert.Equal(t, first.ID, sa.SessionID)
	assert.Equal(t, "knee-flexion", sa.ExerciseID)
	assert.False(t, sa.AbovePatientAvg)
	assert.NotNil(t, sa.ClinicalFlags)

	// global analysis sees at least this patient's sessions
	status, respBytes = doRequest(ctx, t, http.MethodGet, "/analysis/global", clinician.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var ga struct {
		TotalPatients  int            `json:"totalPatients"`
		TotalSessions  int            `json:"totalSessions"`
		SessionsPerDay map[string]int `json:"sessionsPerDay"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &ga))
	assert.GreaterOrEqual(t, ga.TotalPatients, 1)
	assert.GreaterOrEqual(t, ga.TotalSessions, 2)
	assert.GreaterOrEqual(t, ga.SessionsPerDay["2024-03-04"], 1)

	// workbook export
	status, respBytes = doRequest(ctx, t, http.MethodGet, "/analysis/patient/"+first.PatientID+"/export", clinician.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	f, err := excelize.OpenReader(bytes.NewReader(respBytes))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), analysis.SheetRomTrend)
}
