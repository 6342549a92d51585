package analysis

import (
	"encoding/json"
)

type RomStats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

type DurationStats struct {
	Avg   float64 `json:"avg"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Total int     `json:"total"`
}

type GlobalAnalysis struct {
	TotalPatients              int                 `json:"totalPatients"`
	TotalSessions              int                 `json:"totalSessions"`
	RomByExercise              map[string]RomStats `json:"romByExercise"`
	SessionsPerDay             map[string]int      `json:"sessionsPerDay"`
	SessionsByPhase            LabelCounts         `json:"sessionsByPhase"`
	SessionsByType             LabelCounts         `json:"sessionsByType"`
	SessionsByExerciseAndPhase NestedLabelCounts   `json:"sessionsByExerciseAndPhase"`
}

// UnmarshalJSON decodes the label buckets back into their typed form.
func (g *GlobalAnalysis) UnmarshalJSON(b []byte) error {
	type plain GlobalAnalysis
	aux := struct {
		*plain
		SessionsByPhase            map[string]int            `json:"sessionsByPhase"`
		SessionsByType             map[string]int            `json:"sessionsByType"`
		SessionsByExerciseAndPhase map[string]map[string]int `json:"sessionsByExerciseAndPhase"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	g.SessionsByPhase = labelCountsFromStrings(DimensionPhase, aux.SessionsByPhase)
	g.SessionsByType = labelCountsFromStrings(DimensionType, aux.SessionsByType)
	g.SessionsByExerciseAndPhase = nestedLabelCountsFromStrings(DimensionExercise, DimensionPhase, aux.SessionsByExerciseAndPhase)
	return nil
}

type RomTrendPoint struct {
	Date      string  `json:"date"`
	Rom       float64 `json:"rom"`
	SessionID string  `json:"sessionId"`
}

type FrequencyPoint struct {
	Date          string `json:"date"`
	SessionsCount int    `json:"sessionsCount"`
}

// PatientAnalysis is nil-valued in AvgRom and SessionDurationStats
// when none of the patient's sessions carries a ROM or a duration.
type PatientAnalysis struct {
	PatientID            string              `json:"patientId"`
	TotalSessions        int                 `json:"totalSessions"`
	AvgRom               *float64            `json:"avgRom"`
	RomByExercise        map[string]RomStats `json:"romByExercise"`
	RomTrend             []RomTrendPoint     `json:"romTrend"`
	SessionDurationStats *DurationStats      `json:"sessionDurationStats"`
	FrequencyByDay       []FrequencyPoint    `json:"frequencyByDay"`
	SessionsByPhase      LabelCounts         `json:"sessionsByPhase"`
	SessionsByType       LabelCounts         `json:"sessionsByType"`
}

// UnmarshalJSON decodes the label buckets back into their typed form.
func (p *PatientAnalysis) UnmarshalJSON(b []byte) error {
	type plain PatientAnalysis
	aux := struct {
		*plain
		SessionsByPhase map[string]int `json:"sessionsByPhase"`
		SessionsByType  map[string]int `json:"sessionsByType"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	p.SessionsByPhase = labelCountsFromStrings(DimensionPhase, aux.SessionsByPhase)
	p.SessionsByType = labelCountsFromStrings(DimensionType, aux.SessionsByType)
	return nil
}

type SessionAnalysis struct {
	SessionID                 string   `json:"sessionId"`
	PatientID                 string   `json:"patientId"`
	ExerciseID                string   `json:"exerciseId"`
	Rom                       float64  `json:"rom"`
	DurationSecs              int      `json:"durationSecs"`
	PercentilePatientExercise float64  `json:"percentilePatientExercise"`
	PercentileGlobalExercise  float64  `json:"percentileGlobalExercise"`
	AbovePatientAvg           bool     `json:"abovePatientAvg"`
	AboveGlobalAvg            bool     `json:"aboveGlobalAvg"`
	PatientExerciseAvgRom     *float64 `json:"patientExerciseAvgRom"`
	GlobalExerciseAvgRom      *float64 `json:"globalExerciseAvgRom"`
	ClinicalFlags             []string `json:"clinicalFlags"`
}
