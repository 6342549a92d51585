package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/rehabtrack/rehabtrack/internal/patients"
	"github.com/rehabtrack/rehabtrack/internal/sessions"
	"github.com/rehabtrack/rehabtrack/internal/telemetry/tracing"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

const notablyDiffDeg = 10.0

const (
	FlagNotablyBelowGlobal = "notably below global average for this exercise"
	FlagNotablyAboveGlobal = "notably above global average for this exercise"
	FlagLowerQuartile      = "in the lower global quartile"
	FlagUpperQuartile      = "in the upper global quartile"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=analysis_test

type patientsRepo interface {
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id string) (*patients.Patient, error)
}

type sessionsRepo interface {
	Count(ctx context.Context) (int, error)
	ListAll(ctx context.Context) ([]sessions.Projection, error)
	ListByPatient(ctx context.Context, patientID string) ([]sessions.Session, error)
	Get(ctx context.Context, id string) (*sessions.Session, error)
	ListRomValues(ctx context.Context, filter sessions.RomFilter) ([]float64, error)
}

// Analyzer computes descriptive statistics over stored sessions.
// Every call reads fresh data, nothing is cached between calls.
type Analyzer struct {
	patientsRepo patientsRepo
	sessionsRepo sessionsRepo
}

func NewAnalyzer(patientsRepo patientsRepo, sessionsRepo sessionsRepo) *Analyzer {
	return &Analyzer{
		patientsRepo: patientsRepo,
		sessionsRepo: sessionsRepo,
	}
}

func (a *Analyzer) Global(ctx context.Context) (_ *GlobalAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.analysis.global")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var (
		totalPatients int
		totalSessions int
		projections   []sessions.Projection
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalPatients, err = a.patientsRepo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		totalSessions, err = a.sessionsRepo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		projections, err = a.sessionsRepo.ListAll(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &GlobalAnalysis{
		TotalPatients:              totalPatients,
		TotalSessions:              totalSessions,
		RomByExercise:              make(map[string]RomStats),
		SessionsPerDay:             make(map[string]int),
		SessionsByPhase:            make(LabelCounts),
		SessionsByType:             make(LabelCounts),
		SessionsByExerciseAndPhase: make(NestedLabelCounts),
	}

	romValuesByExercise := make(map[string][]float64)
	for _, s := range projections {
		result.SessionsPerDay[DayKey(s.StartedAt)]++

		phase := PhaseLabel(s.PhaseLabel)
		result.SessionsByPhase.Inc(phase)
		result.SessionsByType.Inc(TypeLabel(s.SessionType))
		result.SessionsByExerciseAndPhase.Inc(ExerciseLabel(s.ExerciseID), phase)

		if hasExercise(s.ExerciseID) && s.RomMaxDeg != nil {
			key := ExerciseLabel(s.ExerciseID).String()
			romValuesByExercise[key] = append(romValuesByExercise[key], *s.RomMaxDeg)
		}
	}

	for exercise, values := range romValuesByExercise {
		result.RomByExercise[exercise] = ComputeRomStats(values)
	}

	span.SetAttributes(attribute.Int("sessions.count", len(projections)))
	return result, nil
}

func (a *Analyzer) Patient(ctx context.Context, patientID string) (_ *PatientAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.analysis.patient")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("patient.id", patientID))

	if _, err := a.patientsRepo.Get(ctx, patientID); err != nil {
		if errors.Is(err, patients.ErrPatientNotFound) {
			return nil, fmt.Errorf("%w: patient %s", ErrNotFound, patientID)
		}
		return nil, err
	}

	patientSessions, err := a.sessionsRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if len(patientSessions) == 0 {
		return emptyPatientAnalysis(patientID), nil
	}

	result := &PatientAnalysis{
		PatientID:       patientID,
		TotalSessions:   len(patientSessions),
		RomByExercise:   make(map[string]RomStats),
		RomTrend:        make([]RomTrendPoint, 0),
		SessionsByPhase: make(LabelCounts),
		SessionsByType:  make(LabelCounts),
	}

	var (
		romValues           []float64
		durationValues      []int
		romValuesByExercise = make(map[string][]float64)
		frequency           = make(map[string]int)
	)
	for _, s := range patientSessions {
		day := DayKey(s.StartedAt)
		frequency[day]++
		result.SessionsByPhase.Inc(PhaseLabel(s.PhaseLabel))
		result.SessionsByType.Inc(TypeLabel(s.SessionType))

		if s.DurationSecs != nil {
			durationValues = append(durationValues, *s.DurationSecs)
		}

		if s.RomMaxDeg == nil {
			continue
		}
		rom := *s.RomMaxDeg
		romValues = append(romValues, rom)
		if hasExercise(s.ExerciseID) {
			key := ExerciseLabel(s.ExerciseID).String()
			romValuesByExercise[key] = append(romValuesByExercise[key], rom)
		}
		result.RomTrend = append(result.RomTrend, RomTrendPoint{
			Date:      day,
			Rom:       rom,
			SessionID: s.ID,
		})
	}

	result.AvgRom = average(romValues)

	for exercise, values := range romValuesByExercise {
		result.RomByExercise[exercise] = ComputeRomStats(values)
	}

	result.FrequencyByDay = make([]FrequencyPoint, 0, len(frequency))
	for day, count := range frequency {
		result.FrequencyByDay = append(result.FrequencyByDay, FrequencyPoint{Date: day, SessionsCount: count})
	}
	sort.Slice(result.FrequencyByDay, func(i, j int) bool {
		return result.FrequencyByDay[i].Date < result.FrequencyByDay[j].Date
	})
	sort.SliceStable(result.RomTrend, func(i, j int) bool {
		return result.RomTrend[i].Date < result.RomTrend[j].Date
	})

	if len(durationValues) > 0 {
		durationStats := ComputeDurationStats(durationValues)
		result.SessionDurationStats = &durationStats
	}

	return result, nil
}

func emptyPatientAnalysis(patientID string) *PatientAnalysis {
	return &PatientAnalysis{
		PatientID:       patientID,
		RomByExercise:   make(map[string]RomStats),
		RomTrend:        make([]RomTrendPoint, 0),
		FrequencyByDay:  make([]FrequencyPoint, 0),
		SessionsByPhase: make(LabelCounts),
		SessionsByType:  make(LabelCounts),
	}
}

func (a *Analyzer) Session(ctx context.Context, sessionID string) (_ *SessionAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.analysis.session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	session, err := a.sessionsRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
		}
		return nil, err
	}

	if !hasExercise(session.ExerciseID) {
		return nil, fmt.Errorf("%w: session %s has no exercise id", ErrInvalidState, sessionID)
	}
	if session.RomMaxDeg == nil {
		return nil, fmt.Errorf("%w: session %s has no rom value", ErrInvalidState, sessionID)
	}

	exerciseID := *session.ExerciseID
	rom := *session.RomMaxDeg
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	var patientValues, globalValues []float64
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		patientValues, err = a.sessionsRepo.ListRomValues(gCtx, sessions.RomFilter{
			PatientID:  session.PatientID,
			ExerciseID: exerciseID,
		})
		return err
	})
	g.Go(func() error {
		var err error
		globalValues, err = a.sessionsRepo.ListRomValues(gCtx, sessions.RomFilter{
			ExerciseID: exerciseID,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the store sorts already, but percentiles rely on it
	sort.Float64s(patientValues)
	sort.Float64s(globalValues)

	patientAvg := average(patientValues)
	globalAvg := average(globalValues)
	globalPercentile := PercentileFromSorted(globalValues, rom)

	durationSecs := 0
	if session.DurationSecs != nil {
		durationSecs = *session.DurationSecs
	}

	return &SessionAnalysis{
		SessionID:                 session.ID,
		PatientID:                 session.PatientID,
		ExerciseID:                exerciseID,
		Rom:                       rom,
		DurationSecs:              durationSecs,
		PercentilePatientExercise: PercentileFromSorted(patientValues, rom),
		PercentileGlobalExercise:  globalPercentile,
		AbovePatientAvg:           patientAvg != nil && rom >= *patientAvg,
		AboveGlobalAvg:            globalAvg != nil && rom >= *globalAvg,
		PatientExerciseAvgRom:     patientAvg,
		GlobalExerciseAvgRom:      globalAvg,
		ClinicalFlags:             clinicalFlags(rom, globalAvg, globalPercentile),
	}, nil
}

func clinicalFlags(rom float64, globalAvg *float64, globalPercentile float64) []string {
	flags := make([]string, 0)

	if globalAvg != nil {
		if rom <= *globalAvg-notablyDiffDeg {
			flags = append(flags, FlagNotablyBelowGlobal)
		} else if rom >= *globalAvg+notablyDiffDeg {
			flags = append(flags, FlagNotablyAboveGlobal)
		}
	}

	if globalPercentile <= 25 {
		flags = append(flags, FlagLowerQuartile)
	}
	if globalPercentile >= 75 {
		flags = append(flags, FlagUpperQuartile)
	}

	return flags
}

// an empty exercise id does not identify an exercise
func hasExercise(exerciseID *string) bool {
	return exerciseID != nil && *exerciseID != ""
}
