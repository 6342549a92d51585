package analysis

import "time"

const dayLayout = "2006-01-02"

// DayKey buckets a timestamp into its UTC calendar date.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ComputeRomStats reduces ROM values in a single pass. Empty input gives all zeros.
func ComputeRomStats(values []float64) RomStats {
	if len(values) == 0 {
		return RomStats{}
	}

	minV, maxV := values[0], values[0]
	var sum float64
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}

	return RomStats{
		Avg:   sum / float64(len(values)),
		Min:   minV,
		Max:   maxV,
		Count: len(values),
	}
}

// ComputeDurationStats reduces session durations (seconds) in a single pass.
func ComputeDurationStats(values []int) DurationStats {
	if len(values) == 0 {
		return DurationStats{}
	}

	minV, maxV := values[0], values[0]
	total := 0
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		total += v
	}

	return DurationStats{
		Avg:   float64(total) / float64(len(values)),
		Min:   minV,
		Max:   maxV,
		Total: total,
	}
}

// PercentileFromSorted returns the share (0-100) of values less than or equal to target.
func PercentileFromSorted(sorted []float64, target float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	lessOrEqual := 0
	for _, v := range sorted {
		if v <= target {
			lessOrEqual++
		}
	}

	p := float64(lessOrEqual) / float64(len(sorted)) * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	avg := ComputeRomStats(values).Avg
	return &avg
}
