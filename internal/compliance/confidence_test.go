package compliance

import "testing"

func TestComputeConfidenceAllHighResolved(t *testing.T) {
	got := computeConfidence(confidenceInput{
		TotalIngredients: 4,
		ResolvedCount:    4,
		ResolutionLevels: []ResolutionLevel{LevelHigh, LevelHigh, LevelHigh, LevelHigh},
		Status:           StatusSafe,
	})
	if got != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", got)
	}
}

func TestComputeConfidenceUncertaintyPenalty(t *testing.T) {
	got := computeConfidence(confidenceInput{
		TotalIngredients: 2,
		UncertainCount:   1,
		ResolutionLevels: []ResolutionLevel{LevelHigh, LevelLow},
		Status:           StatusUncertain,
	})
	// effective_ratio = (1.0+0.0)/2 = 0.5; penalty = 0.1*1 = 0.1 -> 0.4
	if got != 0.4 {
		t.Fatalf("confidence = %v, want 0.4", got)
	}
}

func TestComputeConfidenceAPIFailedClampsToCeiling(t *testing.T) {
	got := computeConfidence(confidenceInput{
		TotalIngredients: 1,
		ResolutionLevels: []ResolutionLevel{LevelAPIFailed},
		Status:           StatusUncertain,
	})
	if got > apiFailedCeiling {
		t.Fatalf("confidence = %v, want <= %v", got, apiFailedCeiling)
	}
}

func TestComputeConfidenceMinorOnlyTriggerBand(t *testing.T) {
	got := computeConfidence(confidenceInput{
		TotalIngredients:     3,
		ResolutionLevels:     []ResolutionLevel{LevelHigh, LevelHigh, LevelHigh},
		TriggeredOnlyByMinor: true,
		Status:               StatusNotSafe,
	})
	if got < minorTriggerBandLow || got > minorTriggerBandHigh {
		t.Fatalf("confidence = %v, want within [%v,%v]", got, minorTriggerBandLow, minorTriggerBandHigh)
	}
}

func TestComputeConfidenceSafeWithInformationalFloor(t *testing.T) {
	got := computeConfidence(confidenceInput{
		TotalIngredients:    5,
		ResolutionLevels:    []ResolutionLevel{LevelLow, LevelLow, LevelLow, LevelLow, LevelLow},
		HasMinorIngredients: true,
		Status:              StatusSafe,
	})
	if got < safeWithInformationalFloor {
		t.Fatalf("confidence = %v, want >= %v", got, safeWithInformationalFloor)
	}
}

func TestComputeConfidenceAPIFailedPrecedesMinorBand(t *testing.T) {
	// An api_failed ingredient alongside a minor-only trigger: the
	// api_failed ceiling (<=0.4) applies before the minor band's floor
	// of 0.2 would otherwise raise it, per the documented application
	// order.
	got := computeConfidence(confidenceInput{
		TotalIngredients:     2,
		ResolutionLevels:     []ResolutionLevel{LevelAPIFailed, LevelHigh},
		TriggeredOnlyByMinor: true,
		Status:               StatusNotSafe,
	})
	if got > apiFailedCeiling {
		t.Fatalf("confidence = %v, want <= %v (api_failed ceiling applied first)", got, apiFailedCeiling)
	}
}

func TestComputeConfidenceEmptyInputIsZero(t *testing.T) {
	if got := computeConfidence(confidenceInput{}); got != 0 {
		t.Fatalf("confidence = %v, want 0", got)
	}
}
