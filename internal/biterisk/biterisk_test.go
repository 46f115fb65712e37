package biterisk_test

import (
	"reflect"
	"testing"

	"github.com/safepaws-ai/safepaws-backend/internal/biterisk"
)

// friendliest returns the all-mildest response set. Note it still scores 5
// because the "pack" question has no zero-weight option ("Alone" = 5).
func friendliest() map[string]string {
	return map[string]string{
		biterisk.QAggression:   "Friendly/Calm",
		biterisk.QBodyLanguage: "Relaxed (wagging tail, soft ears)",
		biterisk.QEyeContact:   "Soft/Avoidant",
		biterisk.QTerritorial:  "Not territorial",
		biterisk.QPastBehavior: "Never aggressive",
		biterisk.QApproach:     "Friendly approach",
		biterisk.QFoodGuarding: "No guarding",
		biterisk.QSpace:        "Comfortable with proximity",
		biterisk.QHealth:       "Appears healthy",
		biterisk.QPack:         "With one other dog", // lowest pack weight (3)
	}
}

// ─── Score ────────────────────────────────────────────────────────────────────

func TestScore_WorstCaseScenario(t *testing.T) {
	responses := map[string]string{
		biterisk.QAggression:   "Attacking/Lunging",              // 30
		biterisk.QBodyLanguage: "Showing teeth/Snarling",         // 25
		biterisk.QEyeContact:   "Fixed stare with tension",       // 20
		biterisk.QTerritorial:  "Highly territorial (charging)",  // 20
		biterisk.QPastBehavior: "Frequent attacks",               // 30
		biterisk.QApproach:     "Charging/Lunging",               // 25
		biterisk.QFoodGuarding: "Severe (snaps/bites near food)", // 20
		biterisk.QSpace:        "Actively defends space",         // 18
		biterisk.QHealth:       "Appears healthy",                // 0
		biterisk.QPack:         "Alone",                          // 5
	}

	score, level := biterisk.Score(responses)
	if score != 193 {
		t.Errorf("score: got %d, want 193", score)
	}
	if level != biterisk.LevelCritical {
		t.Errorf("level: got %q, want %q", level, biterisk.LevelCritical)
	}

	recs := biterisk.Recommendations(responses)
	want := []string{
		"🚨 Maintain safe distance - Do not approach",
		"🚶 Avoid entering the dog's territory - Choose alternate route",
		"⛔ Do not attempt to pet or interact",
		"🍖 Never approach when dog is eating or near food",
	}
	if !reflect.DeepEqual(recs, want) {
		t.Errorf("recommendations:\n got  %v\n want %v", recs, want)
	}
}

func TestScore_UnknownKeysAndOptionsContributeZero(t *testing.T) {
	responses := map[string]string{
		"not_a_question":      "whatever",
		biterisk.QAggression:  "Not A Real Option",
		biterisk.QEyeContact:  "Direct stare", // 10 — the only valid answer
	}
	score, level := biterisk.Score(responses)
	if score != 10 {
		t.Errorf("score: got %d, want 10", score)
	}
	if level != biterisk.LevelLow {
		t.Errorf("level: got %q, want %q", level, biterisk.LevelLow)
	}
}

func TestScore_EmptyResponses(t *testing.T) {
	score, level := biterisk.Score(map[string]string{})
	if score != 0 || level != biterisk.LevelLow {
		t.Errorf("got (%d, %q), want (0, %q)", score, level, biterisk.LevelLow)
	}
	if recs := biterisk.Recommendations(map[string]string{}); len(recs) != 0 {
		t.Errorf("recommendations: got %v, want empty", recs)
	}
}

func TestScore_NilResponses(t *testing.T) {
	score, level := biterisk.Score(nil)
	if score != 0 || level != biterisk.LevelLow {
		t.Errorf("got (%d, %q), want (0, %q)", score, level, biterisk.LevelLow)
	}
	if recs := biterisk.Recommendations(nil); len(recs) != 0 {
		t.Errorf("recommendations: got %v, want empty", recs)
	}
}

// Monotonicity: replacing one answer with a strictly higher-weighted option
// for the same question never lowers the total.
func TestScore_Monotonic(t *testing.T) {
	base := friendliest()
	baseScore, _ := biterisk.Score(base)

	for _, q := range biterisk.Questionnaire() {
		baseline := baseScore - biterisk.Weight(q.Key, base[q.Key])
		for _, opt := range q.Options {
			bumped := friendliest()
			bumped[q.Key] = opt
			got, _ := biterisk.Score(bumped)
			want := baseline + biterisk.Weight(q.Key, opt)
			if got != want {
				t.Errorf("%s=%q: score %d, want %d", q.Key, opt, got, want)
			}
			if got < baseline {
				t.Errorf("%s=%q: swapping in a weighted option lowered the score", q.Key, opt)
			}
		}
	}
}

// ─── LevelFor — boundary exactness ───────────────────────────────────────────

func TestLevelFor_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  biterisk.Level
	}{
		{0, biterisk.LevelLow},
		{20, biterisk.LevelLow},      // inclusive upper bound
		{21, biterisk.LevelModerate},
		{50, biterisk.LevelModerate}, // inclusive upper bound
		{51, biterisk.LevelHigh},
		{80, biterisk.LevelHigh}, // inclusive upper bound
		{81, biterisk.LevelCritical},
		{193, biterisk.LevelCritical},
	}
	for _, tt := range tests {
		if got := biterisk.LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%d): got %q, want %q", tt.score, got, tt.want)
		}
	}
}

// ─── Recommendations ──────────────────────────────────────────────────────────

func TestRecommendations_FixedOrderAndNoDuplicates(t *testing.T) {
	// Trigger every rule at once.
	responses := map[string]string{
		biterisk.QAggression:   "Aggressive/Growling",
		biterisk.QTerritorial:  "Moderate (blocking path)",
		biterisk.QApproach:     "Warning signs (barking/growling)",
		biterisk.QHealth:       "Signs of rabies/severe illness",
		biterisk.QPack:         "Large pack (4+)",
		biterisk.QFoodGuarding: "Moderate (growls near food)",
	}
	want := []string{
		"🚨 Maintain safe distance - Do not approach",
		"🚶 Avoid entering the dog's territory - Choose alternate route",
		"⛔ Do not attempt to pet or interact",
		"⚠️ RABIES RISK - Contact health department immediately",
		"👥 Pack behavior increases unpredictability - Extra caution needed",
		"🍖 Never approach when dog is eating or near food",
	}

	for i := 0; i < 5; i++ { // determinism across repeated calls
		got := biterisk.Recommendations(responses)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("call %d:\n got  %v\n want %v", i, got, want)
		}
	}
}

// Two response sets with identical scores can carry different
// recommendations — proof that recommendations are not derived from the
// bucketed score.
func TestRecommendations_IndependentOfScore(t *testing.T) {
	a := map[string]string{biterisk.QAggression: "Aggressive/Growling"}  // 20, triggers
	b := map[string]string{biterisk.QEyeContact: "Fixed stare with tension"} // 20, no trigger

	scoreA, levelA := biterisk.Score(a)
	scoreB, levelB := biterisk.Score(b)
	if scoreA != scoreB || levelA != levelB {
		t.Fatalf("setup: scores differ: (%d,%q) vs (%d,%q)", scoreA, levelA, scoreB, levelB)
	}

	recsA := biterisk.Recommendations(a)
	recsB := biterisk.Recommendations(b)
	if len(recsA) == 0 {
		t.Error("set A should trigger the aggression rule")
	}
	if len(recsB) != 0 {
		t.Errorf("set B should trigger nothing, got %v", recsB)
	}
}

func TestRecommendations_NoneIsValid(t *testing.T) {
	got := biterisk.Recommendations(friendliest())
	if len(got) != 0 {
		t.Errorf("friendliest responses should yield no recommendations, got %v", got)
	}
}

// ─── Questionnaire ────────────────────────────────────────────────────────────

func TestQuestionnaire_EveryOptionHasAWeight(t *testing.T) {
	qs := biterisk.Questionnaire()
	if len(qs) != 10 {
		t.Fatalf("got %d questions, want 10", len(qs))
	}

	seen := map[string]bool{}
	for _, q := range qs {
		if seen[q.Key] {
			t.Errorf("duplicate question key %q", q.Key)
		}
		seen[q.Key] = true

		zeroed := 0
		for _, opt := range q.Options {
			if w := biterisk.Weight(q.Key, opt); w == 0 {
				zeroed++
			}
		}
		// Every question except "pack" has exactly one zero-weight option.
		if q.Key == biterisk.QPack {
			if zeroed != 0 {
				t.Errorf("pack should have no zero-weight option, found %d", zeroed)
			}
		} else if zeroed != 1 {
			t.Errorf("%s: got %d zero-weight options, want 1", q.Key, zeroed)
		}
	}
}

func TestQuestionnaire_ReturnsFreshSlice(t *testing.T) {
	a := biterisk.Questionnaire()
	a[0].Options[0] = "mutated"
	b := biterisk.Questionnaire()
	if b[0].Options[0] == "mutated" {
		t.Error("Questionnaire must return an independent copy")
	}
}
