// Package biterisk implements the deterministic bite-risk scoring engine.
// It is intentionally dependency-free: it imports nothing from internal/ and
// can be tested without a store or an HTTP server.
//
// Two independent views are computed over the same questionnaire responses:
// a weighted total score bucketed into one of four risk levels, and a list of
// canned safety recommendations driven by membership rules. Recommendations
// are NOT derived from the score or the bucket — two response sets with the
// same score can yield different recommendation lists.
//
// The engine is total over its domain: unknown question keys or option values
// contribute zero weight and trigger no rule. Malformed input never errors.
package biterisk

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Level is the four-bucket risk classification. String values are persisted
// verbatim in assessment and hotspot records, so they must not change.
type Level string

const (
	LevelLow      Level = "Low Risk"      // score <= 20
	LevelModerate Level = "Moderate Risk" // 20 < score <= 50
	LevelHigh     Level = "High Risk"     // 50 < score <= 80
	LevelCritical Level = "Critical Risk" // score > 80
)

// Question keys. These are the canonical map keys for a response set; they
// match the field names persisted inside bite_assessments records.
const (
	QAggression   = "aggression"
	QBodyLanguage = "body_language"
	QEyeContact   = "eye_contact"
	QTerritorial  = "territorial"
	QPastBehavior = "past_behavior"
	QApproach     = "approach"
	QFoodGuarding = "food_guarding"
	QSpace        = "space"
	QHealth       = "health"
	QPack         = "pack"
)

// ─── WEIGHT TABLES ────────────────────────────────────────────────────────────

// weights is the manually curated severity model: each (question, option)
// pair carries a fixed integer weight. Weights are not symmetric across
// questions — they range 0–30 depending on the severity the option implies.
// Note that "pack" has no zero-weight option: a dog alone still scores 5.
var weights = map[string]map[string]int{
	QAggression: {
		"Friendly/Calm":       0,
		"Neutral/Cautious":    5,
		"Defensive":           10,
		"Aggressive/Growling": 20,
		"Attacking/Lunging":   30,
	},
	QBodyLanguage: {
		"Relaxed (wagging tail, soft ears)":   0,
		"Alert (ears up, attentive)":          5,
		"Tense (stiff body, raised hackles)":  15,
		"Cowering/Fearful":                    10,
		"Showing teeth/Snarling":              25,
	},
	QEyeContact: {
		"Soft/Avoidant":           0,
		"Normal":                  3,
		"Direct stare":            10,
		"Fixed stare with tension": 20,
	},
	QTerritorial: {
		"Not territorial":               0,
		"Mild (barking)":                5,
		"Moderate (blocking path)":      10,
		"Highly territorial (charging)": 20,
	},
	QPastBehavior: {
		"Never aggressive":   0,
		"Rare incidents":     10,
		"Multiple incidents": 20,
		"Frequent attacks":   30,
	},
	QApproach: {
		"Friendly approach":                0,
		"Cautious but friendly":            3,
		"Avoidant/Backing away":            8,
		"Warning signs (barking/growling)": 15,
		"Charging/Lunging":                 25,
	},
	QFoodGuarding: {
		"No guarding":                    0,
		"Mild (tense when eating)":       5,
		"Moderate (growls near food)":    12,
		"Severe (snaps/bites near food)": 20,
	},
	QSpace: {
		"Comfortable with proximity":      0,
		"Prefers distance":                3,
		"Shows discomfort when approached": 10,
		"Actively defends space":          18,
	},
	QHealth: {
		"Appears healthy":                0,
		"Minor issues (limping)":         5,
		"Visible injuries":               10,
		"Signs of rabies/severe illness": 25,
	},
	QPack: {
		"Alone":              5,
		"With one other dog": 3,
		"In small pack (2-3)": 8,
		"Large pack (4+)":    15,
	},
}

// ─── SCORING ──────────────────────────────────────────────────────────────────

// Score sums the per-answer weights and buckets the total into a Level.
// Unknown keys and unmapped options contribute 0 — the engine never errors.
func Score(responses map[string]string) (int, Level) {
	total := 0
	for key, option := range responses {
		total += weights[key][option] // missing key/option → zero value
	}
	return total, LevelFor(total)
}

// LevelFor buckets a total score. Thresholds are inclusive upper bounds —
// exactly 20 is Low, exactly 50 is Moderate, exactly 80 is High — and any
// lookup must preserve this boundary behaviour exactly.
func LevelFor(score int) Level {
	switch {
	case score <= 20:
		return LevelLow
	case score <= 50:
		return LevelModerate
	case score <= 80:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// Weight returns the configured weight for a (question, option) pair, or 0
// when either is unknown. Exposed so the API layer can echo per-answer
// contributions without duplicating the table.
func Weight(question, option string) int {
	return weights[question][option]
}

// ─── RECOMMENDATIONS ──────────────────────────────────────────────────────────

// recommendationRule pairs a question with the option values that trigger its
// advisory string. Rules are evaluated in slice order and each fires at most
// once, so the output is duplicate-free and deterministically ordered.
type recommendationRule struct {
	question string
	triggers []string
	advice   string
}

// recommendationRules in fixed evaluation order: aggression, territorial,
// approach, health, pack, food guarding. The advisory strings are persisted
// in assessment records; do not rewrite them.
var recommendationRules = []recommendationRule{
	{
		question: QAggression,
		triggers: []string{"Aggressive/Growling", "Attacking/Lunging"},
		advice:   "🚨 Maintain safe distance - Do not approach",
	},
	{
		question: QTerritorial,
		triggers: []string{"Moderate (blocking path)", "Highly territorial (charging)"},
		advice:   "🚶 Avoid entering the dog's territory - Choose alternate route",
	},
	{
		question: QApproach,
		triggers: []string{"Warning signs (barking/growling)", "Charging/Lunging"},
		advice:   "⛔ Do not attempt to pet or interact",
	},
	{
		question: QHealth,
		triggers: []string{"Signs of rabies/severe illness"},
		advice:   "⚠️ RABIES RISK - Contact health department immediately",
	},
	{
		question: QPack,
		triggers: []string{"In small pack (2-3)", "Large pack (4+)"},
		advice:   "👥 Pack behavior increases unpredictability - Extra caution needed",
	},
	{
		question: QFoodGuarding,
		triggers: []string{"Moderate (growls near food)", "Severe (snaps/bites near food)"},
		advice:   "🍖 Never approach when dog is eating or near food",
	},
}

// Recommendations applies the trigger rules to a response set. It is a
// second, independent pass over the raw responses — deliberately not a
// function of the score. An empty result is a valid, non-error outcome.
func Recommendations(responses map[string]string) []string {
	out := []string{}
	for _, rule := range recommendationRules {
		answer := responses[rule.question]
		for _, trigger := range rule.triggers {
			if answer == trigger {
				out = append(out, rule.advice)
				break
			}
		}
	}
	return out
}
