package biterisk

// Question describes one questionnaire entry as presented to clients:
// the canonical response key, the prompt text, and the ordered option set.
// Option order matches the severity model's curation order (mildest first),
// except "pack" where "Alone" leads despite carrying more weight than
// "With one other dog".
type Question struct {
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// Questionnaire returns the 10 fixed questions in presentation order.
// A fresh slice is returned each call so callers cannot mutate the canon.
func Questionnaire() []Question {
	return []Question{
		{QAggression, "Overall Aggression Level", []string{
			"Friendly/Calm", "Neutral/Cautious", "Defensive",
			"Aggressive/Growling", "Attacking/Lunging"}},
		{QBodyLanguage, "Body Language", []string{
			"Relaxed (wagging tail, soft ears)", "Alert (ears up, attentive)",
			"Tense (stiff body, raised hackles)", "Cowering/Fearful",
			"Showing teeth/Snarling"}},
		{QEyeContact, "Eye Contact Pattern", []string{
			"Soft/Avoidant", "Normal", "Direct stare", "Fixed stare with tension"}},
		{QTerritorial, "Territorial Behavior", []string{
			"Not territorial", "Mild (barking)", "Moderate (blocking path)",
			"Highly territorial (charging)"}},
		{QPastBehavior, "Past Aggressive Incidents", []string{
			"Never aggressive", "Rare incidents", "Multiple incidents",
			"Frequent attacks"}},
		{QApproach, "Response to Human Approach", []string{
			"Friendly approach", "Cautious but friendly", "Avoidant/Backing away",
			"Warning signs (barking/growling)", "Charging/Lunging"}},
		{QFoodGuarding, "Food Guarding Behavior", []string{
			"No guarding", "Mild (tense when eating)", "Moderate (growls near food)",
			"Severe (snaps/bites near food)"}},
		{QSpace, "Personal Space Preference", []string{
			"Comfortable with proximity", "Prefers distance",
			"Shows discomfort when approached", "Actively defends space"}},
		{QHealth, "Health Status", []string{
			"Appears healthy", "Minor issues (limping)", "Visible injuries",
			"Signs of rabies/severe illness"}},
		{QPack, "Pack Status", []string{
			"Alone", "With one other dog", "In small pack (2-3)", "Large pack (4+)"}},
	}
}
