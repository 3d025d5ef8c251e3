package story

// DefaultMood is used whenever a request carries no mood or an unknown one.
const DefaultMood = "calm"

// Moods maps a mood label to the tone instruction injected into generation
// prompts. Lookups go through ToneFor so unknown labels degrade to the
// default instead of aborting a request.
var Moods = map[string]string{
	"calm":        "Use a slow, soothing pace. Extra gentle. Good for anxious kids or late nights.",
	"adventurous": "More excitement and action, but still end peacefully.",
	"silly":       "Include humor and funny moments. Light and playful.",
	"cozy":        "Focus on warmth, comfort, and safe feelings. Lots of sensory details.",
}

// ToneFor resolves a mood label to its tone instruction, falling back to the
// default mood for unknown labels.
func ToneFor(mood string) string {
	if tone, ok := Moods[mood]; ok {
		return tone
	}
	return Moods[DefaultMood]
}

// KnownMood reports whether the label is in the mood table.
func KnownMood(mood string) bool {
	_, ok := Moods[mood]
	return ok
}

// SafetyBoundaries is appended verbatim to every generation prompt and is
// never subject to refinement.
const SafetyBoundaries = `
Never include:
- Medical advice or health decisions
- Scary elements (monsters, danger, death, being lost/abandoned)
- Violence or conflict beyond mild disagreements
- Complex emotions like grief, divorce, serious illness
- Anything that could increase bedtime anxiety
`
