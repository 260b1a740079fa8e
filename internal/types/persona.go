package types

// MotivationLevel is the level assigned to one motivation dimension.
type MotivationLevel string

// Motivation levels recognized by the canonical schema.
const (
	MotivationHigh   MotivationLevel = "High"
	MotivationMedium MotivationLevel = "Medium"
	MotivationLow    MotivationLevel = "Low"
)

// Motivation dimension keys. The synthesizer normalizes the motivations map
// to exactly these four keys.
const (
	MotivationConvenience = "convenience"
	MotivationWellness    = "wellness"
	MotivationSpeed       = "speed"
	MotivationPreferences = "preferences"
)

// MotivationKeys lists the motivation dimensions in display order.
var MotivationKeys = []string{
	MotivationConvenience,
	MotivationWellness,
	MotivationSpeed,
	MotivationPreferences,
}

// Personality axis keys. Values are in [0,1]: 0 is the left pole, 1 the right.
const (
	AxisIntrovertExtrovert = "introvert_extrovert"
	AxisIntuitionSensing   = "intuition_sensing"
	AxisFeelingThinking    = "feeling_thinking"
	AxisPerceivingJudging  = "perceiving_judging"
)

// PersonalityAxis describes one bipolar personality dimension.
type PersonalityAxis struct {
	Key   string
	Left  string
	Right string
}

// PersonalityAxes lists the four bipolar dimensions in display order.
var PersonalityAxes = []PersonalityAxis{
	{Key: AxisIntrovertExtrovert, Left: "INTROVERT", Right: "EXTROVERT"},
	{Key: AxisIntuitionSensing, Left: "INTUITION", Right: "SENSING"},
	{Key: AxisFeelingThinking, Left: "FEELING", Right: "THINKING"},
	{Key: AxisPerceivingJudging, Left: "PERCEIVING", Right: "JUDGING"},
}

// PersonaDocument is the canonical persona schema. After the synthesizer's
// repair step every field is present and well-typed; renderers never need to
// branch on shape.
type PersonaDocument struct {
	Occupation        string                     `json:"occupation"`
	Location          string                     `json:"location"`
	PersonalityTraits []string                   `json:"personality_traits"`
	RedditBehavior    []string                   `json:"reddit_behavior"`
	Goals             []string                   `json:"goals"`
	Frustrations      []string                   `json:"frustrations"`
	Summary           string                     `json:"summary"`
	Motivations       map[string]MotivationLevel `json:"motivations"`
	PersonalityBars   map[string]float64         `json:"personality_bars"`
}

// FallbackPersona returns the fixed, fully schema-valid persona substituted
// when synthesis fails, and the source of per-field defaults during repair.
// It is the single authority for canned values; renderers must not carry
// their own copies.
func FallbackPersona() PersonaDocument {
	return PersonaDocument{
		Occupation: "Reddit User",
		Location:   "Unknown",
		PersonalityTraits: []string{
			"Active", "Engaged", "Community-oriented",
		},
		RedditBehavior: []string{
			"Regular poster", "Engages with community", "Shares content",
		},
		Goals: []string{
			"Connect with others", "Share information", "Participate in discussions",
		},
		Frustrations: []string{
			"Limited engagement", "Content visibility", "Community dynamics",
		},
		Summary: "An active Reddit user who engages regularly with the community through posts and comments.",
		Motivations: map[string]MotivationLevel{
			MotivationConvenience: MotivationMedium,
			MotivationWellness:    MotivationMedium,
			MotivationSpeed:       MotivationMedium,
			MotivationPreferences: MotivationMedium,
		},
		PersonalityBars: map[string]float64{
			AxisIntrovertExtrovert: 0.5,
			AxisIntuitionSensing:   0.5,
			AxisFeelingThinking:    0.5,
			AxisPerceivingJudging:  0.5,
		},
	}
}
