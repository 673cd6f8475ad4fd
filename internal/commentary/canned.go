package commentary

import "github.com/amankumarsingh77/hoopcast/internal/models"

// NoCredentialEvents is the commentary used when no API credential was supplied.
func NoCredentialEvents() []models.CommentaryEvent {
	return []models.CommentaryEvent{
		models.NewFallbackEvent(
			"Basketball shooting form analysis",
			"Focus on your shooting form - keep your elbow under the ball and follow through!",
			2.0, models.CategoryTechnical),
		models.NewFallbackEvent(
			"Defensive positioning",
			"Great defensive stance! Stay low and keep your hands active.",
			5.0, models.CategoryTactical),
		models.NewFallbackEvent(
			"Ball handling skills",
			"Nice dribbling! Try to keep your head up to see the court better.",
			8.0, models.CategoryTechnical),
	}
}

// UnavailableEvents replaces the whole commentary when the service cannot be used at all.
func UnavailableEvents() []models.CommentaryEvent {
	return []models.CommentaryEvent{
		models.NewFallbackEvent(
			"Basketball shooting analysis",
			"Focus on your shooting form - keep your elbow aligned and follow through completely!",
			2.0, models.CategoryTechnical),
		models.NewFallbackEvent(
			"Court movement",
			"Great hustle! Keep moving your feet and stay ready for the next play.",
			5.0, models.CategoryMotivational),
		models.NewFallbackEvent(
			"Ball control",
			"Nice ball handling! Work on keeping your head up to see passing opportunities.",
			8.0, models.CategoryTechnical),
	}
}

var frameFallbacks = []struct {
	action   string
	feedback string
	category models.Category
}{
	{
		"Basketball fundamentals focus",
		"Keep your shooting form consistent - elbow under the ball, follow through with your wrist snap!",
		models.CategoryTechnical,
	},
	{
		"Defensive positioning",
		"Stay low in your defensive stance, keep your feet moving and hands active!",
		models.CategoryTactical,
	},
	{
		"Ball handling technique",
		"Great dribbling! Keep your head up to see the court and protect the ball with your off-hand.",
		models.CategoryTechnical,
	},
}

// FrameFallback is the substitute for the i-th sampled frame, pinned to its timestamp.
func FrameFallback(i int, timestamp float64) models.CommentaryEvent {
	if i < 0 {
		i = -i
	}
	fb := frameFallbacks[i%len(frameFallbacks)]
	return models.NewFallbackEvent(fb.action, fb.feedback, timestamp, fb.category)
}
