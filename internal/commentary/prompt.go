package commentary

import "fmt"

const promptTemplate = `You are an expert basketball coach analyzing a basketball video frame.

Frame Details:
- Frame %d of %d
- Timestamp: %.1f seconds
- Video duration: %.1f seconds

Please analyze this basketball frame and provide detailed coaching feedback:

1. IDENTIFY: What basketball action/skill is being performed?
2. TECHNIQUE: Analyze the form, posture, and execution
3. IMPROVEMENT: What specific improvements can be made?
4. ENCOURAGEMENT: Provide motivational coaching advice

Focus on:
- Shooting form (if applicable)
- Footwork and balance
- Body positioning
- Ball handling technique
- Defensive stance
- Court awareness

Respond in this exact JSON format:
{
    "action": "Brief description of the basketball action",
    "feedback": "Detailed coaching feedback with specific improvements",
    "timestamp": %v,
    "commentary_type": "technical"
}

Keep feedback professional, constructive, and actionable.`

// BuildPrompt renders the coaching prompt for the frame at position index (0-based) of count.
func BuildPrompt(index, count int, timestamp, duration float64) string {
	return fmt.Sprintf(promptTemplate, index+1, count, timestamp, duration, timestamp)
}
