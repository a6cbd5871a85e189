package validation

import (
	"fmt"

	"go-tamper-inspector/pkg/models"
)

// TamperThresholds defines the alarm levels applied to tamper scores.
// Scores are severities in [0,100]; a score at or above its alarm level
// raises a warning, and 20 points above the alarm raises an error.
type TamperThresholds struct {
	BlurAlarm        float64
	BlackoutAlarm    float64
	FlashAlarm       float64
	SmearAlarm       float64
	SceneChangeAlarm float64
}

// DefaultTamperThresholds returns the default alarm levels
func DefaultTamperThresholds() TamperThresholds {
	return TamperThresholds{
		BlurAlarm:        60.0,
		BlackoutAlarm:    70.0,
		FlashAlarm:       60.0,
		SmearAlarm:       50.0,
		SceneChangeAlarm: 40.0,
	}
}

// TamperValidator turns raw tamper scores into operator-facing alarms.
// The thresholds are service policy only; scoring itself always reports
// the full severity range.
type TamperValidator struct {
	thresholds TamperThresholds
}

// NewTamperValidator creates a tamper validator with default alarm levels
func NewTamperValidator() *TamperValidator {
	return &TamperValidator{
		thresholds: DefaultTamperThresholds(),
	}
}

// NewTamperValidatorWithThresholds creates a tamper validator with custom alarm levels
func NewTamperValidatorWithThresholds(thresholds TamperThresholds) *TamperValidator {
	return &TamperValidator{
		thresholds: thresholds,
	}
}

// Thresholds returns the alarm levels this validator applies
func (tv *TamperValidator) Thresholds() TamperThresholds {
	return tv.thresholds
}

// TamperIssue represents one raised alarm
type TamperIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning"
	ActualValue float64 `json:"actual_value"`
	Threshold   float64 `json:"threshold"`
}

// Evaluate checks a frame's scores against the alarm levels
func (tv *TamperValidator) Evaluate(scores models.TamperScores) []TamperIssue {
	var issues []TamperIssue

	if scores.BlurScore >= tv.thresholds.BlurAlarm {
		issues = append(issues, TamperIssue{
			Type:        "blur",
			Message:     "Frame is out of focus. Check the lens for defocusing or displacement.",
			Severity:    severityFor(scores.BlurScore, tv.thresholds.BlurAlarm),
			ActualValue: scores.BlurScore,
			Threshold:   tv.thresholds.BlurAlarm,
		})
	}

	if scores.BlackoutScore >= tv.thresholds.BlackoutAlarm {
		issues = append(issues, TamperIssue{
			Type:        "blackout",
			Message:     "Frame is dark. The camera may be covered or its view obstructed.",
			Severity:    severityFor(scores.BlackoutScore, tv.thresholds.BlackoutAlarm),
			ActualValue: scores.BlackoutScore,
			Threshold:   tv.thresholds.BlackoutAlarm,
		})
	}

	if scores.FlashScore >= tv.thresholds.FlashAlarm {
		issues = append(issues, TamperIssue{
			Type:        "flash",
			Message:     "Frame is saturated with light. The camera may be blinded by a lamp or laser.",
			Severity:    severityFor(scores.FlashScore, tv.thresholds.FlashAlarm),
			ActualValue: scores.FlashScore,
			Threshold:   tv.thresholds.FlashAlarm,
		})
	}

	if scores.SmearScore >= tv.thresholds.SmearAlarm {
		issues = append(issues, TamperIssue{
			Type:        "smear",
			Message:     "Lens appears obstructed. Check for spray, grease or fabric over the lens.",
			Severity:    severityFor(scores.SmearScore, tv.thresholds.SmearAlarm),
			ActualValue: scores.SmearScore,
			Threshold:   tv.thresholds.SmearAlarm,
		})
	}

	return issues
}

// EvaluateSceneChange checks a scene change score against its alarm level
func (tv *TamperValidator) EvaluateSceneChange(change models.SceneChange) []TamperIssue {
	var issues []TamperIssue

	if change.SceneChangeScore >= tv.thresholds.SceneChangeAlarm {
		issues = append(issues, TamperIssue{
			Type: "scene_change",
			Message: fmt.Sprintf("View changed substantially since the previous frame (mean pixel difference %.1f). The camera may have been moved.",
				change.MeanAbsDiff),
			Severity:    severityFor(change.SceneChangeScore, tv.thresholds.SceneChangeAlarm),
			ActualValue: change.SceneChangeScore,
			Threshold:   tv.thresholds.SceneChangeAlarm,
		})
	}

	return issues
}

// ConvertIssuesToMessages flattens issues to plain messages for responses
func (tv *TamperValidator) ConvertIssuesToMessages(issues []TamperIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasCriticalIssues checks if there are any critical (error severity) issues
func (tv *TamperValidator) HasCriticalIssues(issues []TamperIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}

// severityFor grades a score that already reached its alarm level
func severityFor(score, alarm float64) string {
	if score >= alarm+20 {
		return "error"
	}
	return "warning"
}
