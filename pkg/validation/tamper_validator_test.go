package validation

import (
	"testing"

	"go-tamper-inspector/pkg/models"
)

func TestNewTamperValidator(t *testing.T) {
	validator := NewTamperValidator()
	if validator == nil {
		t.Fatal("Expected non-nil tamper validator")
	}

	// Check default thresholds are set
	expected := DefaultTamperThresholds().BlurAlarm
	if validator.thresholds.BlurAlarm != expected {
		t.Errorf("Expected BlurAlarm to be %f, got %f", expected, validator.thresholds.BlurAlarm)
	}
}

func TestNewTamperValidatorWithThresholds(t *testing.T) {
	customThresholds := TamperThresholds{
		BlurAlarm:     90.0,
		BlackoutAlarm: 95.0,
	}

	validator := NewTamperValidatorWithThresholds(customThresholds)
	if validator.thresholds.BlurAlarm != 90.0 {
		t.Errorf("Expected custom BlurAlarm to be 90.0, got %f", validator.thresholds.BlurAlarm)
	}
}

func TestEvaluate_CleanFrame(t *testing.T) {
	validator := NewTamperValidator()

	scores := models.TamperScores{
		BlurScore:     20.0,
		BlackoutScore: 0.0,
		FlashScore:    5.0,
		SmearScore:    15.0,
	}

	issues := validator.Evaluate(scores)

	if len(issues) > 0 {
		t.Errorf("Expected no issues for a clean frame, got: %v", issues)
	}
}

func TestEvaluate_Blur(t *testing.T) {
	validator := NewTamperValidator()

	scores := models.TamperScores{BlurScore: 65.0}

	issues := validator.Evaluate(scores)

	hasBlurIssue := false
	for _, issue := range issues {
		if issue.Type == "blur" {
			hasBlurIssue = true
			if issue.Severity != "warning" {
				t.Errorf("Expected blur at 65 to be warning severity, got %s", issue.Severity)
			}
			if issue.ActualValue != 65.0 {
				t.Errorf("Expected actual value to be 65.0, got %f", issue.ActualValue)
			}
			if issue.Threshold != 60.0 {
				t.Errorf("Expected threshold to be 60.0, got %f", issue.Threshold)
			}
			break
		}
	}

	if !hasBlurIssue {
		t.Error("Expected blur issue for out-of-focus frame")
	}
}

func TestEvaluate_SeverityEscalation(t *testing.T) {
	validator := NewTamperValidator()

	tests := []struct {
		name     string
		scores   models.TamperScores
		issue    string
		severity string
	}{
		{"BlurWarning", models.TamperScores{BlurScore: 60.0}, "blur", "warning"},
		{"BlurJustBelowError", models.TamperScores{BlurScore: 79.9}, "blur", "warning"},
		{"BlurError", models.TamperScores{BlurScore: 80.0}, "blur", "error"},
		{"BlackoutWarning", models.TamperScores{BlackoutScore: 70.0}, "blackout", "warning"},
		{"BlackoutError", models.TamperScores{BlackoutScore: 95.0}, "blackout", "error"},
		{"FlashError", models.TamperScores{FlashScore: 100.0}, "flash", "error"},
		{"SmearWarning", models.TamperScores{SmearScore: 55.0}, "smear", "warning"},
		{"SmearError", models.TamperScores{SmearScore: 70.0}, "smear", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validator.Evaluate(tt.scores)
			if len(issues) != 1 {
				t.Fatalf("Expected exactly 1 issue, got %d", len(issues))
			}
			if issues[0].Type != tt.issue {
				t.Errorf("Expected issue type %q, got %q", tt.issue, issues[0].Type)
			}
			if issues[0].Severity != tt.severity {
				t.Errorf("Expected severity %q, got %q", tt.severity, issues[0].Severity)
			}
		})
	}
}

func TestEvaluate_ScoreBelowAlarm(t *testing.T) {
	validator := NewTamperValidator()

	scores := models.TamperScores{
		BlurScore:     59.9,
		BlackoutScore: 69.9,
		FlashScore:    59.9,
		SmearScore:    49.9,
	}

	if issues := validator.Evaluate(scores); len(issues) != 0 {
		t.Errorf("Expected no issues just below alarm levels, got: %v", issues)
	}
}

func TestEvaluate_MultipleIssues(t *testing.T) {
	validator := NewTamperValidator()

	// A covered lens typically scores high on blur, blackout and smear at once
	scores := models.TamperScores{
		BlurScore:     100.0,
		BlackoutScore: 100.0,
		FlashScore:    0.0,
		SmearScore:    100.0,
	}

	issues := validator.Evaluate(scores)

	if len(issues) != 3 {
		t.Fatalf("Expected 3 issues for a covered lens, got %d", len(issues))
	}
	for _, issue := range issues {
		if issue.Severity != "error" {
			t.Errorf("Expected error severity for %s at 100, got %s", issue.Type, issue.Severity)
		}
	}
}

func TestEvaluateSceneChange(t *testing.T) {
	validator := NewTamperValidator()

	t.Run("BelowAlarm", func(t *testing.T) {
		change := models.SceneChange{SceneChangeScore: 30.0, MeanAbsDiff: 15.0}
		if issues := validator.EvaluateSceneChange(change); len(issues) != 0 {
			t.Errorf("Expected no issues below alarm, got: %v", issues)
		}
	})

	t.Run("Warning", func(t *testing.T) {
		change := models.SceneChange{SceneChangeScore: 45.0, MeanAbsDiff: 22.5}
		issues := validator.EvaluateSceneChange(change)
		if len(issues) != 1 {
			t.Fatalf("Expected 1 issue, got %d", len(issues))
		}
		if issues[0].Type != "scene_change" || issues[0].Severity != "warning" {
			t.Errorf("Unexpected issue: %+v", issues[0])
		}
	})

	t.Run("Error", func(t *testing.T) {
		change := models.SceneChange{SceneChangeScore: 80.0, MeanAbsDiff: 40.0}
		issues := validator.EvaluateSceneChange(change)
		if len(issues) != 1 {
			t.Fatalf("Expected 1 issue, got %d", len(issues))
		}
		if issues[0].Severity != "error" {
			t.Errorf("Expected error severity at 80, got %s", issues[0].Severity)
		}
	})
}

func TestConvertIssuesToMessages(t *testing.T) {
	validator := NewTamperValidator()

	issues := []TamperIssue{
		{Type: "blur", Message: "Frame is out of focus", Severity: "error"},
		{Type: "smear", Message: "Lens appears obstructed", Severity: "warning"},
	}

	messages := validator.ConvertIssuesToMessages(issues)

	expectedMessages := []string{
		"Frame is out of focus",
		"Lens appears obstructed",
	}

	if len(messages) != len(expectedMessages) {
		t.Errorf("Expected %d messages, got %d", len(expectedMessages), len(messages))
	}

	for i, expected := range expectedMessages {
		if messages[i] != expected {
			t.Errorf("Expected message '%s', got '%s'", expected, messages[i])
		}
	}
}

func TestHasCriticalIssues(t *testing.T) {
	validator := NewTamperValidator()

	criticalIssues := []TamperIssue{
		{Type: "blackout", Message: "Frame is dark", Severity: "error"},
		{Type: "smear", Message: "Lens appears obstructed", Severity: "warning"},
	}

	if !validator.HasCriticalIssues(criticalIssues) {
		t.Error("Expected to have critical issues when error severity present")
	}

	nonCriticalIssues := []TamperIssue{
		{Type: "smear", Message: "Lens appears obstructed", Severity: "warning"},
	}

	if validator.HasCriticalIssues(nonCriticalIssues) {
		t.Error("Expected no critical issues when only warnings present")
	}
}

func TestDefaultTamperThresholds(t *testing.T) {
	thresholds := DefaultTamperThresholds()

	if thresholds.BlurAlarm != 60.0 {
		t.Errorf("Expected BlurAlarm to be 60.0, got %f", thresholds.BlurAlarm)
	}
	if thresholds.BlackoutAlarm != 70.0 {
		t.Errorf("Expected BlackoutAlarm to be 70.0, got %f", thresholds.BlackoutAlarm)
	}
	if thresholds.FlashAlarm != 60.0 {
		t.Errorf("Expected FlashAlarm to be 60.0, got %f", thresholds.FlashAlarm)
	}
	if thresholds.SmearAlarm != 50.0 {
		t.Errorf("Expected SmearAlarm to be 50.0, got %f", thresholds.SmearAlarm)
	}
	if thresholds.SceneChangeAlarm != 40.0 {
		t.Errorf("Expected SceneChangeAlarm to be 40.0, got %f", thresholds.SceneChangeAlarm)
	}
}
