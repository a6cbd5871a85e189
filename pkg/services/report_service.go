package services

import (
	"image"

	"go-tamper-inspector/internal/analyzer"
	"go-tamper-inspector/pkg/models"
	"go-tamper-inspector/pkg/validation"
)

// ReportBuilder assembles the detailed diagnostic report for one frame. It
// recomputes every score from the raster through the same formulas the
// detection path uses, so the report always explains the published numbers.
type ReportBuilder struct {
	calculator analyzer.MetricsCalculator
	validator  *validation.TamperValidator
}

// NewReportBuilder creates a report builder with default alarm levels
func NewReportBuilder() *ReportBuilder {
	return NewReportBuilderWithValidator(validation.NewTamperValidator())
}

// NewReportBuilderWithValidator creates a report builder that grades checks
// against the given validator's alarm levels
func NewReportBuilderWithValidator(validator *validation.TamperValidator) *ReportBuilder {
	return &ReportBuilder{
		calculator: analyzer.NewMetricsCalculator(),
		validator:  validator,
	}
}

// Build produces the full diagnostic for one decoded frame. The frame is
// measured at full resolution, matching the default detection path.
func (b *ReportBuilder) Build(img image.Image) (*models.DetailedReport, error) {
	raster, err := analyzer.RasterFromImage(img)
	if err != nil {
		return nil, err
	}

	raw := b.measure(raster)
	breakdown := smearBreakdown(raw)
	scores := models.TamperScores{
		BlurScore:     breakdown.BlurScore,
		BlackoutScore: analyzer.BlackoutScore(raw.MeanIntensity, raw.DeepDarkPct),
		FlashScore:    analyzer.FlashScore(raw.HighlightPct),
		SmearScore:    breakdown.SmearScore,
	}

	report := &models.DetailedReport{
		Scores:         scores,
		RawMetrics:     raw,
		SmearBreakdown: breakdown,
		Thresholds:     b.appliedThresholds(),
		Checks:         b.runChecks(scores),
	}
	report.Assessment = assess(scores, report.Checks)
	return report, nil
}

// measure collects every raw value the report exposes in one pass over the
// raster plus its histogram
func (b *ReportBuilder) measure(raster *analyzer.Raster) models.RawMetrics {
	hist := analyzer.NewIntensityHistogram(raster)

	return models.RawMetrics{
		LaplacianVariance: b.calculator.LaplacianVariance(raster),
		MeanIntensity:     hist.Mean(),
		IntensityStdDev:   hist.StdDev(),
		EdgeDensity:       b.calculator.EdgeDensity(raster),

		DarkPct:   hist.Percent(0, 84),
		MidPct:    hist.Percent(85, 169),
		BrightPct: hist.Percent(170, 255),

		DeepDarkPct:  hist.Percent(0, 74),
		HighlightPct: hist.Percent(200, 255),

		DynamicRange:          float64(hist.MaxIntensity() - hist.MinIntensity()),
		IntensityDistribution: hist.Distribution(),

		Width:       raster.Width,
		Height:      raster.Height,
		TotalPixels: raster.Width * raster.Height,
		AspectRatio: float64(raster.Width) / float64(raster.Height),
	}
}

// smearBreakdown expands the smear composite into its terms. BaseScore and
// CombinedScore repeat the composite's internal weighting so an operator can
// see which term pushed the final score.
func smearBreakdown(raw models.RawMetrics) models.SmearBreakdown {
	blur := analyzer.BlurScore(raw.LaplacianVariance)
	contrast := analyzer.ContrastScore(raw.IntensityStdDev)
	edge := analyzer.EdgeScore(raw.EdgeDensity)
	intensity := analyzer.IntensityDistributionScore(raw.MeanIntensity, raw.DarkPct, raw.MidPct, raw.BrightPct)
	dark, bright, mid := analyzer.IntensityThresholds(raw.MeanIntensity)

	base := blur*0.5 + contrast*0.3 + edge*0.2

	return models.SmearBreakdown{
		BlurScore:        blur,
		ContrastScore:    contrast,
		EdgeScore:        edge,
		BaseScore:        base,
		BrightnessFactor: analyzer.BrightnessFactor(raw.MeanIntensity),
		DarkThreshold:    dark,
		BrightThreshold:  bright,
		MidThreshold:     mid,
		IntensityScore:   intensity,
		CombinedScore:    base + intensity*0.4,
		SmearScore:       analyzer.SmearScore(blur, contrast, edge, intensity),
	}
}

// appliedThresholds reports the alarm levels the checks were graded against
func (b *ReportBuilder) appliedThresholds() models.AppliedThresholds {
	thresholds := b.validator.Thresholds()
	return models.AppliedThresholds{
		BlurAlarm:        thresholds.BlurAlarm,
		BlackoutAlarm:    thresholds.BlackoutAlarm,
		FlashAlarm:       thresholds.FlashAlarm,
		SmearAlarm:       thresholds.SmearAlarm,
		SceneChangeAlarm: thresholds.SceneChangeAlarm,
	}
}

// runChecks grades every signal against its alarm level. A signal below its
// alarm passes with severity "info"; one at or above it carries the
// validator's issue verbatim.
func (b *ReportBuilder) runChecks(scores models.TamperScores) []models.CheckResult {
	issues := b.validator.Evaluate(scores)
	raised := make(map[string]validation.TamperIssue, len(issues))
	for _, issue := range issues {
		raised[issue.Type] = issue
	}

	thresholds := b.validator.Thresholds()
	signals := []struct {
		issueType string
		score     float64
		alarm     float64
		passedMsg string
	}{
		{"blur", scores.BlurScore, thresholds.BlurAlarm, "Frame sharpness is within normal range"},
		{"blackout", scores.BlackoutScore, thresholds.BlackoutAlarm, "Frame brightness is within normal range"},
		{"flash", scores.FlashScore, thresholds.FlashAlarm, "No light saturation detected"},
		{"smear", scores.SmearScore, thresholds.SmearAlarm, "No lens obstruction detected"},
	}

	checks := make([]models.CheckResult, 0, len(signals))
	for _, signal := range signals {
		check := models.CheckResult{
			CheckName:      signal.issueType + "_detection",
			Passed:         true,
			Severity:       "info",
			ActualValue:    signal.score,
			ThresholdValue: signal.alarm,
			Message:        signal.passedMsg,
		}
		if issue, ok := raised[signal.issueType]; ok {
			check.Passed = false
			check.Severity = issue.Severity
			check.Message = issue.Message
		}
		checks = append(checks, check)
	}
	return checks
}

// assess derives the frame verdict from its scores and graded checks. The
// grade escalates with the worst check severity; the likelihood is the
// strongest signal.
func assess(scores models.TamperScores, checks []models.CheckResult) models.OverallAssessment {
	grade := "clear"
	var actions []string
	for _, check := range checks {
		if check.Passed {
			continue
		}
		if grade == "clear" {
			grade = "suspect"
		}
		if check.Severity == "error" {
			grade = "critical"
		}
		if action, ok := recommendedActions[check.CheckName]; ok {
			actions = append(actions, action)
		}
	}

	assessment := models.OverallAssessment{
		SeverityGrade:      grade,
		RecommendedActions: actions,
	}

	signals := []struct {
		name  string
		score float64
	}{
		{"blur", scores.BlurScore},
		{"blackout", scores.BlackoutScore},
		{"flash", scores.FlashScore},
		{"smear", scores.SmearScore},
	}
	for _, signal := range signals {
		if signal.score > assessment.TamperLikelihood {
			assessment.TamperLikelihood = signal.score
			assessment.DominantSignal = signal.name
		}
	}
	return assessment
}

// recommendedActions maps failing checks to operator guidance
var recommendedActions = map[string]string{
	"blur_detection":     "Refocus the camera or check the lens mount",
	"blackout_detection": "Inspect the camera for covering and verify scene lighting",
	"flash_detection":    "Shield the camera from direct light sources",
	"smear_detection":    "Clean the lens surface",
}
