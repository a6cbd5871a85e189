package models

// DetailedReport is the comprehensive diagnostic for one frame: every raw
// measurement, the smear composite broken into its terms, the alarm thresholds
// that were applied and the per-signal check results
type DetailedReport struct {
	AnalysisID        string  `json:"analysis_id"`
	FrameURL          string  `json:"frame_url"`
	CameraID          string  `json:"camera_id,omitempty"`
	Timestamp         string  `json:"timestamp"`
	ProcessingTimeSec float64 `json:"processing_time_sec"`

	FrameMetadata FrameMetadata `json:"frame_metadata"`

	Scores TamperScores `json:"scores"`

	RawMetrics RawMetrics `json:"raw_metrics"`

	SmearBreakdown SmearBreakdown `json:"smear_breakdown"`

	Thresholds AppliedThresholds `json:"applied_thresholds"`

	Checks []CheckResult `json:"checks"`

	Assessment OverallAssessment `json:"overall_assessment"`

	Warnings []string `json:"warnings,omitempty"`
}

// RawMetrics contains all calculated raw values behind the scores
type RawMetrics struct {
	LaplacianVariance float64 `json:"laplacian_variance"`
	MeanIntensity     float64 `json:"mean_intensity"`
	IntensityStdDev   float64 `json:"intensity_std_dev"`
	EdgeDensity       float64 `json:"edge_density"`

	// Intensity thirds, split at 85 and 170
	DarkPct   float64 `json:"dark_pct"`
	MidPct    float64 `json:"mid_pct"`
	BrightPct float64 `json:"bright_pct"`

	// Formula-specific bands
	DeepDarkPct  float64 `json:"deep_dark_pct"`  // pixels in [0,74]
	HighlightPct float64 `json:"highlight_pct"` // pixels in [200,255]

	DynamicRange          float64     `json:"dynamic_range"`
	IntensityDistribution [10]float64 `json:"intensity_distribution"` // histogram deciles

	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TotalPixels int     `json:"total_pixels"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// SmearBreakdown exposes the terms of the smear composite
type SmearBreakdown struct {
	BlurScore        float64 `json:"blur_score"`
	ContrastScore    float64 `json:"contrast_score"`
	EdgeScore        float64 `json:"edge_score"`
	BaseScore        float64 `json:"base_score"`
	BrightnessFactor float64 `json:"brightness_factor"`
	DarkThreshold    float64 `json:"dark_threshold"`
	BrightThreshold  float64 `json:"bright_threshold"`
	MidThreshold     float64 `json:"mid_threshold"`
	IntensityScore   float64 `json:"intensity_score"`
	CombinedScore    float64 `json:"combined_score"`
	SmearScore       float64 `json:"smear_score"`
}

// AppliedThresholds shows the alarm thresholds used for the checks
type AppliedThresholds struct {
	BlurAlarm        float64 `json:"blur_alarm"`
	BlackoutAlarm    float64 `json:"blackout_alarm"`
	FlashAlarm       float64 `json:"flash_alarm"`
	SmearAlarm       float64 `json:"smear_alarm"`
	SceneChangeAlarm float64 `json:"scene_change_alarm"`
}

// CheckResult represents the outcome of one per-signal check
type CheckResult struct {
	CheckName      string  `json:"check_name"`
	Passed         bool    `json:"passed"`
	Severity       string  `json:"severity"` // "error", "warning", "info"
	ActualValue    float64 `json:"actual_value"`
	ThresholdValue float64 `json:"threshold_value"`
	Message        string  `json:"message"`
}

// OverallAssessment provides the high-level verdict for the frame
type OverallAssessment struct {
	SeverityGrade      string   `json:"severity_grade"` // "clear", "suspect", "critical"
	TamperLikelihood   float64  `json:"tamper_likelihood"` // 0-100
	DominantSignal     string   `json:"dominant_signal,omitempty"`
	RecommendedActions []string `json:"recommended_actions,omitempty"`
}

// ReportRequest asks for a detailed diagnostic report of one frame
type ReportRequest struct {
	FrameURL string `json:"frame_url" binding:"required,url"`
	CameraID string `json:"camera_id,omitempty"`
}
