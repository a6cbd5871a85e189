package models

import "time"

// TamperScores is the canonical per-frame scoring record. Every field is a
// severity in [0,100]: 0 means no evidence of the condition, 100 means the
// strongest response the detector reports.
type TamperScores struct {
	BlurScore     float64 `json:"blur_score"`
	BlackoutScore float64 `json:"blackout_score"`
	FlashScore    float64 `json:"flash_score"`
	SmearScore    float64 `json:"smear_score"`
}

// SmearResult carries the lens-obstruction severity for smear-only analysis
type SmearResult struct {
	SmearScore float64 `json:"smear_score"`
}

// SceneChange reports how much the current frame differs from the previous one.
// MeanAbsDiff is the raw per-pixel average difference the score derives from;
// it is 0 when no previous frame was supplied.
type SceneChange struct {
	SceneChangeScore float64 `json:"scene_change_score"`
	MeanAbsDiff      float64 `json:"mean_abs_diff"`
}

// FrameMetrics holds the intermediate measurements behind the scores.
// DarkPct, MidPct and BrightPct split the intensity range at 85 and 170;
// percentages are 0-100 and sum to 100 for any non-empty frame.
type FrameMetrics struct {
	LaplacianVar  float64 `json:"laplacian_variance"`
	MeanIntensity float64 `json:"mean_intensity"`
	StdDev        float64 `json:"intensity_std_dev"`
	EdgeDensity   float64 `json:"edge_density"`
	DarkPct       float64 `json:"dark_pct"`
	MidPct        float64 `json:"mid_pct"`
	BrightPct     float64 `json:"bright_pct"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
}

// ScoreRecord is the archived result of one completed detection
type ScoreRecord struct {
	ID                string       `json:"id"`
	CameraID          string       `json:"camera_id,omitempty"`
	FrameURL          string       `json:"frame_url"`
	Timestamp         time.Time    `json:"timestamp"`
	Scores            TamperScores `json:"scores"`
	Metrics           FrameMetrics `json:"metrics"`
	ProcessingTimeSec float64      `json:"processing_time_sec"`
}

// FrameMetadata describes a fetched frame before scoring
type FrameMetadata struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
}
