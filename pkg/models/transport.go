package models

// DetectRequest asks for the full tamper scoring of one frame
type DetectRequest struct {
	FrameURL string `json:"frame_url" binding:"required,url"`
	CameraID string `json:"camera_id,omitempty"`
}

// SceneChangeRequest asks for a comparison between two consecutive frames.
// PreviousURL may be empty; the comparison then scores 0 without fetching.
type SceneChangeRequest struct {
	CurrentURL  string `json:"current_url" binding:"required,url"`
	PreviousURL string `json:"previous_url,omitempty"`
	CameraID    string `json:"camera_id,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DetectionResponse is the result of a full tamper detection
type DetectionResponse struct {
	AnalysisID        string       `json:"analysis_id"`
	CameraID          string       `json:"camera_id,omitempty"`
	FrameURL          string       `json:"frame_url"`
	Timestamp         string       `json:"timestamp"`
	ProcessingTimeSec float64      `json:"processing_time_sec"`
	Scores            TamperScores `json:"scores"`
	Metrics           FrameMetrics `json:"metrics"`
	Issues            []string     `json:"issues,omitempty"`
}

// SceneChangeResponse is the result of a frame-pair comparison
type SceneChangeResponse struct {
	AnalysisID        string      `json:"analysis_id"`
	CameraID          string      `json:"camera_id,omitempty"`
	CurrentURL        string      `json:"current_url"`
	PreviousURL       string      `json:"previous_url,omitempty"`
	Timestamp         string      `json:"timestamp"`
	ProcessingTimeSec float64     `json:"processing_time_sec"`
	SceneChange       SceneChange `json:"scene_change"`
	Issues            []string    `json:"issues,omitempty"`
}

// SmearResponse is the result of smear-only analysis
type SmearResponse struct {
	AnalysisID        string       `json:"analysis_id"`
	CameraID          string       `json:"camera_id,omitempty"`
	FrameURL          string       `json:"frame_url"`
	Timestamp         string       `json:"timestamp"`
	ProcessingTimeSec float64      `json:"processing_time_sec"`
	Smear             SmearResult  `json:"smear"`
	Metrics           FrameMetrics `json:"metrics"`
	Issues            []string     `json:"issues,omitempty"`
}

// HistoryResponse lists archived score records for one camera
type HistoryResponse struct {
	CameraID string        `json:"camera_id"`
	Count    int           `json:"count"`
	Records  []ScoreRecord `json:"records"`
}

// StatsResponse exposes the service counters
type StatsResponse struct {
	DetectionsCompleted uint64 `json:"detections_completed"`
	DetectionsFailed    uint64 `json:"detections_failed"`
	FramesFetched       uint64 `json:"frames_fetched"`
	FrameFetchFailures  uint64 `json:"frame_fetch_failures"`
}
