package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-tamper-inspector/internal/config"
	apperrors "go-tamper-inspector/internal/errors"
	"go-tamper-inspector/internal/observer"
	"go-tamper-inspector/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubDetectionService returns canned responses and records requests
type stubDetectionService struct {
	detectResponse *models.DetectionResponse
	sceneResponse  *models.SceneChangeResponse
	smearResponse  *models.SmearResponse
	report         *models.DetailedReport
	history        *models.HistoryResponse
	err            error

	lastDetect  *models.DetectRequest
	lastScene   *models.SceneChangeRequest
	lastCamera  string
	lastLimit   int
	detectCalls int
}

func (s *stubDetectionService) DetectTamper(ctx context.Context, request models.DetectRequest) (*models.DetectionResponse, error) {
	s.detectCalls++
	s.lastDetect = &request
	return s.detectResponse, s.err
}

func (s *stubDetectionService) DetectSceneChange(ctx context.Context, request models.SceneChangeRequest) (*models.SceneChangeResponse, error) {
	s.lastScene = &request
	return s.sceneResponse, s.err
}

func (s *stubDetectionService) DetectSmear(ctx context.Context, request models.DetectRequest) (*models.SmearResponse, error) {
	return s.smearResponse, s.err
}

func (s *stubDetectionService) BuildReport(ctx context.Context, request models.ReportRequest) (*models.DetailedReport, error) {
	return s.report, s.err
}

func (s *stubDetectionService) History(ctx context.Context, cameraID string, limit int) (*models.HistoryResponse, error) {
	s.lastCamera = cameraID
	s.lastLimit = limit
	return s.history, s.err
}

func (s *stubDetectionService) ValidateFrameURL(frameURL string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               8080,
		RequestTimeout:     5 * time.Second,
		FrameFetchTimeout:  5 * time.Second,
		AnalysisTimeout:    5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
}

func newTestHandler(stub *stubDetectionService, counters *observer.CounterObserver) http.Handler {
	return NewHandler(stub, counters, testConfig())
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func getPath(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&stubDetectionService{}, nil)

	recorder := getPath(t, handler, "/health")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid health body: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("Expected status available, got %q", body["status"])
	}
	if body["version"] == "" || body["time"] == "" {
		t.Errorf("Expected version and time in health body, got %v", body)
	}
}

func TestDetectEndpoint(t *testing.T) {
	stub := &stubDetectionService{
		detectResponse: &models.DetectionResponse{
			AnalysisID: "a-1",
			FrameURL:   "http://cams.example.com/frame.jpg",
			Scores: models.TamperScores{
				BlurScore:     100,
				SmearScore:    100,
				BlackoutScore: 0,
				FlashScore:    0,
			},
			Issues: []string{"Frame is out of focus. Check the lens for defocusing or displacement."},
		},
	}
	handler := newTestHandler(stub, nil)

	recorder := postJSON(t, handler, "/v1/detect",
		`{"frame_url": "http://cams.example.com/frame.jpg", "camera_id": "cam-01"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if stub.lastDetect == nil {
		t.Fatal("Service was not called")
	}
	if stub.lastDetect.FrameURL != "http://cams.example.com/frame.jpg" ||
		stub.lastDetect.CameraID != "cam-01" {
		t.Errorf("Request not passed through: %+v", stub.lastDetect)
	}

	var response models.DetectionResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if response.AnalysisID != "a-1" || response.Scores.BlurScore != 100 {
		t.Errorf("Unexpected response: %+v", response)
	}
	if len(response.Issues) != 1 {
		t.Errorf("Expected 1 issue, got %v", response.Issues)
	}
}

func TestDetectEndpoint_RejectsMalformedRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"InvalidJSON", `{not json`},
		{"MissingFrameURL", `{"camera_id": "cam-01"}`},
		{"NotAURL", `{"frame_url": "not a url"}`},
		{"EmptyBody", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubDetectionService{}
			handler := newTestHandler(stub, nil)

			recorder := postJSON(t, handler, "/v1/detect", tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", recorder.Code)
			}
			if stub.detectCalls != 0 {
				t.Error("Malformed request must not reach the service")
			}

			var body models.ErrorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid error body: %v", err)
			}
			if body.Error != "validation" {
				t.Errorf("Expected validation error type, got %q", body.Error)
			}
		})
	}
}

func TestDetectEndpoint_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "NetworkError",
			err:        apperrors.NewNetworkError("failed to fetch frame", nil),
			wantStatus: http.StatusBadGateway,
			wantType:   "network",
		},
		{
			name:       "UndecodableFrame",
			err:        apperrors.NewInvalidInputError("frame data is not a decodable image", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "invalid_input",
		},
		{
			name:       "Timeout",
			err:        apperrors.NewTimeoutError("frame fetch timed out", nil),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   "timeout",
		},
		{
			name:       "PlainError",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubDetectionService{err: tt.err}
			handler := newTestHandler(stub, nil)

			recorder := postJSON(t, handler, "/v1/detect",
				`{"frame_url": "http://cams.example.com/frame.jpg"}`)
			if recorder.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, recorder.Code)
			}

			var body models.ErrorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid error body: %v", err)
			}
			if body.Error != tt.wantType {
				t.Errorf("Expected error type %q, got %q", tt.wantType, body.Error)
			}
		})
	}
}

func TestSceneChangeEndpoint(t *testing.T) {
	stub := &stubDetectionService{
		sceneResponse: &models.SceneChangeResponse{
			AnalysisID:  "a-2",
			SceneChange: models.SceneChange{SceneChangeScore: 80, MeanAbsDiff: 40},
		},
	}
	handler := newTestHandler(stub, nil)

	recorder := postJSON(t, handler, "/v1/scene-change",
		`{"current_url": "http://cams.example.com/t1.jpg", "previous_url": "http://cams.example.com/t0.jpg"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if stub.lastScene == nil || stub.lastScene.PreviousURL != "http://cams.example.com/t0.jpg" {
		t.Errorf("Request not passed through: %+v", stub.lastScene)
	}

	var response models.SceneChangeResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if response.SceneChange.SceneChangeScore != 80 {
		t.Errorf("Unexpected scene change: %+v", response.SceneChange)
	}
}

func TestSceneChangeEndpoint_PreviousOptional(t *testing.T) {
	stub := &stubDetectionService{
		sceneResponse: &models.SceneChangeResponse{AnalysisID: "a-3"},
	}
	handler := newTestHandler(stub, nil)

	recorder := postJSON(t, handler, "/v1/scene-change",
		`{"current_url": "http://cams.example.com/t1.jpg"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200 without previous_url, got %d", recorder.Code)
	}

	recorder = postJSON(t, handler, "/v1/scene-change", `{"previous_url": "http://cams.example.com/t0.jpg"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without current_url, got %d", recorder.Code)
	}
}

func TestSmearEndpoint(t *testing.T) {
	stub := &stubDetectionService{
		smearResponse: &models.SmearResponse{
			AnalysisID: "a-4",
			Smear:      models.SmearResult{SmearScore: 73.5},
		},
	}
	handler := newTestHandler(stub, nil)

	recorder := postJSON(t, handler, "/v1/smear",
		`{"frame_url": "http://cams.example.com/frame.jpg"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var response models.SmearResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if response.Smear.SmearScore != 73.5 {
		t.Errorf("Unexpected smear score: %f", response.Smear.SmearScore)
	}
}

func TestReportEndpoint(t *testing.T) {
	stub := &stubDetectionService{
		report: &models.DetailedReport{
			AnalysisID: "a-5",
			Assessment: models.OverallAssessment{SeverityGrade: "critical", TamperLikelihood: 100},
		},
	}
	handler := newTestHandler(stub, nil)

	recorder := postJSON(t, handler, "/v1/report",
		`{"frame_url": "http://cams.example.com/frame.jpg"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var report models.DetailedReport
	if err := json.Unmarshal(recorder.Body.Bytes(), &report); err != nil {
		t.Fatalf("Invalid report body: %v", err)
	}
	if report.Assessment.SeverityGrade != "critical" {
		t.Errorf("Unexpected assessment: %+v", report.Assessment)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	t.Run("PassesQueryParameters", func(t *testing.T) {
		stub := &stubDetectionService{
			history: &models.HistoryResponse{CameraID: "cam-01", Count: 1,
				Records: []models.ScoreRecord{{ID: "r-1", CameraID: "cam-01"}}},
		}
		handler := newTestHandler(stub, nil)

		recorder := getPath(t, handler, "/v1/history?camera_id=cam-01&limit=5")
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", recorder.Code)
		}
		if stub.lastCamera != "cam-01" || stub.lastLimit != 5 {
			t.Errorf("Query not passed through: camera=%q limit=%d", stub.lastCamera, stub.lastLimit)
		}
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		stub := &stubDetectionService{history: &models.HistoryResponse{}}
		handler := newTestHandler(stub, nil)

		if recorder := getPath(t, handler, "/v1/history"); recorder.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", recorder.Code)
		}
		if stub.lastLimit != 50 {
			t.Errorf("Expected default limit 50, got %d", stub.lastLimit)
		}
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		for _, limit := range []string{"abc", "0", "-3"} {
			stub := &stubDetectionService{history: &models.HistoryResponse{}}
			handler := newTestHandler(stub, nil)

			recorder := getPath(t, handler, "/v1/history?limit="+limit)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected 400 for limit %q, got %d", limit, recorder.Code)
			}
		}
	})

	t.Run("ArchivingDisabled", func(t *testing.T) {
		stub := &stubDetectionService{err: apperrors.NewNotFoundError("archiving is disabled", nil)}
		handler := newTestHandler(stub, nil)

		recorder := getPath(t, handler, "/v1/history")
		if recorder.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", recorder.Code)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	counters := observer.NewCounterObserver()
	handler := newTestHandler(&stubDetectionService{}, counters)

	recorder := getPath(t, handler, "/v1/stats")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var stats models.StatsResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Invalid stats body: %v", err)
	}
	if stats.DetectionsCompleted != 0 || stats.FramesFetched != 0 {
		t.Errorf("Expected zeroed counters, got %+v", stats)
	}
}

func TestRequestBodySizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequestBodySize = 64
	stub := &stubDetectionService{}
	handler := NewHandler(stub, nil, cfg)

	oversized := `{"frame_url": "http://cams.example.com/` +
		strings.Repeat("x", 256) + `.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/detect", bytes.NewReader([]byte(oversized)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an oversized body, got %d", recorder.Code)
	}
	if stub.detectCalls != 0 {
		t.Error("Oversized request must not reach the service")
	}
}
