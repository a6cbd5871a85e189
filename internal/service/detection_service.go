package service

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"go-tamper-inspector/internal/analyzer"
	apperrors "go-tamper-inspector/internal/errors"
	"go-tamper-inspector/internal/logger"
	"go-tamper-inspector/internal/observer"
	"go-tamper-inspector/internal/repository"
	"go-tamper-inspector/internal/storage"
	"go-tamper-inspector/internal/strategy"
	"go-tamper-inspector/pkg/models"
	"go-tamper-inspector/pkg/services"
	"go-tamper-inspector/pkg/validation"
)

// timestampFormat is the wall clock format of every response
const timestampFormat = "2006-01-02T15:04:05Z07:00"

// DetectionService defines the tamper scoring operations behind the HTTP API
type DetectionService interface {
	// DetectTamper fetches one frame and scores it for blur, blackout,
	// flash and smear
	DetectTamper(ctx context.Context, request models.DetectRequest) (*models.DetectionResponse, error)

	// DetectSceneChange compares the current frame against the previous
	// one. An absent previous URL scores 0 without any fetch.
	DetectSceneChange(ctx context.Context, request models.SceneChangeRequest) (*models.SceneChangeResponse, error)

	// DetectSmear fetches one frame and scores it for lens obstruction only
	DetectSmear(ctx context.Context, request models.DetectRequest) (*models.SmearResponse, error)

	// BuildReport produces the full diagnostic report for one frame
	BuildReport(ctx context.Context, request models.ReportRequest) (*models.DetailedReport, error)

	// History returns archived score records, newest first
	History(ctx context.Context, cameraID string, limit int) (*models.HistoryResponse, error)

	// ValidateFrameURL checks a frame URL against the service policy
	ValidateFrameURL(frameURL string) error
}

// detectionService implements DetectionService
type detectionService struct {
	frameRepo repository.FrameRepository
	scoreRepo repository.ScoreRepository // nil when archiving is disabled
	analyzer  analyzer.FrameAnalyzer

	fullScan  strategy.DetectionStrategy
	smearOnly strategy.DetectionStrategy

	tamperValidator *validation.TamperValidator
	urlValidator    *validation.URLValidator
	reports         *services.ReportBuilder
	publisher       observer.Subject
}

// NewDetectionService creates a detection service. scoreRepository may be nil;
// detections then run without archiving and History reports not found.
func NewDetectionService(
	frameRepository repository.FrameRepository,
	scoreRepository repository.ScoreRepository,
	frameAnalyzer analyzer.FrameAnalyzer,
	urlValidator *validation.URLValidator,
	publisher observer.Subject,
) DetectionService {
	tamperValidator := validation.NewTamperValidator()
	return &detectionService{
		frameRepo:       frameRepository,
		scoreRepo:       scoreRepository,
		analyzer:        frameAnalyzer,
		fullScan:        strategy.NewFullScanStrategy(frameAnalyzer),
		smearOnly:       strategy.NewSmearOnlyStrategy(frameAnalyzer),
		tamperValidator: tamperValidator,
		urlValidator:    urlValidator,
		reports:         services.NewReportBuilderWithValidator(tamperValidator),
		publisher:       publisher,
	}
}

// DetectTamper runs the full scoring pipeline for one frame
func (s *detectionService) DetectTamper(ctx context.Context, request models.DetectRequest) (*models.DetectionResponse, error) {
	start := time.Now()

	if err := s.ValidateFrameURL(request.FrameURL); err != nil {
		return nil, err
	}

	s.notify(ctx, observer.NewDetectionEvent(observer.DetectionStarted, request.FrameURL, request.CameraID))

	img, _, err := s.fetchFrame(ctx, request.FrameURL, request.CameraID)
	if err != nil {
		s.notifyFailed(ctx, request.FrameURL, request.CameraID, start, err)
		return nil, err
	}

	result, err := s.fullScan.Detect(img)
	if err != nil {
		err = classifyAnalysisError(err)
		s.notifyFailed(ctx, request.FrameURL, request.CameraID, start, err)
		return nil, err
	}

	issues := s.tamperValidator.Evaluate(result.Scores)
	processingTime := time.Since(start)

	response := &models.DetectionResponse{
		AnalysisID:        uuid.New().String(),
		CameraID:          request.CameraID,
		FrameURL:          request.FrameURL,
		Timestamp:         time.Now().Format(timestampFormat),
		ProcessingTimeSec: processingTime.Seconds(),
		Scores:            result.Scores,
		Metrics:           result.Metrics,
		Issues:            s.tamperValidator.ConvertIssuesToMessages(issues),
	}

	s.archiveRecord(ctx, response)

	completed := observer.NewDetectionEvent(observer.DetectionCompleted, request.FrameURL, request.CameraID)
	completed.Duration = processingTime
	completed.Success = true
	completed.Scores = &response.Scores
	s.notify(ctx, completed)

	return response, nil
}

// DetectSceneChange compares two consecutive frames of the same camera
func (s *detectionService) DetectSceneChange(ctx context.Context, request models.SceneChangeRequest) (*models.SceneChangeResponse, error) {
	start := time.Now()

	if err := s.ValidateFrameURL(request.CurrentURL); err != nil {
		return nil, err
	}

	response := &models.SceneChangeResponse{
		AnalysisID:  uuid.New().String(),
		CameraID:    request.CameraID,
		CurrentURL:  request.CurrentURL,
		PreviousURL: request.PreviousURL,
	}

	// Without a previous frame there is nothing to compare; the first frame
	// of a camera scores 0 and no frame is fetched at all
	if request.PreviousURL == "" {
		response.Timestamp = time.Now().Format(timestampFormat)
		response.ProcessingTimeSec = time.Since(start).Seconds()
		response.SceneChange = models.SceneChange{}
		return response, nil
	}

	if err := s.ValidateFrameURL(request.PreviousURL); err != nil {
		return nil, err
	}

	var current, previous image.Image
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		img, _, err := s.fetchFrame(groupCtx, request.CurrentURL, request.CameraID)
		current = img
		return err
	})
	group.Go(func() error {
		img, _, err := s.fetchFrame(groupCtx, request.PreviousURL, request.CameraID)
		previous = img
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	change, err := s.analyzer.CompareFrames(current, previous, analyzer.DefaultOptions())
	if err != nil {
		return nil, classifyAnalysisError(err)
	}

	response.Timestamp = time.Now().Format(timestampFormat)
	response.ProcessingTimeSec = time.Since(start).Seconds()
	response.SceneChange = change
	response.Issues = s.tamperValidator.ConvertIssuesToMessages(
		s.tamperValidator.EvaluateSceneChange(change))

	return response, nil
}

// DetectSmear runs the smear-only pipeline for one frame
func (s *detectionService) DetectSmear(ctx context.Context, request models.DetectRequest) (*models.SmearResponse, error) {
	start := time.Now()

	if err := s.ValidateFrameURL(request.FrameURL); err != nil {
		return nil, err
	}

	img, _, err := s.fetchFrame(ctx, request.FrameURL, request.CameraID)
	if err != nil {
		return nil, err
	}

	result, err := s.smearOnly.Detect(img)
	if err != nil {
		return nil, classifyAnalysisError(err)
	}

	issues := s.tamperValidator.Evaluate(result.Scores)

	return &models.SmearResponse{
		AnalysisID:        uuid.New().String(),
		CameraID:          request.CameraID,
		FrameURL:          request.FrameURL,
		Timestamp:         time.Now().Format(timestampFormat),
		ProcessingTimeSec: time.Since(start).Seconds(),
		Smear:             models.SmearResult{SmearScore: result.Scores.SmearScore},
		Metrics:           result.Metrics,
		Issues:            s.tamperValidator.ConvertIssuesToMessages(issues),
	}, nil
}

// BuildReport produces the full diagnostic report for one frame
func (s *detectionService) BuildReport(ctx context.Context, request models.ReportRequest) (*models.DetailedReport, error) {
	start := time.Now()

	if err := s.ValidateFrameURL(request.FrameURL); err != nil {
		return nil, err
	}

	img, metadata, err := s.fetchFrame(ctx, request.FrameURL, request.CameraID)
	if err != nil {
		return nil, err
	}

	report, err := s.reports.Build(img)
	if err != nil {
		return nil, classifyAnalysisError(err)
	}

	report.AnalysisID = uuid.New().String()
	report.FrameURL = request.FrameURL
	report.CameraID = request.CameraID
	report.Timestamp = time.Now().Format(timestampFormat)
	report.ProcessingTimeSec = time.Since(start).Seconds()
	if metadata != nil {
		report.FrameMetadata = *metadata
	}

	return report, nil
}

// History returns archived score records for one camera, newest first.
// An empty camera ID returns records across all cameras.
func (s *detectionService) History(ctx context.Context, cameraID string, limit int) (*models.HistoryResponse, error) {
	if s.scoreRepo == nil {
		return nil, apperrors.NewNotFoundError("archiving is disabled", nil)
	}

	records, err := s.scoreRepo.ListByCamera(ctx, cameraID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read score history", err)
	}

	response := &models.HistoryResponse{
		CameraID: cameraID,
		Count:    len(records),
		Records:  make([]models.ScoreRecord, 0, len(records)),
	}
	for _, record := range records {
		response.Records = append(response.Records, *record)
	}
	return response, nil
}

// ValidateFrameURL checks a frame URL against the service policy
func (s *detectionService) ValidateFrameURL(frameURL string) error {
	return s.urlValidator.ValidateFrameURL(frameURL)
}

// fetchFrame retrieves one frame through the repository, classifies failures
// and publishes the fetch lifecycle events
func (s *detectionService) fetchFrame(ctx context.Context, frameURL, cameraID string) (image.Image, *models.FrameMetadata, error) {
	img, metadata, err := s.frameRepo.FetchFrame(ctx, frameURL)
	if err != nil {
		failed := observer.NewDetectionEvent(observer.FrameFetchFailed, frameURL, cameraID)
		failed.ErrorMessage = err.Error()
		s.notify(ctx, failed)
		return nil, nil, classifyFetchError(err)
	}

	fetched := observer.NewDetectionEvent(observer.FrameFetched, frameURL, cameraID)
	fetched.Success = true
	s.notify(ctx, fetched)
	return img, metadata, nil
}

// archiveRecord persists a completed detection. Archiving is best effort;
// a storage failure is logged and never fails the detection.
func (s *detectionService) archiveRecord(ctx context.Context, response *models.DetectionResponse) {
	if s.scoreRepo == nil {
		return
	}

	record := &models.ScoreRecord{
		ID:                response.AnalysisID,
		CameraID:          response.CameraID,
		FrameURL:          response.FrameURL,
		Timestamp:         time.Now().UTC(),
		Scores:            response.Scores,
		Metrics:           response.Metrics,
		ProcessingTimeSec: response.ProcessingTimeSec,
	}
	if err := s.scoreRepo.SaveRecord(ctx, record); err != nil {
		logger.WithComponent("detection_service").
			WithField("analysis_id", response.AnalysisID).
			WithField("camera_id", response.CameraID).
			WithError(err).
			Warn("Failed to archive score record")
	}
}

// notify publishes an event when a publisher is configured
func (s *detectionService) notify(ctx context.Context, event observer.DetectionEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}

// notifyFailed publishes the terminal failure event of a detection
func (s *detectionService) notifyFailed(ctx context.Context, frameURL, cameraID string, start time.Time, err error) {
	failed := observer.NewDetectionEvent(observer.DetectionFailed, frameURL, cameraID)
	failed.Duration = time.Since(start)
	failed.ErrorMessage = err.Error()
	s.notify(ctx, failed)
}

// classifyFetchError maps repository failures to transport-facing errors.
// Frames that arrive but cannot be decoded are the client's problem; frames
// that never arrive are the network's.
func classifyFetchError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidFrameURL):
		return apperrors.NewValidationError("invalid frame URL", err)
	case errors.Is(err, storage.ErrUndecodableFrame):
		return apperrors.NewInvalidInputError("frame data is not a decodable image", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("frame fetch timed out", err)
	default:
		return apperrors.NewNetworkError("failed to fetch frame", err)
	}
}

// classifyAnalysisError maps scoring failures to transport-facing errors
func classifyAnalysisError(err error) error {
	switch {
	case errors.Is(err, analyzer.ErrEmptyFrame):
		return apperrors.NewInvalidInputError("frame contains no pixels", err)
	case errors.Is(err, analyzer.ErrDimensionMismatch):
		return apperrors.NewDimensionMismatchError("frame dimensions do not match", err)
	default:
		return apperrors.NewProcessingError("failed to score frame", err)
	}
}
