package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
	"github.com/amankumarsingh77/hoopcast/pkg/utils"
	"github.com/google/uuid"
)

const uploadAccepted = "Video uploaded successfully. Processing started."

type analysisUseCase struct {
	cfg       *config.Config
	jobRepo   analysis.JobRepository
	awsRepo   analysis.AWSRepository
	submitter analysis.Submitter
	logger    logger.Logger
}

// NewAnalysisUseCase wires uploads to the job store and the pipeline.
// awsRepo may be nil when archival is disabled.
func NewAnalysisUseCase(cfg *config.Config, jobRepo analysis.JobRepository, awsRepo analysis.AWSRepository, submitter analysis.Submitter, logger logger.Logger) analysis.UseCase {
	return &analysisUseCase{
		cfg:       cfg,
		jobRepo:   jobRepo,
		awsRepo:   awsRepo,
		submitter: submitter,
		logger:    logger,
	}
}

// OutputName is the rendered file name for a session.
func OutputName(sessionID string) string {
	return fmt.Sprintf("analyzed_%s.mp4", sessionID)
}

func (u *analysisUseCase) Upload(ctx context.Context, input *models.VideoUploadInput) (*models.UploadResponse, error) {
	if err := validateUpload(ctx, input); err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	storedName := sessionID + "_" + utils.SanitizeFilename(input.Filename)
	inputPath := filepath.Join(u.cfg.Storage.UploadDir, storedName)

	if err := saveUpload(inputPath, input.File); err != nil {
		u.logger.Errorf("Upload - saveUpload error: %v", err)
		return nil, err
	}

	job := &models.Job{
		SessionID: sessionID,
		Status:    models.JobStatusQueued,
		Progress:  0,
		Filename:  input.Filename,
		CreatedAt: time.Now(),
	}
	if err := u.jobRepo.CreateJob(ctx, job); err != nil {
		u.logger.Errorf("Upload - CreateJob error: %v", err)
		_ = os.Remove(inputPath)
		return nil, err
	}

	u.submitter.Submit(models.JobSpec{
		SessionID:  sessionID,
		InputPath:  inputPath,
		OutputPath: filepath.Join(u.cfg.Storage.OutputDir, OutputName(sessionID)),
		Credential: input.Credential,
	})
	u.logger.Infof("Upload - session %s accepted for %q", sessionID, input.Filename)

	return &models.UploadResponse{
		SessionID: sessionID,
		Message:   uploadAccepted,
	}, nil
}

func validateUpload(ctx context.Context, input *models.VideoUploadInput) error {
	if input == nil || input.File == nil {
		return &analysis.InputError{Field: "video", Reason: "No video file provided"}
	}
	if input.Filename == "" {
		return &analysis.InputError{Field: "video", Reason: "No file selected"}
	}
	if !utils.AllowedVideoFile(input.Filename) {
		return &analysis.InputError{Field: "video", Reason: "Invalid file type"}
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return &analysis.InputError{Field: "video", Reason: err.Error()}
	}
	return nil
}

func saveUpload(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return dst.Close()
}

func (u *analysisUseCase) GetStatus(ctx context.Context, sessionID string) (*models.Job, error) {
	job, err := u.jobRepo.GetJob(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, analysis.ErrJobNotFound) {
			u.logger.Errorf("GetStatus - GetJob error: %v", err)
		}
		return nil, err
	}
	return job, nil
}

func (u *analysisUseCase) ListSessions(ctx context.Context) (*models.JobList, error) {
	jobs, err := u.jobRepo.ListJobs(ctx)
	if err != nil {
		u.logger.Errorf("ListSessions - ListJobs error: %v", err)
		return nil, err
	}
	list := &models.JobList{Sessions: make([]models.JobSummary, 0, len(jobs))}
	for _, j := range jobs {
		list.Sessions = append(list.Sessions, j.Summary())
	}
	list.Total = len(list.Sessions)
	return list, nil
}

func (u *analysisUseCase) GetOutput(ctx context.Context, sessionID string, remote bool) (*models.OutputFile, error) {
	job, err := u.jobRepo.GetJob(ctx, sessionID)
	if err != nil {
		if errors.Is(err, analysis.ErrJobNotFound) {
			return nil, analysis.ErrNotReady
		}
		return nil, err
	}
	if job.Status != models.JobStatusCompleted || job.OutputPath == "" {
		return nil, analysis.ErrNotReady
	}

	out := &models.OutputFile{
		Path: job.OutputPath,
		Name: filepath.Base(job.OutputPath),
	}
	if remote && job.OutputKey != "" && u.awsRepo != nil {
		url, err := u.awsRepo.GetPresignedURL(ctx, u.cfg.S3.OutputBucket, job.OutputKey, u.cfg.S3.PresignExpiry)
		if err != nil {
			u.logger.Warnf("GetOutput - GetPresignedURL error: %v", err)
		} else {
			out.RemoteURL = url
			return out, nil
		}
	}

	if _, err := os.Stat(out.Path); err != nil {
		u.logger.Errorf("GetOutput - output missing for session %s: %v", sessionID, err)
		return nil, analysis.ErrNotReady
	}
	return out, nil
}
