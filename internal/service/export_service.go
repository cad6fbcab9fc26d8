package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	"github.com/askeland/crewplan-api/pkg/export"
	"github.com/askeland/crewplan-api/pkg/storage"
)

type conflictSource interface {
	Conflicts(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictsResponse, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders conflict reports and persists the files.
type ExportService struct {
	insights conflictSource
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(insights conflictSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		insights: insights,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the conflict dataset for the job and stores the rendered file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job.Params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	severity := job.Params.Severity
	if severity == "" {
		severity = "all"
	}
	return fmt.Sprintf("conflicts_%s_%s.%s", severity, timestamp, job.Params.Format)
}

func (s *ExportService) buildDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	resp, err := s.insights.Conflicts(ctx, dto.ConflictQuery{Severity: params.Severity})
	if err != nil {
		return export.Dataset{}, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Type", "Severity", "Description", "Assignments", "Workers", "Time Lost (min)", "Cost Delta", "Efficiency Loss (%)"},
	}
	for _, c := range resp.Conflicts {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":                  c.ID,
			"Type":                string(c.Type),
			"Severity":            string(c.Severity),
			"Description":         c.Description,
			"Assignments":         strings.Join(c.AssignmentIDs, " "),
			"Workers":             strings.Join(c.Workers, " "),
			"Time Lost (min)":     fmt.Sprintf("%d", c.Impact.TimeLostMinutes),
			"Cost Delta":          fmt.Sprintf("%.2f", c.Impact.CostDelta),
			"Efficiency Loss (%)": fmt.Sprintf("%.1f", c.Impact.EfficiencyLossPct),
		})
	}

	title := "Scheduling Conflict Report"
	if params.Severity != "" {
		title = fmt.Sprintf("%s (%s)", title, params.Severity)
	}
	return dataset, title, nil
}
