package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/training-registration-api/internal/models"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
	"github.com/noah-isme/training-registration-api/pkg/export"
)

// ExportFormat selects the rendered export artifact.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat defaults to CSV for an empty value.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Validation("unsupported export format", map[string]string{"format": "formato inválido"})
	}
}

// Column headers of the registration export, in order.
var RegistrationExportHeaders = []string{
	"ID",
	"Nome Completo",
	"E-mail",
	"Departamento",
	"Nível de Familiaridade",
	"Precisa Acessibilidade",
	"Detalhes Acessibilidade",
	"Observações",
	"Data de Participação",
	"Data de Inscrição",
	"Status",
}

const (
	exportFilenamePrefix = "inscricoes_treinamento_"
	exportTitle          = "Inscrições do Treinamento"
	createdDateLayout    = "02/01/2006"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export rendering.
type ExportConfig struct {
	Location *time.Location
	Clock    func() time.Time
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	Count       int
}

// ExportService renders registration lists as CSV or PDF downloads.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	cfg    ExportConfig
}

// NewExportService constructs an ExportService. CSV output carries the UTF-8 BOM by default.
func NewExportService(cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if csv == nil {
		csv = export.NewCSVExporter(export.WithByteOrderMark())
	}
	if pdf == nil {
		pdf = export.NewLandscapePDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, cfg: cfg}
}

// Dataset maps registrations to export rows.
func (s *ExportService) Dataset(records []models.Registration) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"ID":                      r.ID,
			"Nome Completo":           r.FullName,
			"E-mail":                  r.Email,
			"Departamento":            string(r.Department),
			"Nível de Familiaridade":  string(r.FamiliarityLevel),
			"Precisa Acessibilidade":  yesNo(r.NeedsAccessibility),
			"Detalhes Acessibilidade": r.AccessibilityDetails,
			"Observações":             r.Observations,
			"Data de Participação":    r.ParticipationDate.String(),
			"Data de Inscrição":       r.CreatedAt.In(s.cfg.Location).Format(createdDateLayout),
			"Status":                  r.ApprovalStatus.Label(),
		})
	}
	return export.Dataset{Headers: RegistrationExportHeaders, Rows: rows}
}

// CSV renders the registrations as the BOM-prefixed, fully quoted table.
func (s *ExportService) CSV(records []models.Registration) ([]byte, error) {
	return s.csv.Render(s.Dataset(records))
}

// Render produces the download for the requested format.
func (s *ExportService) Render(records []models.Registration, format ExportFormat) (*ExportResult, error) {
	dataset := s.Dataset(records)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, exportTitle)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Validation("unsupported export format", map[string]string{"format": "formato inválido"})
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("registrations exported", zap.String("format", string(format)), zap.Int("rows", len(records)))
	return &ExportResult{
		Filename:    s.Filename(format),
		ContentType: contentType,
		Payload:     payload,
		Count:       len(records),
	}, nil
}

// Filename names the download after the current UTC date.
func (s *ExportService) Filename(format ExportFormat) string {
	return fmt.Sprintf("%s%s.%s", exportFilenamePrefix, s.cfg.Clock().UTC().Format(models.DateLayout), format)
}

func yesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
