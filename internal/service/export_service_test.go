package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/pkg/export"
)

func exportFixture(t *testing.T) []models.Registration {
	t.Helper()
	date, err := models.ParseDate("2030-05-10")
	require.NoError(t, err)
	return []models.Registration{
		{
			ID:                   "id-1",
			FullName:             `Ana "Aninha" Souza`,
			Email:                "ana@kings.tech",
			Department:           models.DepartmentOperacoes,
			FamiliarityLevel:     models.FamiliarityMedio,
			NeedsAccessibility:   true,
			AccessibilityDetails: "rampa, elevador",
			Observations:         "chego às 9h",
			ParticipationDate:    date,
			CreatedAt:            time.Date(2030, 5, 2, 1, 30, 0, 0, time.UTC),
			ApprovalStatus:       models.ApprovalApproved,
		},
		{
			ID:                "id-2",
			FullName:          "Bruno Lima",
			Email:             "bruno@kings.tech",
			Department:        models.DepartmentTI,
			FamiliarityLevel:  models.FamiliarityBaixo,
			ParticipationDate: date,
			CreatedAt:         time.Date(2030, 5, 2, 15, 0, 0, 0, time.UTC),
			ApprovalStatus:    models.ApprovalRejected,
		},
	}
}

func newExportServiceForTest(loc *time.Location) *ExportService {
	return NewExportService(ExportConfig{
		Location: loc,
		Clock:    fixedClock(time.Date(2030, 5, 2, 1, 0, 0, 0, time.UTC)),
	}, nil, nil, nil)
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportServiceForTest(time.UTC)

	payload, err := svc.CSV(exportFixture(t))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, []byte(export.ByteOrderMark)))
	assert.False(t, bytes.HasSuffix(payload, []byte("\n")))

	lines := strings.Split(strings.TrimPrefix(string(payload), export.ByteOrderMark), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"ID","Nome Completo","E-mail","Departamento","Nível de Familiaridade","Precisa Acessibilidade","Detalhes Acessibilidade","Observações","Data de Participação","Data de Inscrição","Status"`, lines[0])
	assert.Equal(t, `"id-1","Ana ""Aninha"" Souza","ana@kings.tech","operacoes","medio","Sim","rampa, elevador","chego às 9h","2030-05-10","02/05/2030","Aprovado"`, lines[1])
	assert.Equal(t, `"id-2","Bruno Lima","bruno@kings.tech","ti","baixo","Não","","","2030-05-10","02/05/2030","Reprovado"`, lines[2])

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(payload), export.ByteOrderMark)))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `Ana "Aninha" Souza`, records[1][1])
}

func TestExportServiceCSVEmpty(t *testing.T) {
	svc := newExportServiceForTest(time.UTC)

	payload, err := svc.CSV(nil)
	require.NoError(t, err)
	body := strings.TrimPrefix(string(payload), export.ByteOrderMark)
	assert.NotContains(t, body, "\n")
	assert.True(t, strings.HasPrefix(body, `"ID","Nome Completo"`))
}

func TestExportServiceCreatedDateUsesLocation(t *testing.T) {
	svc := newExportServiceForTest(saoPaulo(t))

	dataset := svc.Dataset(exportFixture(t))
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "01/05/2030", dataset.Rows[0]["Data de Inscrição"])
	assert.Equal(t, "02/05/2030", dataset.Rows[1]["Data de Inscrição"])
}

func TestExportServiceRender(t *testing.T) {
	svc := newExportServiceForTest(time.UTC)

	csvResult, err := svc.Render(exportFixture(t), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "inscricoes_treinamento_2030-05-02.csv", csvResult.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", csvResult.ContentType)
	assert.Equal(t, 2, csvResult.Count)

	pdfResult, err := svc.Render(exportFixture(t), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "inscricoes_treinamento_2030-05-02.pdf", pdfResult.Filename)
	assert.Equal(t, "application/pdf", pdfResult.ContentType)
	assert.True(t, bytes.HasPrefix(pdfResult.Payload, []byte("%PDF")))

	_, err = svc.Render(nil, ExportFormat("xlsx"))
	require.Error(t, err)
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, format)

	_, err = ParseExportFormat("xls")
	require.Error(t, err)
}
