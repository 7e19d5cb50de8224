package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-registration-api/internal/dto"
	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/internal/service"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
	"github.com/noah-isme/training-registration-api/pkg/response"
)

type registrationService interface {
	Submit(ctx context.Context, req dto.CreateRegistrationRequest) (*models.Registration, error)
	Query(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int)
	Get(ctx context.Context, id string) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	Stats(ctx context.Context) models.RegistrationStats
}

type registrationExporter interface {
	Render(records []models.Registration, format service.ExportFormat) (*service.ExportResult, error)
}

// RegistrationHandler serves the public sign-up form and the HR dashboard endpoints.
type RegistrationHandler struct {
	registrations registrationService
	exporter      registrationExporter
}

// NewRegistrationHandler constructs a registration handler.
func NewRegistrationHandler(registrations registrationService, exporter registrationExporter) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, exporter: exporter}
}

// Create godoc
// @Summary Submit a training registration
// @Description Validates the sign-up form and stores a pending registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.CreateRegistrationRequest true "Registration form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	reg, err := h.registrations.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reg)
}

// List godoc
// @Summary List registrations
// @Description Returns the registrations matching the dashboard filters
// @Tags Registrations
// @Produce json
// @Param search query string false "Name or e-mail substring"
// @Param department query string false "Department code or all"
// @Param familiarity query string false "Familiarity level or all"
// @Param status query string false "Approval status or all"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	var query dto.RegistrationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filters"))
		return
	}

	items, total := h.registrations.Query(c.Request.Context(), query.Filter())
	response.JSON(c, http.StatusOK, items, map[string]interface{}{
		"total":    total,
		"filtered": len(items),
	})
}

// Get godoc
// @Summary Get a registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	reg, err := h.registrations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg)
}

// UpdateStatus godoc
// @Summary Review a registration
// @Description Sets the approval status. Unknown ids are ignored.
// @Tags Registrations
// @Accept json
// @Param id path string true "Registration ID"
// @Param payload body dto.UpdateStatusRequest true "New status"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /registrations/{id}/status [patch]
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	status, err := models.ParseApprovalStatus(req.Status)
	if err != nil {
		response.Error(c, appErrors.Validation("invalid approval status", map[string]string{"status": "status inválido"}))
		return
	}

	if err := h.registrations.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export registrations
// @Description Downloads the filtered registrations as CSV (default) or PDF
// @Tags Registrations
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param search query string false "Name or e-mail substring"
// @Param department query string false "Department code or all"
// @Param familiarity query string false "Familiarity level or all"
// @Param status query string false "Approval status or all"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /registrations/export [get]
func (h *RegistrationHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	format, err := service.ParseExportFormat(query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, _ := h.registrations.Query(c.Request.Context(), query.Filter())
	result, err := h.exporter.Render(items, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

// Stats godoc
// @Summary Registration summary
// @Description Counts by status and department for the dashboard cards
// @Tags Registrations
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /registrations/stats [get]
func (h *RegistrationHandler) Stats(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.registrations.Stats(c.Request.Context()))
}

// Options godoc
// @Summary Form options
// @Description Departments, familiarity levels and statuses with display labels
// @Tags Registrations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /registrations/options [get]
func (h *RegistrationHandler) Options(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.RegistrationOptions{
		Departments:       models.Departments,
		FamiliarityLevels: models.FamiliarityLevels,
		Statuses:          models.ApprovalStatuses,
	})
}
