package dto

import (
	"strings"

	"github.com/noah-isme/training-registration-api/internal/models"
)

// CreateRegistrationRequest is the public sign-up form payload.
type CreateRegistrationRequest struct {
	FullName             string `json:"fullName" validate:"required,min=3,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Department           string `json:"department" validate:"required,department"`
	FamiliarityLevel     string `json:"familiarityLevel" validate:"required,familiarity"`
	NeedsAccessibility   bool   `json:"needsAccessibility"`
	AccessibilityDetails string `json:"accessibilityDetails" validate:"required_if=NeedsAccessibility true"`
	Observations         string `json:"observations" validate:"max=500"`
	ParticipationDate    string `json:"participationDate" validate:"required,isodate,notpast"`
}

// Normalize trims free-text inputs. Details are dropped when accessibility is not needed.
func (r *CreateRegistrationRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Department = strings.TrimSpace(r.Department)
	r.FamiliarityLevel = strings.TrimSpace(r.FamiliarityLevel)
	r.AccessibilityDetails = strings.TrimSpace(r.AccessibilityDetails)
	r.Observations = strings.TrimSpace(r.Observations)
	r.ParticipationDate = strings.TrimSpace(r.ParticipationDate)
	if !r.NeedsAccessibility {
		r.AccessibilityDetails = ""
	}
}

// Fields converts a validated request into store input.
func (r CreateRegistrationRequest) Fields() (models.RegistrationFields, error) {
	date, err := models.ParseDate(r.ParticipationDate)
	if err != nil {
		return models.RegistrationFields{}, err
	}
	return models.RegistrationFields{
		FullName:             r.FullName,
		Email:                r.Email,
		Department:           models.Department(r.Department),
		FamiliarityLevel:     models.FamiliarityLevel(r.FamiliarityLevel),
		NeedsAccessibility:   r.NeedsAccessibility,
		AccessibilityDetails: r.AccessibilityDetails,
		Observations:         r.Observations,
		ParticipationDate:    date,
	}, nil
}

// UpdateStatusRequest carries an HR review decision.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// RegistrationQuery holds the dashboard filter query parameters.
type RegistrationQuery struct {
	Search      string `form:"search"`
	Department  string `form:"department"`
	Familiarity string `form:"familiarity"`
	Status      string `form:"status"`
}

// Filter maps query parameters to the store filter.
func (q RegistrationQuery) Filter() models.RegistrationFilter {
	return models.RegistrationFilter{
		Search:      q.Search,
		Department:  q.Department,
		Familiarity: q.Familiarity,
		Status:      q.Status,
	}
}

// ExportQuery extends the dashboard filters with an output format.
type ExportQuery struct {
	RegistrationQuery
	Format string `form:"format"`
}

// RegistrationOptions lists the select values of the sign-up form.
type RegistrationOptions struct {
	Departments       []models.Option `json:"departments"`
	FamiliarityLevels []models.Option `json:"familiarityLevels"`
	Statuses          []models.Option `json:"statuses"`
}
