package models

import (
	"fmt"
	"strings"
	"time"
)

// ApprovalStatus is the HR review state of a registration. Any state may move to any other.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is one of the three known states.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

// Label returns the Portuguese label shown on the dashboard and in exports.
func (s ApprovalStatus) Label() string {
	switch s {
	case ApprovalApproved:
		return "Aprovado"
	case ApprovalRejected:
		return "Reprovado"
	default:
		return "Pendente"
	}
}

// ApprovalStatuses lists the review states in display order.
var ApprovalStatuses = []Option{
	{Value: string(ApprovalPending), Label: ApprovalPending.Label()},
	{Value: string(ApprovalApproved), Label: ApprovalApproved.Label()},
	{Value: string(ApprovalRejected), Label: ApprovalRejected.Label()},
}

// ParseApprovalStatus converts raw input into a known status.
func ParseApprovalStatus(raw string) (ApprovalStatus, error) {
	status := ApprovalStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown approval status %q", raw)
	}
	return status, nil
}

// Department codes accepted by the registration form.
type Department string

const (
	DepartmentRH        Department = "rh"
	DepartmentTI        Department = "ti"
	DepartmentVendas    Department = "vendas"
	DepartmentOperacoes Department = "operacoes"
)

// FamiliarityLevel codes accepted by the registration form.
type FamiliarityLevel string

const (
	FamiliarityBaixo FamiliarityLevel = "baixo"
	FamiliarityMedio FamiliarityLevel = "medio"
	FamiliarityAlto  FamiliarityLevel = "alto"
)

// Option pairs a stored code with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Departments lists the closed department set in display order.
var Departments = []Option{
	{Value: string(DepartmentRH), Label: "RH"},
	{Value: string(DepartmentTI), Label: "TI"},
	{Value: string(DepartmentVendas), Label: "Vendas"},
	{Value: string(DepartmentOperacoes), Label: "Operações"},
}

// FamiliarityLevels lists the closed familiarity set in display order.
var FamiliarityLevels = []Option{
	{Value: string(FamiliarityBaixo), Label: "Baixo"},
	{Value: string(FamiliarityMedio), Label: "Médio"},
	{Value: string(FamiliarityAlto), Label: "Alto"},
}

// Valid reports whether d belongs to the department set.
func (d Department) Valid() bool {
	return hasOption(Departments, string(d))
}

// Label returns the display label, or the raw code when unknown.
func (d Department) Label() string {
	return optionLabel(Departments, string(d))
}

// Valid reports whether f belongs to the familiarity set.
func (f FamiliarityLevel) Valid() bool {
	return hasOption(FamiliarityLevels, string(f))
}

// Label returns the display label, or the raw code when unknown.
func (f FamiliarityLevel) Label() string {
	return optionLabel(FamiliarityLevels, string(f))
}

// Registration is one submitted training sign-up. The JSON shape is the persisted blob format.
type Registration struct {
	ID                   string           `json:"id"`
	FullName             string           `json:"fullName"`
	Email                string           `json:"email"`
	Department           Department       `json:"department"`
	FamiliarityLevel     FamiliarityLevel `json:"familiarityLevel"`
	NeedsAccessibility   bool             `json:"needsAccessibility"`
	AccessibilityDetails string           `json:"accessibilityDetails,omitempty"`
	Observations         string           `json:"observations,omitempty"`
	ParticipationDate    Date             `json:"participationDate"`
	CreatedAt            time.Time        `json:"createdAt"`
	ApprovalStatus       ApprovalStatus   `json:"approvalStatus"`
}

// RegistrationFields are the caller-supplied values used to create a registration.
type RegistrationFields struct {
	FullName             string
	Email                string
	Department           Department
	FamiliarityLevel     FamiliarityLevel
	NeedsAccessibility   bool
	AccessibilityDetails string
	Observations         string
	ParticipationDate    Date
}

// FilterAll is the wildcard value for categorical dashboard filters.
const FilterAll = "all"

// RegistrationFilter holds the four independent dashboard criteria.
type RegistrationFilter struct {
	Search      string
	Department  string
	Familiarity string
	Status      string
}

// RegistrationStats summarises the collection for the dashboard cards.
type RegistrationStats struct {
	Total        int                    `json:"total"`
	ByStatus     map[ApprovalStatus]int `json:"byStatus"`
	ByDepartment map[Department]int     `json:"byDepartment"`
	NeedsAccess  int                    `json:"needsAccessibility"`
}

func hasOption(options []Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func optionLabel(options []Option, value string) string {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}
