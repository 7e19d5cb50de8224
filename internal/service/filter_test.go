package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/training-registration-api/internal/models"
)

func filterFixture() []models.Registration {
	return []models.Registration{
		{ID: "1", FullName: "Ana Souza", Email: "ana@kings.tech", Department: models.DepartmentTI, FamiliarityLevel: models.FamiliarityBaixo, ApprovalStatus: models.ApprovalPending},
		{ID: "2", FullName: "Bruno Lima", Email: "bruno@kings.tech", Department: models.DepartmentRH, FamiliarityLevel: models.FamiliarityAlto, ApprovalStatus: models.ApprovalApproved},
		{ID: "3", FullName: "Álvaro Núñez", Email: "ALVARO@KINGS.TECH", Department: models.DepartmentTI, FamiliarityLevel: models.FamiliarityAlto, ApprovalStatus: models.ApprovalRejected},
		{ID: "4", FullName: "Carla Dias", Email: "carla@vendas.kings.tech", Department: models.DepartmentVendas, FamiliarityLevel: models.FamiliarityMedio, ApprovalStatus: models.ApprovalPending},
	}
}

func ids(items []models.Registration) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestFilterRegistrations(t *testing.T) {
	cases := []struct {
		name   string
		filter models.RegistrationFilter
		want   []string
	}{
		{"no criteria", models.RegistrationFilter{}, []string{"1", "2", "3", "4"}},
		{"all wildcards", models.RegistrationFilter{Department: "all", Familiarity: "all", Status: "all"}, []string{"1", "2", "3", "4"}},
		{"department", models.RegistrationFilter{Department: "ti"}, []string{"1", "3"}},
		{"familiarity", models.RegistrationFilter{Familiarity: "alto"}, []string{"2", "3"}},
		{"status", models.RegistrationFilter{Status: "pending"}, []string{"1", "4"}},
		{"combined", models.RegistrationFilter{Department: "ti", Familiarity: "alto"}, []string{"3"}},
		{"search by name ignores case", models.RegistrationFilter{Search: "BRUNO"}, []string{"2"}},
		{"search by email", models.RegistrationFilter{Search: "vendas.kings"}, []string{"4"}},
		{"search folds accents case", models.RegistrationFilter{Search: "álvaro"}, []string{"3"}},
		{"search uppercase email", models.RegistrationFilter{Search: "alvaro@"}, []string{"3"}},
		{"search and department", models.RegistrationFilter{Search: "kings.tech", Department: "rh"}, []string{"2"}},
		{"search trims surrounding whitespace", models.RegistrationFilter{Search: "  bruno  "}, []string{"2"}},
		{"no match", models.RegistrationFilter{Search: "zzz"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterRegistrations(filterFixture(), tc.filter)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterRegistrationsDoesNotMutateInput(t *testing.T) {
	input := filterFixture()
	_ = FilterRegistrations(input, models.RegistrationFilter{Department: "rh"})
	assert.Len(t, input, 4)
	assert.Equal(t, "1", input[0].ID)
}

func TestFilterRegistrationsEmptyInput(t *testing.T) {
	got := FilterRegistrations(nil, models.RegistrationFilter{Search: "ana"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
