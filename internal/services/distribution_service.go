package services

import (
	"context"
	"fmt"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"
)

type DistributionService struct {
	Distributions repositories.DistributionRepository
	RequestID     string
}

func (s DistributionService) List(ctx context.Context, f repositories.DistributionFilter) ([]models.DistributionEntry, error) {
	return s.Distributions.List(ctx, f)
}

func (s DistributionService) Get(ctx context.Context, id int64) (models.DistributionEntry, error) {
	return s.Distributions.GetByID(ctx, id)
}

func (s DistributionService) Create(ctx context.Context, in models.DistributionEntry) (models.DistributionEntry, error) {
	if err := validateDistribution(in); err != nil {
		return models.DistributionEntry{}, err
	}
	out, err := s.Distributions.Create(ctx, in)
	if err != nil {
		return models.DistributionEntry{}, err
	}
	utils.LogEvent(s.RequestID, "distribution", "create", fmt.Sprintf("id=%d planilla_bus=%d", out.ID, out.BusAssignmentID))
	return out, nil
}

func (s DistributionService) Update(ctx context.Context, in models.DistributionEntry) (models.DistributionEntry, error) {
	if err := validateDistribution(in); err != nil {
		return models.DistributionEntry{}, err
	}
	if err := s.Distributions.Update(ctx, in); err != nil {
		return models.DistributionEntry{}, err
	}
	utils.LogEvent(s.RequestID, "distribution", "update", fmt.Sprintf("id=%d", in.ID))
	return in, nil
}

func (s DistributionService) Delete(ctx context.Context, id int64) error {
	if err := s.Distributions.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "distribution", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

// Summary lists the entries matching f with their totals.
func (s DistributionService) Summary(ctx context.Context, f repositories.DistributionFilter) ([]models.DistributionEntry, models.DistributionSummary, error) {
	entries, err := s.Distributions.List(ctx, f)
	if err != nil {
		return nil, models.DistributionSummary{}, err
	}
	return entries, SummarizeDistributions(entries), nil
}

// SummarizeDistributions totals applied values and averages values and
// percentages. An empty list sums to zero.
func SummarizeDistributions(entries []models.DistributionEntry) models.DistributionSummary {
	var sum models.DistributionSummary
	if len(entries) == 0 {
		return sum
	}
	var pct float64
	for _, e := range entries {
		sum.TotalValue += e.AppliedValue
		pct += e.Percentage
	}
	sum.Entries = len(entries)
	sum.AverageValue = sum.TotalValue / float64(len(entries))
	sum.AveragePercentage = pct / float64(len(entries))
	return sum
}

func validateDistribution(d models.DistributionEntry) error {
	switch {
	case d.BusAssignmentID <= 0:
		return domain.ValidationError{Field: "id_planilla_bus", Msg: "requerido"}
	case d.OwnerID <= 0:
		return domain.ValidationError{Field: "id_propietario", Msg: "requerido"}
	case d.Percentage < 0 || d.Percentage > 100:
		return domain.ValidationError{Field: "porcentaje_aplicado", Msg: "debe estar entre 0 y 100"}
	case d.AppliedValue < 0:
		return domain.ValidationError{Field: "valor_aplicado", Msg: "no puede ser negativo"}
	}
	return nil
}
