package domain

import (
	"testing"

	"planillabus/internal/domain/models"
)

func TestCheckManifestAvailability(t *testing.T) {
	cases := []struct {
		status    models.ManifestStatus
		available bool
		reason    string
	}{
		{models.ManifestOpen, true, ""},
		{models.ManifestOnSale, true, ""},
		{models.ManifestClosed, false, BlockedClosed},
		{models.ManifestVoided, false, BlockedVoided},
	}
	for _, tc := range cases {
		got := CheckManifestAvailability(tc.status)
		if got.Available != tc.available || got.Reason != tc.reason {
			t.Fatalf("status %s: got %+v", tc.status, got)
		}
	}
}

func TestRequireAvailable(t *testing.T) {
	err := RequireAvailable(models.Manifest{ID: 5, Status: models.ManifestVoided})
	if !IsBlocked(err) {
		t.Fatalf("expected BlockedError, got %v", err)
	}
	if err := RequireAvailable(models.Manifest{ID: 5, Status: models.ManifestOnSale}); err != nil {
		t.Fatalf("on-sale manifest should be available, got %v", err)
	}
}

func TestManifestTransitions(t *testing.T) {
	if !models.ManifestOpen.CanTransitionTo(models.ManifestOnSale) {
		t.Fatalf("open -> on sale should be allowed")
	}
	if !models.ManifestOnSale.CanTransitionTo(models.ManifestVoided) {
		t.Fatalf("on sale -> voided should be allowed")
	}
	if models.ManifestClosed.CanTransitionTo(models.ManifestOpen) {
		t.Fatalf("closed is terminal")
	}
	if models.ManifestOnSale.CanTransitionTo(models.ManifestOpen) {
		t.Fatalf("transitions are not reversible")
	}
}
