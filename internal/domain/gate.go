package domain

import "planillabus/internal/domain/models"

const (
	BlockedClosed = "Closed"
	BlockedVoided = "Voided"
)

// Availability is the gate verdict for selling tickets on a manifest.
type Availability struct {
	Available bool   `json:"disponible"`
	Reason    string `json:"motivo,omitempty"`
}

// CheckManifestAvailability blocks ticket sales on closed and voided manifests.
func CheckManifestAvailability(status models.ManifestStatus) Availability {
	switch status {
	case models.ManifestClosed:
		return Availability{Reason: BlockedClosed}
	case models.ManifestVoided:
		return Availability{Reason: BlockedVoided}
	default:
		return Availability{Available: true}
	}
}

// RequireAvailable turns a Blocked verdict into a BlockedError.
func RequireAvailable(m models.Manifest) error {
	v := CheckManifestAvailability(m.Status)
	if v.Available {
		return nil
	}
	return BlockedError{ManifestID: m.ID, Reason: v.Reason}
}
