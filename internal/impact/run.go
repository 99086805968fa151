package impact

import (
	"time"

	"github.com/google/uuid"

	"github.com/wonny/pdie/internal/contracts"
)

// NewRun stamps a report with a fresh run id and the engine config hash
// The report itself stays deterministic; identity lives only on the envelope.
func NewRun(report *contracts.ImpactReport, configHash string) *contracts.ImpactRun {
	return &contracts.ImpactRun{
		RunID:      uuid.New().String(),
		ConfigHash: configHash,
		CreatedAt:  time.Now().UTC(),
		Report:     report,
	}
}
