package entity

import (
	"time"

	"github.com/tu-usuario/docuflow/internal/domain"
)

// Decisiones de una aprobación.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Approval es una decisión otorgada por autoridad sobre un documento:
// un solicitante pide a un aprobador que firme. Invariante: el
// solicitante nunca es el aprobador.
type Approval struct {
	ID          string
	DocumentID  string
	ApproverID  string
	RequesterID string
	Decision    string // ver constantes Approval*
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

// Decide registra la decisión final. Solo una aprobación pendiente
// puede decidirse; repetir la decisión es ErrConflict.
func (a *Approval) Decide(decision string, now time.Time) error {
	if a.Decision != ApprovalPending {
		return domain.ErrConflict
	}
	if decision != ApprovalApproved && decision != ApprovalRejected {
		return domain.ErrInvalidInput
	}
	a.Decision = decision
	a.DecidedAt = &now
	return nil
}
