package entity

import "time"

// Estados de una invitación.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Invitation invita a un usuario a unirse a una empresa. Solo el creador
// de la empresa puede emitirlas; solo el invitado puede responderlas.
type Invitation struct {
	ID        string
	CompanyID string
	UserID    string // usuario invitado
	Status    string // ver constantes Invitation*
	CreatedAt time.Time
}

// Resolved indica si la invitación ya fue respondida.
func (i *Invitation) Resolved() bool {
	return i.Status != InvitationPending
}
