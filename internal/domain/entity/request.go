package entity

import "time"

// Tipos de una solicitud de firma, relativos a la perspectiva del emisor.
const (
	RequestOutgoing = "outgoing"
	RequestIncoming = "incoming"
)

// Estados de una solicitud de firma (se conservan en mayúsculas como los
// maneja el cliente).
const (
	RequestStatusPending  = "PENDING"
	RequestStatusSigned   = "SIGNED"
	RequestStatusDeclined = "DECLINED"
)

// SignRequest es una petición peer-to-peer de firmar un documento,
// independiente del flujo de aprobaciones. Solo el receptor designado
// puede firmarla o declinarla.
type SignRequest struct {
	ID         string
	Type       string // ver RequestOutgoing / RequestIncoming
	SenderID   string
	ReceiverID string
	DocumentID string
	Status     string // ver RequestStatus*
	CreatedAt  time.Time
}
