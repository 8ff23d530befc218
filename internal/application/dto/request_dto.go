package dto

import "time"

// SendRequestRequest entrada para pedir a otro usuario que firme un documento.
type SendRequestRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

// DeclineRequestRequest entrada para declinar una solicitud, con motivo opcional.
type DeclineRequestRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// RequestResponse salida de una solicitud de firma.
type RequestResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	DocumentID string    `json:"document_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
