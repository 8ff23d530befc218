package dto

import "time"

// CreateDocumentRequest entrada para crear un documento (el archivo llega
// como multipart y el handler lo pasa como bytes al caso de uso).
type CreateDocumentRequest struct {
	Title string `json:"title" form:"title" validate:"required,min=1,max=300"`
}

// DocumentResponse salida de un documento.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
	FileKey   *string   `json:"file_key,omitempty"`
	Signature *string   `json:"signature,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SendForSignatureRequest entrada para enviar un documento a firma.
type SendForSignatureRequest struct {
	ApproverID string `json:"approver_id" validate:"required,uuid"`
}

// ApprovalDecisionRequest entrada para resolver una aprobación.
type ApprovalDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

// ApprovalResponse salida de una aprobación.
type ApprovalResponse struct {
	ID          string     `json:"id"`
	DocumentID  string     `json:"document_id"`
	ApproverID  string     `json:"approver_id"`
	RequesterID string     `json:"requester_id"`
	Decision    string     `json:"decision"`
	CreatedAt   time.Time  `json:"created_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

// VerifyResponse resultado de verificar la firma de un documento contra
// los bytes actuales del archivo en storage.
type VerifyResponse struct {
	DocumentID string `json:"document_id"`
	Valid      bool   `json:"valid"`
}
