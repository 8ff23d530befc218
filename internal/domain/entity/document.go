package entity

import (
	"time"

	"github.com/tu-usuario/docuflow/internal/domain"
)

// Estados del ciclo de vida de un Document. Las transiciones son
// monótonas: created → pending_signature → signed. El borrado es
// permanente y válido desde cualquier estado.
const (
	DocumentCreated          = "created"
	DocumentPendingSignature = "pending_signature"
	DocumentSigned           = "signed"
	DocumentDeleted          = "deleted"
)

// Document es la raíz del ciclo de vida de firma. Toda mutación de estado
// pasa por los métodos de transición de esta entidad; ningún caso de uso
// escribe Status directamente, de modo que el camino de aprobaciones y el
// de solicitudes peer-to-peer no puedan saltarse los invariantes.
type Document struct {
	ID        string
	Title     string
	Status    string // ver constantes Document*
	CreatedBy string
	UpdatedBy *string // último firmante
	FileKey   *string // locator opaco del archivo en storage
	Signature *string // firma RSA-SHA256 en hex sobre los bytes del archivo
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubmitForSignature transiciona created → pending_signature.
// Devuelve ErrInvalidState si el documento no está en created.
func (d *Document) SubmitForSignature(now time.Time) error {
	if d.Status != DocumentCreated {
		return domain.ErrInvalidState
	}
	d.Status = DocumentPendingSignature
	d.UpdatedAt = now
	return nil
}

// MarkSigned transiciona a signed, registrando firmante y firma.
// Se permite desde created (camino de solicitudes) y desde
// pending_signature (camino de aprobaciones). Un documento firmado nunca
// vuelve a un estado anterior; re-firmar es ErrInvalidState.
func (d *Document) MarkSigned(signerID, signatureHex string, now time.Time) error {
	if d.Status != DocumentCreated && d.Status != DocumentPendingSignature {
		return domain.ErrInvalidState
	}
	d.Status = DocumentSigned
	d.UpdatedBy = &signerID
	d.Signature = &signatureHex
	d.UpdatedAt = now
	return nil
}

// Signed indica si el documento ya alcanzó el estado terminal de firma.
func (d *Document) Signed() bool {
	return d.Status == DocumentSigned
}
