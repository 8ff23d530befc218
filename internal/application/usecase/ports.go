package usecase

import (
	"context"

	"github.com/tu-usuario/docuflow/internal/domain/entity"
	"github.com/tu-usuario/docuflow/internal/domain/repository"
)

// FileStorage puerto hacia el almacenamiento de archivos (S3 o compatible).
// Put devuelve un locator opaco; Get resuelve ese locator a los bytes.
// Un fallo de Put durante la creación de un documento aborta la operación:
// nunca se persiste un Document sin locator válido.
type FileStorage interface {
	Put(ctx context.Context, data []byte, filename, mimetype string) (string, error)
	Get(ctx context.Context, locator string) ([]byte, error)
}

// DocumentSigner puerto hacia el servicio criptográfico de firma.
// Sign es determinista sobre los bytes exactos; Verify devuelve false (no
// error) ante una firma que no corresponde, y error solo ante encoding
// malformado o llaves ausentes.
type DocumentSigner interface {
	Sign(data []byte) (string, error)
	Verify(data []byte, signatureHex string) (bool, error)
}

// Tipos de notificación soportados.
const (
	NotificationSignRequest      = "sign_request"
	NotificationDocumentApproved = "document_approved"
	NotificationDocumentRejected = "document_rejected"
)

// Notification contexto para una notificación saliente.
type Notification struct {
	Kind      string
	Recipient *entity.User
	Actor     *entity.User // quien originó el evento (emisor o firmante)
	Document  *entity.Document
	Request   *entity.SignRequest
	Reason    string // solo para rechazos
}

// Notifier puerto hacia el canal de notificaciones (email). Los casos de
// uso lo invocan de forma asíncrona y best-effort: un error se registra
// en el log y jamás se propaga a la operación principal.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada transición de estado de documento se
// ejecuta completa dentro de una tx con row lock para evitar lost updates.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		approvalRepo repository.ApprovalRepository,
		requestRepo repository.RequestRepository,
	) error) error
}
