package repository

import "github.com/tu-usuario/docuflow/internal/domain/entity"

// DocumentRepository puerto de persistencia para Document.
// GetByIDForUpdate toma un row lock (SELECT ... FOR UPDATE) y solo tiene
// sentido dentro de una transacción del TxRunner: cada transición
// lee-verifica-escribe bajo ese lock para evitar lost updates entre
// peticiones concurrentes sobre el mismo documento.
type DocumentRepository interface {
	Create(doc *entity.Document) error
	GetByID(id string) (*entity.Document, error)
	GetByIDForUpdate(id string) (*entity.Document, error)
	GetByCreatorAndID(creatorID, id string) (*entity.Document, error)
	ListByCreator(creatorID string) ([]*entity.Document, error)
	Update(doc *entity.Document) error
	Delete(id string) error
}

// ApprovalRepository puerto de persistencia para Approval.
// GetByIDForUpdate toma un row lock sobre la aprobación; la resolución de
// una decisión la lee bajo ese lock para que dos decisiones concurrentes
// sobre la misma aprobación se serialicen y la segunda vea la primera.
type ApprovalRepository interface {
	Create(approval *entity.Approval) error
	GetByID(id string) (*entity.Approval, error)
	GetByIDForUpdate(id string) (*entity.Approval, error)
	Update(approval *entity.Approval) error
	ListByDocument(documentID string) ([]*entity.Approval, error)
	ListByApprover(approverID string) ([]*entity.Approval, error)
}
