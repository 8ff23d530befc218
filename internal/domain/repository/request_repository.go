package repository

import "github.com/tu-usuario/docuflow/internal/domain/entity"

// RequestRepository puerto de persistencia para SignRequest.
type RequestRepository interface {
	Create(req *entity.SignRequest) error
	GetByID(id string) (*entity.SignRequest, error)
	GetByIDForUpdate(id string) (*entity.SignRequest, error)
	Update(req *entity.SignRequest) error
	ListBySender(senderID, reqType string) ([]*entity.SignRequest, error)
	ListByReceiver(receiverID, reqType string) ([]*entity.SignRequest, error)
	ListByUser(userID string) ([]*entity.SignRequest, error)
}
