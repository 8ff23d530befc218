package repository

import "github.com/tu-usuario/docuflow/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	// GetByJoinCode busca por código de unión ya normalizado (minúsculas).
	GetByJoinCode(code string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
	Delete(id string) error
}

// InvitationRepository puerto de persistencia para Invitation.
type InvitationRepository interface {
	Create(inv *entity.Invitation) error
	GetByID(id string) (*entity.Invitation, error)
	Update(inv *entity.Invitation) error
	ListByUser(userID string) ([]*entity.Invitation, error)
	ListByCompany(companyID string) ([]*entity.Invitation, error)
}
