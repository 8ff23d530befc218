package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/docuflow/internal/application/dto"
	"github.com/tu-usuario/docuflow/internal/domain"
	"github.com/tu-usuario/docuflow/internal/domain/authz"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
	"github.com/tu-usuario/docuflow/internal/domain/repository"
	"github.com/tu-usuario/docuflow/pkg/logger"
)

// joinCodeAttempts reintentos de inserción ante colisión de código en el
// índice único de join_code.
const joinCodeAttempts = 5

// CompanyUseCase administra empresas, membresías e invitaciones. Es la
// puerta de entrada de quién puede actuar sobre documentos de la empresa:
// las comprobaciones de rol pasan por authz.Can.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	invRepo     repository.InvitationRepository
	log         *logger.Logger
}

// NewCompanyUseCase construye el caso de uso con sus puertos.
func NewCompanyUseCase(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	invRepo repository.InvitationRepository,
	log *logger.Logger,
) *CompanyUseCase {
	return &CompanyUseCase{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		invRepo:     invRepo,
		log:         log.Component("companies"),
	}
}

// Create crea una empresa con un código de unión corto y único.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest, creatorID string) (*dto.CompanyResponse, error) {
	creator, err := uc.userRepo.GetByID(creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	company := &entity.Company{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   creator.ID,
		CreatedAt:   time.Now(),
	}
	// La unicidad del código la garantiza el índice único al insertar:
	// ante ErrConflict se regenera el código y se reintenta, para que dos
	// Create concurrentes con el mismo código no le devuelvan el conflicto
	// al caller.
	for attempt := 0; ; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, err
		}
		company.JoinCode = code
		err = uc.companyRepo.Create(company)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= joinCodeAttempts {
			return nil, fmt.Errorf("generar código de unión: %d colisiones seguidas", joinCodeAttempts)
		}
	}
	uc.log.Info().Str("company_id", company.ID).Str("created_by", creator.ID).Msg("empresa creada")
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// List lista empresas con paginación; sirve para descubrir a cuál unirse.
func (uc *CompanyUseCase) List(page dto.PageRequest) ([]dto.CompanyResponse, error) {
	page.DefaultPage()
	companies, err := uc.companyRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		items = append(items, *toCompanyResponse(c))
	}
	return items, nil
}

// Delete borra la empresa de forma permanente. Solo el creador puede
// hacerlo; la membresía de todos los usuarios queda limpia antes del borrado.
func (uc *CompanyUseCase) Delete(companyID, principalID string) error {
	company, principal, err := uc.companyAndUser(companyID, principalID)
	if err != nil {
		return err
	}
	if !company.IsCreator(principal.ID) {
		return domain.ErrForbidden
	}
	members, err := uc.userRepo.ListByCompany(companyID)
	if err != nil {
		return err
	}
	for _, m := range members {
		m.CompanyID = nil
		m.UpdatedAt = time.Now()
		if err := uc.userRepo.Update(m); err != nil {
			return err
		}
	}
	if err := uc.companyRepo.Delete(companyID); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", companyID).Msg("empresa eliminada")
	return nil
}

// AddUser agrega un usuario a la empresa. ErrConflict si ya es miembro.
// Si el usuario es el creador, su primer ingreso lo promueve a super_manager.
func (uc *CompanyUseCase) AddUser(companyID, userID string) (*dto.CompanyResponse, error) {
	company, user, err := uc.companyAndUser(companyID, userID)
	if err != nil {
		return nil, err
	}
	if user.MemberOf(companyID) {
		return nil, domain.ErrConflict
	}
	if err := uc.addMember(company, user); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// JoinWithCode une al usuario a la empresa identificada por el código
// (comparación case-insensitive). Re-unirse a la misma empresa es un no-op.
func (uc *CompanyUseCase) JoinWithCode(code, userID string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByJoinCode(entity.NormalizeJoinCode(code))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.MemberOf(company.ID) {
		return toCompanyResponse(company), nil
	}
	if err := uc.addMember(company, user); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Leave saca al usuario de la empresa. ErrConflict si no era miembro.
func (uc *CompanyUseCase) Leave(companyID, userID string) error {
	_, user, err := uc.companyAndUser(companyID, userID)
	if err != nil {
		return err
	}
	if !user.MemberOf(companyID) {
		return domain.ErrConflict
	}
	user.CompanyID = nil
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", companyID).Str("user_id", userID).Msg("usuario salió de la empresa")
	return nil
}

// ListUsers lista los miembros de la empresa.
func (uc *CompanyUseCase) ListUsers(companyID string) ([]dto.UserResponse, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	users, err := uc.userRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *toUserResponse(u))
	}
	return items, nil
}

// UpdateUserRole cambia el rol de un miembro. Solo el creador de la
// empresa o un super_manager pueden hacerlo (ErrForbidden).
func (uc *CompanyUseCase) UpdateUserRole(companyID, targetUserID, newRole, principalID string) (*dto.UserResponse, error) {
	if !entity.ValidRole(newRole) {
		return nil, domain.ErrInvalidInput
	}
	company, principal, err := uc.companyAndUser(companyID, principalID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(principal, company, authz.ActionManageMembers) {
		return nil, domain.ErrForbidden
	}
	target, err := uc.userRepo.GetByID(targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.MemberOf(companyID) {
		return nil, domain.ErrUserNotFound
	}
	target.Role = newRole
	target.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(target); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("user_id", targetUserID).Str("role", newRole).Msg("rol actualizado")
	return toUserResponse(target), nil
}

// RemoveUser expulsa a un miembro. Solo el creador o un super_manager.
func (uc *CompanyUseCase) RemoveUser(companyID, targetUserID, principalID string) error {
	company, principal, err := uc.companyAndUser(companyID, principalID)
	if err != nil {
		return err
	}
	if !authz.Can(principal, company, authz.ActionManageMembers) {
		return domain.ErrForbidden
	}
	target, err := uc.userRepo.GetByID(targetUserID)
	if err != nil {
		return err
	}
	if target == nil || !target.MemberOf(companyID) {
		return domain.ErrUserNotFound
	}
	target.CompanyID = nil
	target.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(target); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", companyID).Str("user_id", targetUserID).Msg("usuario expulsado de la empresa")
	return nil
}

// SendInvitation invita a un usuario a la empresa. Solo el creador puede
// invitar (ErrForbidden).
func (uc *CompanyUseCase) SendInvitation(companyID, invitedUserID, principalID string) (*dto.InvitationResponse, error) {
	company, principal, err := uc.companyAndUser(companyID, principalID)
	if err != nil {
		return nil, err
	}
	invited, err := uc.userRepo.GetByID(invitedUserID)
	if err != nil {
		return nil, err
	}
	if invited == nil {
		return nil, domain.ErrUserNotFound
	}
	if !authz.Can(principal, company, authz.ActionInvite) {
		return nil, domain.ErrForbidden
	}
	inv := &entity.Invitation{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		UserID:    invited.ID,
		Status:    entity.InvitationPending,
		CreatedAt: time.Now(),
	}
	if err := uc.invRepo.Create(inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("user_id", invitedUserID).Msg("invitación enviada")
	return toInvitationResponse(inv), nil
}

// RespondToInvitation acepta o rechaza una invitación. Solo el invitado
// puede responderla; aceptar lo agrega a la empresa.
func (uc *CompanyUseCase) RespondToInvitation(invitationID, status, principalID string) (*dto.InvitationResponse, error) {
	if status != entity.InvitationAccepted && status != entity.InvitationRejected {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invRepo.GetByID(invitationID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.UserID != principalID {
		return nil, domain.ErrForbidden
	}
	if inv.Resolved() {
		return nil, domain.ErrConflict
	}

	inv.Status = status
	if status == entity.InvitationAccepted {
		company, user, err := uc.companyAndUser(inv.CompanyID, inv.UserID)
		if err != nil {
			return nil, err
		}
		if !user.MemberOf(company.ID) {
			if err := uc.addMember(company, user); err != nil {
				return nil, err
			}
		}
	}
	if err := uc.invRepo.Update(inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("invitation_id", invitationID).Str("status", status).Msg("invitación respondida")
	return toInvitationResponse(inv), nil
}

// ListInvitations lista las invitaciones dirigidas al usuario.
func (uc *CompanyUseCase) ListInvitations(userID string) ([]dto.InvitationResponse, error) {
	invs, err := uc.invRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		items = append(items, *toInvitationResponse(inv))
	}
	return items, nil
}

// ListCompanyInvitations lista las invitaciones emitidas por la empresa.
// Solo el creador o un super_manager miembro pueden verlas.
func (uc *CompanyUseCase) ListCompanyInvitations(companyID, principalID string) ([]dto.InvitationResponse, error) {
	company, principal, err := uc.companyAndUser(companyID, principalID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(principal, company, authz.ActionManageMembers) {
		return nil, domain.ErrForbidden
	}
	invs, err := uc.invRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		items = append(items, *toInvitationResponse(inv))
	}
	return items, nil
}

// addMember asocia el usuario a la empresa. El creador queda promovido a
// super_manager en su primer ingreso.
func (uc *CompanyUseCase) addMember(company *entity.Company, user *entity.User) error {
	user.CompanyID = &company.ID
	if company.IsCreator(user.ID) && user.Role != entity.RoleSuperManager {
		user.Role = entity.RoleSuperManager
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("usuario agregado a la empresa")
	return nil
}

func (uc *CompanyUseCase) companyAndUser(companyID, userID string) (*entity.Company, *entity.User, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	return company, user, nil
}

// generateJoinCode produce un código hex de 8 caracteres en minúsculas.
func generateJoinCode() (string, error) {
	buf := make([]byte, entity.JoinCodeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar código de unión: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		JoinCode:    c.JoinCode,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

func toInvitationResponse(i *entity.Invitation) *dto.InvitationResponse {
	if i == nil {
		return nil
	}
	return &dto.InvitationResponse{
		ID:        i.ID,
		CompanyID: i.CompanyID,
		UserID:    i.UserID,
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
	}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
