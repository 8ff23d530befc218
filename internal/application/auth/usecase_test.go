package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/docuflow/internal/application/auth"
	"github.com/tu-usuario/docuflow/internal/application/dto"
	"github.com/tu-usuario/docuflow/internal/domain"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/docuflow/pkg/jwt"
)

// memUserRepo fake mínimo de UserRepository para los tests de auth.
type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(u *entity.User) error { r.users[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return r.users[id], nil
}
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUserRepo) Update(u *entity.User) error { r.users[u.ID] = u; return nil }
func (r *memUserRepo) ListByCompany(string) ([]*entity.User, error) {
	return nil, nil
}
func newAuthUC() (*auth.AuthUseCase, *memUserRepo) {
	repo := newMemUserRepo()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "secret-de-test",
		ExpMinutes: 60,
		Issuer:     "docuflow-test",
	})
	return uc, repo
}

func TestRegister_CreaEmployeeConHash(t *testing.T) {
	uc, repo := newAuthUC()

	out, err := uc.Register(dto.RegisterRequest{
		Email:     "ana@test.local",
		Password:  "supersecreta",
		FirstName: "Ana",
		LastName:  "Pérez",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleEmployee, out.Role)
	assert.Nil(t, out.CompanyID, "un usuario nuevo no pertenece a ninguna empresa")

	stored, _ := repo.GetByEmail("ana@test.local")
	require.NotNil(t, stored)
	assert.NotEqual(t, "supersecreta", stored.PasswordHash, "el password nunca se guarda en plano")
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.Register(dto.RegisterRequest{Email: "ana@test.local", Password: "supersecreta"})
	require.NoError(t, err)

	_, err = uc.Register(dto.RegisterRequest{Email: "ana@test.local", Password: "otraclave123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_DevuelveTokenValido(t *testing.T) {
	uc, _ := newAuthUC()
	reg, err := uc.Register(dto.RegisterRequest{Email: "ana@test.local", Password: "supersecreta"})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "supersecreta"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, reg.ID, out.User.ID)

	userID, _, role, err := pkgjwt.Parse("secret-de-test", out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, entity.RoleEmployee, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuthUC()
	_, err := uc.Register(dto.RegisterRequest{Email: "ana@test.local", Password: "supersecreta"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@test.local", Password: "supersecreta"})
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	uc, _ := newAuthUC()
	reg, err := uc.Register(dto.RegisterRequest{Email: "ana@test.local", Password: "supersecreta"})
	require.NoError(t, err)

	out, err := uc.Profile(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@test.local", out.Email)

	_, err = uc.Profile("no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
