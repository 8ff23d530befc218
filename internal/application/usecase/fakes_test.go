package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/tu-usuario/docuflow/internal/application/usecase"
	"github.com/tu-usuario/docuflow/internal/domain"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
	"github.com/tu-usuario/docuflow/internal/domain/repository"
)

// Fakes en memoria compartidos por los tests de casos de uso. Replican el
// contrato de los repos reales: (nil, nil) cuando no existe la fila.

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) ListByCompany(companyID string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if u.MemberOf(companyID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
	// errores a devolver en los próximos Create, para simular colisiones
	// del índice único de join_code
	createErrs []error
}

func newFakeCompanyRepo(companies ...*entity.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{companies: make(map[string]*entity.Company)}
	for _, c := range companies {
		r.companies[c.ID] = c
	}
	return r
}

func (r *fakeCompanyRepo) Create(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, other := range r.companies {
		if other.JoinCode == c.JoinCode {
			return domain.ErrConflict
		}
	}
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.companies[id], nil
}

func (r *fakeCompanyRepo) GetByJoinCode(code string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.JoinCode == code {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) Update(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.companies {
		out = append(out, c)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCompanyRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.companies, id)
	return nil
}

type fakeInvitationRepo struct {
	mu   sync.Mutex
	invs map[string]*entity.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invs: make(map[string]*entity.Invitation)}
}

func (r *fakeInvitationRepo) Create(inv *entity.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invs[inv.ID] = inv
	return nil
}

func (r *fakeInvitationRepo) GetByID(id string) (*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invs[id], nil
}

func (r *fakeInvitationRepo) Update(inv *entity.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invs[inv.ID] = inv
	return nil
}

func (r *fakeInvitationRepo) ListByUser(userID string) ([]*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invitation
	for _, inv := range r.invs {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) ListByCompany(companyID string) ([]*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invitation
	for _, inv := range r.invs {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type fakeDocRepo struct {
	mu   sync.Mutex
	docs map[string]*entity.Document
	// errores forzados
	createErr error
}

func newFakeDocRepo(docs ...*entity.Document) *fakeDocRepo {
	r := &fakeDocRepo{docs: make(map[string]*entity.Document)}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *fakeDocRepo) Create(d *entity.Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.docs[d.ID] = &cp
	return nil
}

func (r *fakeDocRepo) get(id string) *entity.Document {
	d, ok := r.docs[id]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

func (r *fakeDocRepo) GetByID(id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *fakeDocRepo) GetByIDForUpdate(id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *fakeDocRepo) GetByCreatorAndID(creatorID, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.get(id)
	if d == nil || d.CreatedBy != creatorID {
		return nil, nil
	}
	return d, nil
}

func (r *fakeDocRepo) ListByCreator(creatorID string) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Document
	for id, d := range r.docs {
		if d.CreatedBy == creatorID {
			out = append(out, r.get(id))
		}
	}
	return out, nil
}

func (r *fakeDocRepo) Update(d *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.docs[d.ID] = &cp
	return nil
}

func (r *fakeDocRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

type fakeApprovalRepo struct {
	mu        sync.Mutex
	approvals map[string]*entity.Approval
	// lockHook se ejecuta al entrar a GetByIDForUpdate, antes de leer:
	// simula otra transacción que alcanza a commitear justo antes de que
	// esta obtenga el row lock.
	lockHook func()
}

func newFakeApprovalRepo(approvals ...*entity.Approval) *fakeApprovalRepo {
	r := &fakeApprovalRepo{approvals: make(map[string]*entity.Approval)}
	for _, a := range approvals {
		r.approvals[a.ID] = a
	}
	return r
}

func (r *fakeApprovalRepo) Create(a *entity.Approval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.approvals[a.ID] = &cp
	return nil
}

func (r *fakeApprovalRepo) GetByID(id string) (*entity.Approval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.approvals[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApprovalRepo) GetByIDForUpdate(id string) (*entity.Approval, error) {
	if r.lockHook != nil {
		r.lockHook()
	}
	return r.GetByID(id)
}

func (r *fakeApprovalRepo) Update(a *entity.Approval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.approvals[a.ID] = &cp
	return nil
}

func (r *fakeApprovalRepo) ListByDocument(documentID string) ([]*entity.Approval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Approval
	for _, a := range r.approvals {
		if a.DocumentID == documentID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeApprovalRepo) ListByApprover(approverID string) ([]*entity.Approval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Approval
	for _, a := range r.approvals {
		if a.ApproverID == approverID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeRequestRepo struct {
	mu   sync.Mutex
	reqs map[string]*entity.SignRequest
}

func newFakeRequestRepo(reqs ...*entity.SignRequest) *fakeRequestRepo {
	r := &fakeRequestRepo{reqs: make(map[string]*entity.SignRequest)}
	for _, req := range reqs {
		r.reqs[req.ID] = req
	}
	return r
}

func (r *fakeRequestRepo) Create(req *entity.SignRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.reqs[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) GetByID(id string) (*entity.SignRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequestRepo) GetByIDForUpdate(id string) (*entity.SignRequest, error) {
	return r.GetByID(id)
}

func (r *fakeRequestRepo) Update(req *entity.SignRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.reqs[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) ListBySender(senderID, reqType string) ([]*entity.SignRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SignRequest
	for _, req := range r.reqs {
		if req.SenderID == senderID && req.Type == reqType {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByReceiver(receiverID, reqType string) ([]*entity.SignRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SignRequest
	for _, req := range r.reqs {
		if req.ReceiverID == receiverID && req.Type == reqType {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByUser(userID string) ([]*entity.SignRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SignRequest
	for _, req := range r.reqs {
		if req.SenderID == userID || req.ReceiverID == userID {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Puertos de infraestructura
// ──────────────────────────────────────────────────────────────────────────────

// fakeStorage guarda archivos en memoria bajo un locator secuencial.
type fakeStorage struct {
	mu     sync.Mutex
	files  map[string][]byte
	putErr error
	getErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) Put(_ context.Context, data []byte, filename, _ string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	locator := filename
	cp := make([]byte, len(data))
	copy(cp, data)
	s.files[locator] = cp
	return locator, nil
}

func (s *fakeStorage) Get(_ context.Context, locator string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[locator]
	if !ok {
		return nil, errors.New("archivo no encontrado en storage")
	}
	return data, nil
}

// fakeSigner firma con sha256 en hex: determinista y verificable sin RSA.
type fakeSigner struct {
	signErr error
}

func (s *fakeSigner) Sign(data []byte) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (s *fakeSigner) Verify(data []byte, signatureHex string) (bool, error) {
	if _, err := hex.DecodeString(signatureHex); err != nil {
		return false, err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) == signatureHex, nil
}

// fakeNotifier captura notificaciones en un canal para que los tests
// puedan esperarlas (el caso de uso las despacha en una goroutine).
type fakeNotifier struct {
	sent chan usecase.Notification
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan usecase.Notification, 8)}
}

func (n *fakeNotifier) Notify(_ context.Context, notif usecase.Notification) error {
	n.sent <- notif
	return n.err
}

// fakeTx ejecuta la función directamente sobre los repos dados, sin
// transacción real.
type fakeTx struct {
	docRepo      repository.DocumentRepository
	approvalRepo repository.ApprovalRepository
	requestRepo  repository.RequestRepository
}

func (t *fakeTx) Run(_ context.Context, fn func(
	docRepo repository.DocumentRepository,
	approvalRepo repository.ApprovalRepository,
	requestRepo repository.RequestRepository,
) error) error {
	return fn(t.docRepo, t.approvalRepo, t.requestRepo)
}
