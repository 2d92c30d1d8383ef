package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/domain/repository"
)

type mockBillRepo struct {
	generateFn      func(ctx context.Context, req *repository.GenerateBillRequest) (*entity.Bill, error)
	listFn          func(ctx context.Context) ([]entity.Bill, error)
	getByNumberFn   func(ctx context.Context, billNumber string) (*entity.Bill, error)
	listByAccountFn func(ctx context.Context, accountNumber string) ([]entity.Bill, error)
	searchFn        func(ctx context.Context, query string) ([]entity.Bill, error)
	listByStatusFn  func(ctx context.Context, status enum.BillStatus) ([]entity.Bill, error)
	updateStatusFn  func(ctx context.Context, billNumber string, status enum.BillStatus) (*entity.Bill, error)
	deleteFn        func(ctx context.Context, billNumber string) error
}

func (m *mockBillRepo) Generate(ctx context.Context, req *repository.GenerateBillRequest) (*entity.Bill, error) {
	return m.generateFn(ctx, req)
}

func (m *mockBillRepo) List(ctx context.Context) ([]entity.Bill, error) {
	return m.listFn(ctx)
}

func (m *mockBillRepo) GetByNumber(ctx context.Context, billNumber string) (*entity.Bill, error) {
	return m.getByNumberFn(ctx, billNumber)
}

func (m *mockBillRepo) ListByAccount(ctx context.Context, accountNumber string) ([]entity.Bill, error) {
	return m.listByAccountFn(ctx, accountNumber)
}

func (m *mockBillRepo) Search(ctx context.Context, query string) ([]entity.Bill, error) {
	return m.searchFn(ctx, query)
}

func (m *mockBillRepo) ListByStatus(ctx context.Context, status enum.BillStatus) ([]entity.Bill, error) {
	return m.listByStatusFn(ctx, status)
}

func (m *mockBillRepo) UpdateStatus(ctx context.Context, billNumber string, status enum.BillStatus) (*entity.Bill, error) {
	return m.updateStatusFn(ctx, billNumber, status)
}

func (m *mockBillRepo) Delete(ctx context.Context, billNumber string) error {
	return m.deleteFn(ctx, billNumber)
}

type mockBookRepo struct {
	listFn        func(ctx context.Context, filter repository.BookFilter) (*repository.BookPage, error)
	allFn         func(ctx context.Context) ([]entity.Book, error)
	getByIDFn     func(ctx context.Context, id string) (*entity.Book, error)
	createFn      func(ctx context.Context, book *entity.Book) (*entity.Book, error)
	updateFn      func(ctx context.Context, id string, book *entity.Book) (*entity.Book, error)
	updateStockFn func(ctx context.Context, id string, quantity int, status string) (*entity.Book, error)
	archiveFn     func(ctx context.Context, id string) (*entity.Book, error)
	deleteFn      func(ctx context.Context, id string) error
	statsFn       func(ctx context.Context) (*entity.BookStats, error)
	categoriesFn  func(ctx context.Context) ([]string, error)
}

func (m *mockBookRepo) List(ctx context.Context, filter repository.BookFilter) (*repository.BookPage, error) {
	return m.listFn(ctx, filter)
}

func (m *mockBookRepo) All(ctx context.Context) ([]entity.Book, error) {
	return m.allFn(ctx)
}

func (m *mockBookRepo) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBookRepo) Create(ctx context.Context, book *entity.Book) (*entity.Book, error) {
	return m.createFn(ctx, book)
}

func (m *mockBookRepo) Update(ctx context.Context, id string, book *entity.Book) (*entity.Book, error) {
	return m.updateFn(ctx, id, book)
}

func (m *mockBookRepo) UpdateStock(ctx context.Context, id string, quantity int, status string) (*entity.Book, error) {
	return m.updateStockFn(ctx, id, quantity, status)
}

func (m *mockBookRepo) Archive(ctx context.Context, id string) (*entity.Book, error) {
	return m.archiveFn(ctx, id)
}

func (m *mockBookRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockBookRepo) Stats(ctx context.Context) (*entity.BookStats, error) {
	return m.statsFn(ctx)
}

func (m *mockBookRepo) Categories(ctx context.Context) ([]string, error) {
	return m.categoriesFn(ctx)
}

type mockCustomerRepo struct {
	listFn      func(ctx context.Context) ([]entity.Customer, error)
	getByAcctFn func(ctx context.Context, accountNumber string) (*entity.Customer, error)
	createFn    func(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	updateFn    func(ctx context.Context, id string, customer *entity.Customer) (*entity.Customer, error)
	deleteFn    func(ctx context.Context, id string) error
}

func (m *mockCustomerRepo) List(ctx context.Context) ([]entity.Customer, error) {
	return m.listFn(ctx)
}

func (m *mockCustomerRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (*entity.Customer, error) {
	return m.getByAcctFn(ctx, accountNumber)
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	return m.createFn(ctx, customer)
}

func (m *mockCustomerRepo) Update(ctx context.Context, id string, customer *entity.Customer) (*entity.Customer, error) {
	return m.updateFn(ctx, id, customer)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockOrderRepo struct {
	listFn         func(ctx context.Context) ([]entity.Order, error)
	listByEmailFn  func(ctx context.Context, email string) ([]entity.Order, error)
	getByIDFn      func(ctx context.Context, id string) (*entity.Order, error)
	placeFn        func(ctx context.Context, order *entity.Order) (*entity.Order, error)
	updateFn       func(ctx context.Context, id string, order *entity.Order) (*entity.Order, error)
	updateStatusFn func(ctx context.Context, id string, status enum.OrderStatus) (*entity.Order, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockOrderRepo) List(ctx context.Context) ([]entity.Order, error) {
	return m.listFn(ctx)
}

func (m *mockOrderRepo) ListByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	return m.listByEmailFn(ctx, email)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockOrderRepo) Place(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	return m.placeFn(ctx, order)
}

func (m *mockOrderRepo) Update(ctx context.Context, id string, order *entity.Order) (*entity.Order, error) {
	return m.updateFn(ctx, id, order)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, status enum.OrderStatus) (*entity.Order, error) {
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockAnalyticsRepo struct {
	dashboardFn func(ctx context.Context, q repository.AnalyticsQuery) (json.RawMessage, error)
	reportsFn   func(ctx context.Context, q repository.AnalyticsQuery) (json.RawMessage, error)
	exportFn    func(ctx context.Context, q repository.AnalyticsQuery) (json.RawMessage, error)
}

func (m *mockAnalyticsRepo) Dashboard(ctx context.Context, q repository.AnalyticsQuery) (json.RawMessage, error) {
	return m.dashboardFn(ctx, q)
}

func (m *mockAnalyticsRepo) Reports(ctx context.Context, q repository.AnalyticsQuery) (json.RawMessage, error) {
	return m.reportsFn(ctx, q)
}

func (m *mockAnalyticsRepo) Export(ctx context.Context, q repository.AnalyticsQuery) (json.RawMessage, error) {
	return m.exportFn(ctx, q)
}

type mockAuthGateway struct {
	adminLoginFn       func(ctx context.Context, username, password string) (*repository.AdminLogin, error)
	adminProfileFn     func(ctx context.Context) (*repository.Admin, error)
	customerLoginFn    func(ctx context.Context, username, password string) (string, error)
	customerRegisterFn func(ctx context.Context, in *repository.RegisterCustomerInput) (*entity.Customer, error)
	customerProfileFn  func(ctx context.Context) (*entity.Customer, error)
}

func (m *mockAuthGateway) AdminLogin(ctx context.Context, username, password string) (*repository.AdminLogin, error) {
	return m.adminLoginFn(ctx, username, password)
}

func (m *mockAuthGateway) AdminProfile(ctx context.Context) (*repository.Admin, error) {
	return m.adminProfileFn(ctx)
}

func (m *mockAuthGateway) CustomerLogin(ctx context.Context, username, password string) (string, error) {
	return m.customerLoginFn(ctx, username, password)
}

func (m *mockAuthGateway) CustomerRegister(ctx context.Context, in *repository.RegisterCustomerInput) (*entity.Customer, error) {
	return m.customerRegisterFn(ctx, in)
}

func (m *mockAuthGateway) CustomerProfile(ctx context.Context) (*entity.Customer, error) {
	return m.customerProfileFn(ctx)
}

// memSessions is an in-memory SessionRepository
type memSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[uuid.UUID]entity.Session)}
}

func (m *memSessions) Create(ctx context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *memSessions) GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Update(ctx context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memSessions) TouchOrderCheck(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[id]
	s.LastOrderCheckAt = &at
	m.sessions[id] = s
	return nil
}

func (m *memSessions) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type mockBlogRepo struct {
	listFn    func(ctx context.Context) ([]entity.BlogPost, error)
	popularFn func(ctx context.Context) ([]entity.BlogPost, error)
	getByIDFn func(ctx context.Context, id string) (*entity.BlogPost, error)
	relatedFn func(ctx context.Context, id string) ([]entity.BlogPost, error)
	tagsFn    func(ctx context.Context) ([]string, error)
}

func (m *mockBlogRepo) List(ctx context.Context) ([]entity.BlogPost, error) {
	return m.listFn(ctx)
}

func (m *mockBlogRepo) Popular(ctx context.Context) ([]entity.BlogPost, error) {
	return m.popularFn(ctx)
}

func (m *mockBlogRepo) GetByID(ctx context.Context, id string) (*entity.BlogPost, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBlogRepo) Related(ctx context.Context, id string) ([]entity.BlogPost, error) {
	return m.relatedFn(ctx, id)
}

func (m *mockBlogRepo) Tags(ctx context.Context) ([]string, error) {
	return m.tagsFn(ctx)
}
