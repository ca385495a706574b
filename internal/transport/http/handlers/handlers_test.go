package handlers_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/cache"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/security"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
	httproutes "github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/routes"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

type staticKeyProvider struct {
	private *rsa.PrivateKey
	kid     string
}

func (p staticKeyProvider) GetSigningKey() (*rsa.PrivateKey, error) {
	return p.private, nil
}

func (p staticKeyProvider) SigningKID() string {
	return p.kid
}

func (p staticKeyProvider) GetVerificationKey(kid string) (*rsa.PublicKey, error) {
	if kid != p.kid {
		return nil, security.ErrKeyNotFound
	}
	return &p.private.PublicKey, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memUserRepo) Update(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *memTicketRepo) Create(ctx context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *memTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket, ok := r.tickets[id]; ok {
		copied := ticket
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memTicketRepo) List(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tickets := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		tickets = append(tickets, ticket)
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func (r *memTicketRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Ticket, error) {
	all, _ := r.List(ctx)
	tickets := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if ticket.CreatedBy == userID {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, nil
}

type memResponseRepo struct {
	mu        sync.Mutex
	responses map[string]domain.TicketResponse
}

func newMemResponseRepo() *memResponseRepo {
	return &memResponseRepo{responses: map[string]domain.TicketResponse{}}
}

func (r *memResponseRepo) Create(ctx context.Context, response domain.TicketResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[response.ID] = response
	return nil
}

func (r *memResponseRepo) GetByID(ctx context.Context, id string) (*domain.TicketResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if response, ok := r.responses[id]; ok {
		copied := response
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memResponseRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	responses := make([]domain.TicketResponse, 0)
	for _, response := range r.responses {
		if response.TicketID == ticketID {
			responses = append(responses, response)
		}
	}
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].CreatedAt.Before(responses[j].CreatedAt)
	})
	return responses, nil
}

func (r *memResponseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.responses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.responses, id)
	return nil
}

type memAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[string]domain.Attachment
}

func newMemAttachmentRepo() *memAttachmentRepo {
	return &memAttachmentRepo{attachments: map[string]domain.Attachment{}}
}

func (r *memAttachmentRepo) Create(ctx context.Context, attachment domain.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[attachment.ID] = attachment
	return nil
}

func (r *memAttachmentRepo) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if attachment, ok := r.attachments[id]; ok {
		copied := attachment
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memAttachmentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attachments := make([]domain.Attachment, 0)
	for _, attachment := range r.attachments {
		if attachment.TicketID == ticketID {
			attachments = append(attachments, attachment)
		}
	}
	return attachments, nil
}

func (r *memAttachmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attachments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.attachments, id)
	return nil
}

type testEnv struct {
	router      *gin.Engine
	users       *memUserRepo
	tickets     *memTicketRepo
	responses   *memResponseRepo
	attachments *memAttachmentRepo
	tokens      *usecase.TokenService
	idp         *fakeIdentityProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	provider := staticKeyProvider{private: key, kid: "test-kid"}

	cfg := &config.AppConfig{
		App: config.AppSettings{Name: "helpdesk-portal", Env: "test"},
		JWT: config.JWTSettings{AccessTokenTTL: 15 * time.Minute},
	}

	logger := zaptest.NewLogger(t)

	env := &testEnv{
		users:       newMemUserRepo(),
		tickets:     newMemTicketRepo(),
		responses:   newMemResponseRepo(),
		attachments: newMemAttachmentRepo(),
		idp:         &fakeIdentityProvider{},
	}

	env.tokens = usecase.NewTokenService(cfg, provider, env.users, logger)
	auth := usecase.NewAuthService(env.users, env.tokens, nil, nil, logger)
	oauthSvc := usecase.NewOAuthService(
		env.idp, env.users, env.tokens,
		cache.NewCodeCache(config.AuthCacheSettings{}), nil, logger,
	)
	ticketSvc := usecase.NewTicketService(env.tickets, env.responses, env.attachments, logger)
	access := usecase.NewAccessService(env.tickets, env.responses, env.attachments, logger)
	admin := usecase.NewAdminService(env.users, logger)

	env.router = httproutes.Register(httproutes.Dependencies{
		Config: cfg,
		Logger: logger,
		Services: httproutes.ServiceSet{
			Auth:    auth,
			OAuth:   oauthSvc,
			Tokens:  env.tokens,
			Tickets: ticketSvc,
			Access:  access,
			Admin:   admin,
		},
	})

	return env
}

func (env *testEnv) seedUser(t *testing.T, id, email string, role domain.Role) (domain.User, string) {
	t.Helper()

	user := domain.User{
		ID:           id,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "argon2id$c2FsdA$aGFzaA",
		Role:         role,
		AuthProvider: domain.AuthProviderLocal,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := env.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	token, _, err := env.tokens.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return user, token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var value T
	if err := json.Unmarshal(rr.Body.Bytes(), &value); err != nil {
		t.Fatalf("failed to decode body %q: %v", rr.Body.String(), err)
	}
	return value
}
