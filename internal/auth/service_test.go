package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/attendance-report/internal"
	sessionDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"github.com/frahmantamala/attendance-report/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type mockCredentialRepository struct {
	users         map[string]*userDatamodel.User
	returnError   bool
	errorToReturn error
}

func newMockCredentialRepository() *mockCredentialRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	finance := int64(1)

	return &mockCredentialRepository{
		users: map[string]*userDatamodel.User{
			"alice": {ID: 1, Username: "alice", FullName: "Alice", PasswordHash: string(hashedPassword), Role: "user", DepartmentID: &finance},
			"root":  {ID: 2, Username: "root", FullName: "Root", PasswordHash: string(hashedPassword), Role: "superadmin"},
		},
	}
}

func (m *mockCredentialRepository) GetByUsername(_ context.Context, username string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.users[username], nil
}

func (m *mockCredentialRepository) GetIdentity(_ context.Context, userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, u := range m.users {
		if u.ID == userID {
			return IdentityFromDataModel(u), nil
		}
	}
	return nil, nil
}

type mockSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*sessionDatamodel.Session
	purged    int
	createErr error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]*sessionDatamodel.Session{}}
}

func (m *mockSessionStore) Create(_ context.Context, s *sessionDatamodel.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *s
	m.sessions[s.Token] = &cp
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, token string) (*sessionDatamodel.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[token], nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, token)
			n++
		}
	}
	m.purged++
	return n, nil
}

func (m *mockSessionStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *mockSessionStore) purgeRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purged
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockCredentialRepository
		store    *mockSessionStore
		sessions *SessionManager
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockCredentialRepository()
		store = newMockSessionStore()
		sessions = NewSessionManager(store, mockRepo, 7*24*time.Hour, logger.Discard())
		service = NewService(mockRepo, sessions, logger.Discard())
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("issues a session whose token resolves back to the same identity", func() {
			resp, err := service.Login(ctx, LoginDTO{Username: "alice", Password: "correct_password"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Token).To(gomega.HaveLen(64))
			gomega.Expect(resp.User.Username).To(gomega.Equal("alice"))
			gomega.Expect(resp.ExpiresAt).To(gomega.BeTemporally("~", time.Now().Add(7*24*time.Hour), time.Minute))

			u, err := service.Resolve(ctx, resp.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*u).To(gomega.Equal(*resp.User))
		})

		ginkgo.It("matches usernames case-insensitively", func() {
			resp, err := service.Login(ctx, LoginDTO{Username: "  ALICE ", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.User.ID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("starts a background purge of expired sessions", func() {
			_, err := service.Login(ctx, LoginDTO{Username: "alice", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Eventually(store.purgeRuns).Should(gomega.BeNumerically(">=", 1))
		})

		ginkgo.It("rejects a wrong password without creating a session", func() {
			_, err := service.Login(ctx, LoginDTO{Username: "alice", Password: "nope"})

			gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
			gomega.Expect(store.count()).To(gomega.Equal(0))
		})

		ginkgo.It("gives unknown usernames the same error as wrong passwords", func() {
			_, err := service.Login(ctx, LoginDTO{Username: "nobody", Password: "correct_password"})
			gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
		})

		ginkgo.It("requires both fields", func() {
			_, err := service.Login(ctx, LoginDTO{Username: "alice"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("wraps repository failures as internal errors", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("connection refused")

			_, err := service.Login(ctx, LoginDTO{Username: "alice", Password: "correct_password"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
			gomega.Expect(appErr.Message).NotTo(gomega.ContainSubstring("connection refused"))
		})

		ginkgo.It("fails when the session cannot be stored", func() {
			store.createErr = errors.New("disk full")
			_, err := service.Login(ctx, LoginDTO{Username: "alice", Password: "correct_password"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("revokes the token and is idempotent", func() {
			resp, err := service.Login(ctx, LoginDTO{Username: "root", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Logout(ctx, resp.Token)).To(gomega.Succeed())
			gomega.Expect(service.Logout(ctx, resp.Token)).To(gomega.Succeed())

			_, err = service.Resolve(ctx, resp.Token)
			gomega.Expect(errors.Is(err, internal.ErrInvalidSession)).To(gomega.BeTrue())
		})
	})
})

var _ = ginkgo.Describe("SessionManager", func() {
	var (
		ctx      context.Context
		store    *mockSessionStore
		repo     *mockCredentialRepository
		manager  *SessionManager
		clock    time.Time
		tickTock func() time.Time
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		store = newMockSessionStore()
		repo = newMockCredentialRepository()
		clock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		tickTock = func() time.Time { return clock }
		manager = NewSessionManager(store, repo, 24*time.Hour, logger.Discard()).WithClock(tickTock)
	})

	ginkgo.It("rejects an expired token even before it is purged", func() {
		s, err := manager.CreateSession(ctx, 1)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		clock = clock.Add(24 * time.Hour)

		_, err = manager.ResolveSession(ctx, s.Token)
		gomega.Expect(errors.Is(err, internal.ErrInvalidSession)).To(gomega.BeTrue())
		gomega.Expect(store.count()).To(gomega.Equal(1))
	})

	ginkgo.It("rejects unknown and empty tokens", func() {
		_, err := manager.ResolveSession(ctx, "deadbeef")
		gomega.Expect(errors.Is(err, internal.ErrInvalidSession)).To(gomega.BeTrue())

		_, err = manager.ResolveSession(ctx, "")
		gomega.Expect(errors.Is(err, internal.ErrInvalidSession)).To(gomega.BeTrue())
	})

	ginkgo.It("rejects sessions whose user was deleted", func() {
		s, err := manager.CreateSession(ctx, 99)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = manager.ResolveSession(ctx, s.Token)
		gomega.Expect(errors.Is(err, internal.ErrInvalidSession)).To(gomega.BeTrue())
	})

	ginkgo.It("allows several live sessions per user", func() {
		a, _ := manager.CreateSession(ctx, 1)
		b, _ := manager.CreateSession(ctx, 1)
		gomega.Expect(a.Token).NotTo(gomega.Equal(b.Token))

		gomega.Expect(manager.RevokeSession(ctx, a.Token)).To(gomega.Succeed())
		u, err := manager.ResolveSession(ctx, b.Token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(u.ID).To(gomega.Equal(int64(1)))
	})

	ginkgo.It("purges only expired sessions", func() {
		_, _ = manager.CreateSession(ctx, 1)
		clock = clock.Add(12 * time.Hour)
		live, _ := manager.CreateSession(ctx, 2)
		clock = clock.Add(13 * time.Hour)

		n, err := manager.PurgeExpired(ctx)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(n).To(gomega.Equal(int64(1)))

		_, err = manager.ResolveSession(ctx, live.Token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})
})
