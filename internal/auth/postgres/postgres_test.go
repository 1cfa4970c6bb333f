package postgres_test

import (
	"context"
	"testing"
	"time"

	authPostgres "github.com/frahmantamala/attendance-report/internal/auth/postgres"
	sessionDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"github.com/frahmantamala/attendance-report/internal/core/testdb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth repositories", func() {
	var (
		db  *testdb.DB
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	Describe("Repository", func() {
		var repo *authPostgres.Repository

		BeforeEach(func() {
			repo = authPostgres.NewRepository(db.Gorm)
			dept := int64(3)
			Expect(db.Gorm.Create(&userDatamodel.User{
				Username: "alice", FullName: "Alice Doe", PasswordHash: "hash", Role: "user", DepartmentID: &dept,
			}).Error).To(Succeed())
		})

		It("finds credentials by username", func() {
			u, err := repo.GetByUsername(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.PasswordHash).To(Equal("hash"))
		})

		It("returns nil for unknown usernames", func() {
			u, err := repo.GetByUsername(ctx, "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(BeNil())
		})

		It("loads the identity without the hash", func() {
			stored, _ := repo.GetByUsername(ctx, "alice")

			id, err := repo.GetIdentity(ctx, stored.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(id.FullName).To(Equal("Alice Doe"))
			Expect(string(id.Role)).To(Equal("user"))
			Expect(*id.DepartmentID).To(Equal(int64(3)))

			missing, err := repo.GetIdentity(ctx, stored.ID+100)
			Expect(err).NotTo(HaveOccurred())
			Expect(missing).To(BeNil())
		})
	})

	Describe("SessionStore", func() {
		var (
			store *authPostgres.SessionStore
			now   time.Time
		)

		BeforeEach(func() {
			store = authPostgres.NewSessionStore(db.SQLX)
			now = time.Now().UTC().Truncate(time.Second)
		})

		It("round-trips a session", func() {
			s := &sessionDatamodel.Session{Token: "abc", UserID: 7, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
			Expect(store.Create(ctx, s)).To(Succeed())

			got, err := store.Get(ctx, "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserID).To(Equal(int64(7)))
			Expect(got.ExpiresAt.Equal(s.ExpiresAt)).To(BeTrue())
		})

		It("returns nil for unknown tokens and deletes idempotently", func() {
			got, err := store.Get(ctx, "missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())

			Expect(store.Delete(ctx, "missing")).To(Succeed())
		})

		It("rejects duplicate tokens", func() {
			s := &sessionDatamodel.Session{Token: "dup", UserID: 1, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
			Expect(store.Create(ctx, s)).To(Succeed())
			Expect(store.Create(ctx, s)).NotTo(Succeed())
		})

		It("deletes only expired rows", func() {
			Expect(store.Create(ctx, &sessionDatamodel.Session{Token: "old", UserID: 1, ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour)})).To(Succeed())
			Expect(store.Create(ctx, &sessionDatamodel.Session{Token: "new", UserID: 1, ExpiresAt: now.Add(time.Hour), CreatedAt: now})).To(Succeed())

			n, err := store.DeleteExpired(ctx, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			got, _ := store.Get(ctx, "new")
			Expect(got).NotTo(BeNil())
		})
	})
})
