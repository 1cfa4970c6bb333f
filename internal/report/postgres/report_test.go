package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/attendance-report/internal/auth"
	reportDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/report"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"github.com/frahmantamala/attendance-report/internal/core/testdb"
	"github.com/frahmantamala/attendance-report/internal/report"
	reportPostgres "github.com/frahmantamala/attendance-report/internal/report/postgres"
	userPostgres "github.com/frahmantamala/attendance-report/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReportPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Postgres Suite")
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("ReportRepository", func() {
	var (
		db   *testdb.DB
		repo report.Repository
		ctx  = context.Background()
		base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	)

	insert := func(userID, deptID int64, offset time.Duration) *reportDatamodel.Report {
		r := &reportDatamodel.Report{
			UserID: userID, FullName: "someone", DepartmentID: deptID, DepartmentName: "dept",
			ReasonChoice: "Other", ReportDate: "2026-03-02", TimeOut: "12:00",
			Status: report.StatusSubmitted, CreatedAt: base.Add(offset),
		}
		Expect(repo.Create(ctx, r)).To(Succeed())
		return r
	}

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = reportPostgres.NewReportRepository(db.Gorm)
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	It("orders by creation time descending with id as tie-breaker", func() {
		first := insert(1, 1, 0)
		second := insert(1, 1, 0)
		third := insert(1, 1, time.Minute)

		rs, err := repo.List(ctx, auth.ReportScope{}, report.ListFilter{Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect([]int64{rs[0].ID, rs[1].ID, rs[2].ID}).To(Equal([]int64{third.ID, second.ID, first.ID}))

		page, err := repo.List(ctx, auth.ReportScope{}, report.ListFilter{Limit: 1, Offset: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(page).To(HaveLen(1))
		Expect(page[0].ID).To(Equal(second.ID))
	})

	It("applies user, department and empty scopes", func() {
		mine := insert(1, 1, 0)
		insert(2, 1, 0)
		insert(3, 2, 0)

		rs, err := repo.List(ctx, auth.ReportScope{UserID: ptr(1)}, report.ListFilter{Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(rs).To(HaveLen(1))
		Expect(rs[0].ID).To(Equal(mine.ID))

		rs, err = repo.List(ctx, auth.ReportScope{DepartmentID: ptr(1)}, report.ListFilter{Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(rs).To(HaveLen(2))

		rs, err = repo.List(ctx, auth.ReportScope{Nothing: true}, report.ListFilter{Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(rs).To(BeEmpty())

		got, err := repo.GetByID(ctx, auth.ReportScope{DepartmentID: ptr(2)}, mine.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNil())
	})

	It("transitions submitted reports exactly once", func() {
		r := insert(1, 1, 0)
		at := base.Add(time.Hour)

		changed, err := repo.MarkReviewed(ctx, auth.ReportScope{DepartmentID: ptr(2)}, r.ID, 9, at)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse())

		changed, err = repo.MarkReviewed(ctx, auth.ReportScope{}, r.ID, 9, at)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		changed, err = repo.MarkReviewed(ctx, auth.ReportScope{}, r.ID, 10, at.Add(time.Hour))
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse())

		got, err := repo.GetByID(ctx, auth.ReportScope{}, r.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Status).To(Equal(report.StatusReviewed))
		Expect(*got.ReviewedBy).To(Equal(int64(9)))
	})

	It("keeps reports when their author is deleted", func() {
		u := &userDatamodel.User{Username: "gone", FullName: "Gone Away", PasswordHash: "x", Role: "user", DepartmentID: ptr(1)}
		Expect(db.Gorm.Create(u).Error).To(Succeed())
		r := insert(u.ID, 1, 0)

		Expect(userPostgres.NewUserRepository(db.Gorm).Delete(ctx, u.ID)).To(Succeed())

		got, err := repo.GetByID(ctx, auth.ReportScope{}, r.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).NotTo(BeNil())
		Expect(got.UserID).To(Equal(u.ID))
	})

	It("deletes within scope only", func() {
		r := insert(1, 1, 0)

		deleted, err := repo.Delete(ctx, auth.ReportScope{UserID: ptr(2)}, r.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(BeFalse())

		deleted, err = repo.Delete(ctx, auth.ReportScope{}, r.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(BeTrue())
	})
})
