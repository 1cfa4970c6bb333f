package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/frahmantamala/attendance-report/internal/auth"
	departmentDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"github.com/frahmantamala/attendance-report/internal/core/events"
	"github.com/frahmantamala/attendance-report/internal/core/testdb"
	"github.com/frahmantamala/attendance-report/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("seed", func() {
	var (
		db   *testdb.DB
		ctx  = context.Background()
		opts seedOptions
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		opts = seedOptions{
			Username:    " Root ",
			Password:    "rootpass",
			FullName:    "Root",
			Departments: []string{"Finance", "HR"},
			BCryptCost:  bcrypt.MinCost,
		}
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	It("creates the superadmin and departments once", func() {
		Expect(seed(ctx, db.Gorm, opts, logger.Discard())).To(Succeed())
		Expect(seed(ctx, db.Gorm, opts, logger.Discard())).To(Succeed())

		var users []userDatamodel.User
		Expect(db.Gorm.Find(&users).Error).To(Succeed())
		Expect(users).To(HaveLen(1))
		Expect(users[0].Username).To(Equal("root"))
		Expect(users[0].Role).To(Equal(string(auth.RoleSuperAdmin)))
		Expect(users[0].DepartmentID).To(BeNil())
		Expect(auth.VerifyPassword(users[0].PasswordHash, "rootpass")).To(Succeed())

		var count int64
		Expect(db.Gorm.Model(&departmentDatamodel.Department{}).Count(&count).Error).To(Succeed())
		Expect(count).To(Equal(int64(2)))
	})

	It("requires a usable password", func() {
		opts.Password = "short"
		Expect(seed(ctx, db.Gorm, opts, logger.Discard())).NotTo(Succeed())

		opts.Password = strings.Repeat("a", 73)
		Expect(seed(ctx, db.Gorm, opts, logger.Discard())).NotTo(Succeed())
	})
})

var _ = Describe("event publish", func() {
	It("accepts lifecycle event types only", func() {
		Expect(publishTestEvent(context.Background(), events.EventTypeReportReviewed)).To(Succeed())
		Expect(publishTestEvent(context.Background(), "report.archived")).To(MatchError(ContainSubstring("unknown event type")))
	})
})
