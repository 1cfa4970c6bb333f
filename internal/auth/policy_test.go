package auth

import (
	"errors"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func ptr(v int64) *int64 { return &v }

var _ = ginkgo.Describe("Policy", func() {
	var (
		worker  = &User{ID: 10, Role: RoleUser, DepartmentID: ptr(1)}
		manager = &User{ID: 11, Role: RoleManager, DepartmentID: ptr(1)}
		admin   = &User{ID: 12, Role: RoleAdmin}
		root    = &User{ID: 13, Role: RoleSuperAdmin}
	)

	ginkgo.DescribeTable("Authorize",
		func(u *User, action Action, allowed bool) {
			err := Authorize(u, action)
			if allowed {
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			} else {
				gomega.Expect(errors.Is(err, internal.ErrForbidden)).To(gomega.BeTrue())
			}
		},
		ginkgo.Entry("user submits", worker, ActionReportSubmit, true),
		ginkgo.Entry("manager submits", manager, ActionReportSubmit, true),
		ginkgo.Entry("admin cannot submit", admin, ActionReportSubmit, false),
		ginkgo.Entry("user cannot review", worker, ActionReportReview, false),
		ginkgo.Entry("manager reviews", manager, ActionReportReview, true),
		ginkgo.Entry("manager cannot delete reports", manager, ActionReportDelete, false),
		ginkgo.Entry("admin deletes reports", admin, ActionReportDelete, true),
		ginkgo.Entry("user cannot manage accounts", worker, ActionAccountManage, false),
		ginkgo.Entry("manager creates accounts", manager, ActionAccountCreate, true),
		ginkgo.Entry("manager cannot manage departments", manager, ActionDepartmentManage, false),
		ginkgo.Entry("superadmin manages departments", root, ActionDepartmentManage, true),
		ginkgo.Entry("user reads departments", worker, ActionDepartmentRead, true),
		ginkgo.Entry("unknown action", root, Action("report:export"), false),
	)

	ginkgo.It("treats a missing identity as unauthenticated", func() {
		gomega.Expect(errors.Is(Authorize(nil, ActionProfileSelf), internal.ErrInvalidSession)).To(gomega.BeTrue())
	})

	ginkgo.It("scopes reports by role", func() {
		gomega.Expect(*ReportScopeFor(worker).UserID).To(gomega.Equal(int64(10)))
		gomega.Expect(*ReportScopeFor(manager).DepartmentID).To(gomega.Equal(int64(1)))
		gomega.Expect(ReportScopeFor(admin).Unrestricted()).To(gomega.BeTrue())
		gomega.Expect(ReportScopeFor(&User{Role: RoleManager}).Nothing).To(gomega.BeTrue())
	})

	ginkgo.It("copies ids into scopes so callers cannot alias the identity", func() {
		scope := ReportScopeFor(manager)
		*scope.DepartmentID = 42
		gomega.Expect(*manager.DepartmentID).To(gomega.Equal(int64(1)))
	})

	ginkgo.It("scopes accounts by role", func() {
		m := AccountScopeFor(manager)
		gomega.Expect(m.Allows(20, RoleUser, ptr(1))).To(gomega.BeTrue())
		gomega.Expect(m.Allows(20, RoleUser, ptr(2))).To(gomega.BeFalse())
		gomega.Expect(m.Allows(20, RoleManager, ptr(1))).To(gomega.BeFalse())

		a := AccountScopeFor(admin)
		gomega.Expect(a.Allows(20, RoleUser, ptr(2))).To(gomega.BeTrue())
		gomega.Expect(a.Allows(20, RoleManager, ptr(2))).To(gomega.BeFalse())
		gomega.Expect(a.Allows(admin.ID, RoleAdmin, nil)).To(gomega.BeFalse())

		s := AccountScopeFor(root)
		gomega.Expect(s.Allows(20, RoleAdmin, nil)).To(gomega.BeTrue())
		gomega.Expect(s.Allows(21, RoleSuperAdmin, nil)).To(gomega.BeFalse())
		gomega.Expect(s.Allows(root.ID, RoleSuperAdmin, nil)).To(gomega.BeTrue())

		gomega.Expect(AccountScopeFor(worker).Nothing()).To(gomega.BeTrue())
	})

	ginkgo.It("limits creatable roles", func() {
		gomega.Expect(CreatableRoles(manager)).To(gomega.ConsistOf(RoleUser))
		gomega.Expect(CreatableRoles(admin)).To(gomega.ConsistOf(RoleUser))
		gomega.Expect(CanAssignRole(root, RoleSuperAdmin)).To(gomega.BeTrue())
		gomega.Expect(CreatableRoles(worker)).To(gomega.BeEmpty())
		gomega.Expect(*ForceDepartment(manager)).To(gomega.Equal(int64(1)))
		gomega.Expect(ForceDepartment(admin)).To(gomega.BeNil())
	})

	ginkgo.It("parses only known roles", func() {
		r, ok := ParseRole("manager")
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(r.RequiresDepartment()).To(gomega.BeTrue())

		_, ok = ParseRole("Manager")
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(RoleAdmin.RequiresDepartment()).To(gomega.BeFalse())
	})
})
