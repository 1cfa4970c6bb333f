package api

import (
	"context"
	"testing"

	"github.com/frahmantamala/attendance-report/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("loads and validates", func() {
		doc, err := Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("Attendance Report API"))
	})

	It("documents every routed path", func() {
		doc, err := Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{
			"/auth/login", "/auth/logout", "/auth/me", "/profile",
			"/departments", "/departments/{id}",
			"/users", "/users/{id}",
			"/reports", "/reports/{id}", "/reports/{id}/review",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
	})

	It("lists the same reasons and statuses the service accepts", func() {
		doc, err := Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		reason := doc.Components.Schemas["CreateReportRequest"].Value.Properties["reasonChoice"].Value
		Expect(enumOf(reason.Enum)).To(Equal(report.ReasonChoices))

		status := doc.Components.Schemas["Report"].Value.Properties["status"].Value
		Expect(enumOf(status.Enum)).To(Equal(report.Statuses))
	})
})

func enumOf(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	return out
}
