package validation

import (
	"testing"

	errors "github.com/frahmantamala/attendance-report/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func details(err *errors.AppError) []errors.ValidationError {
	return err.Details.(errors.ValidationErrors).Errors
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := NewValidator()
		v.Field("reportDate", "2024-03-01").Required().Layout(DateLayout, "YYYY-MM-DD", errors.ErrCodeInvalidDate)
		v.Field("timeOut", "09:00").Required().Layout(ClockLayout, "HH:MM", errors.ErrCodeInvalidTime)
		Expect(v.Validate()).To(BeNil())
	})

	It("reports one error per failing field", func() {
		v := NewValidator()
		v.Field("reasonChoice", "").Required().OneOf([]string{"a"}, errors.ErrCodeInvalidChoice)
		v.Field("timeOut", "9:00").Required().Layout(ClockLayout, "HH:MM", errors.ErrCodeInvalidTime)

		err := v.Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.StatusCode).To(Equal(400))
		Expect(details(err)).To(HaveLen(2))
		Expect(details(err)[0].Field).To(Equal("reasonChoice"))
		Expect(details(err)[0].Message).To(Equal("reasonChoice is required"))
		Expect(details(err)[1].Code).To(Equal(string(errors.ErrCodeInvalidTime)))
		Expect(err.Message).To(Equal("reasonChoice is required"))
	})

	It("rejects malformed dates and out of range clock times", func() {
		v := NewValidator()
		v.Field("reportDate", "2024-13-01").Layout(DateLayout, "YYYY-MM-DD", errors.ErrCodeInvalidDate)
		v.Field("timeReturn", "24:10").Layout(ClockLayout, "HH:MM", errors.ErrCodeInvalidTime)
		Expect(details(v.Validate())).To(HaveLen(2))
	})

	It("skips optional empty values", func() {
		var missing *string
		blank := ""
		v := NewValidator()
		v.Field("timeReturn", missing).Optional().Layout(ClockLayout, "HH:MM", errors.ErrCodeInvalidTime)
		v.Field("note", &blank).Optional().MaxLength(3)
		Expect(v.Validate()).To(BeNil())
	})

	It("counts characters, not bytes, for length rules", func() {
		v := NewValidator()
		v.Field("fullName", "Žaneta").MaxLength(6)
		Expect(v.Validate()).To(BeNil())

		v = NewValidator()
		v.Field("password", "12345").MinLength(6)
		Expect(details(v.Validate())[0].Message).To(Equal("password must be at least 6 characters"))
	})
})
