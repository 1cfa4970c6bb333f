package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("writes json records at or above the configured level", func() {
		var buf bytes.Buffer
		l := New(&buf, "warn", "json")

		l.Info("dropped")
		l.Warn("kept", "report_id", 7)

		var rec map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &rec)).To(Succeed())
		Expect(rec["msg"]).To(Equal("kept"))
		Expect(rec["report_id"]).To(BeNumerically("==", 7))
	})

	It("carries fields through the context", func() {
		var buf bytes.Buffer
		base := New(&buf, "debug", "json")
		ctx := NewContext(context.Background(), base)

		ctx = With(ctx, "request_id", "abc")
		From(ctx).Info("hello")

		Expect(buf.String()).To(ContainSubstring(`"request_id":"abc"`))
	})

	It("falls back to the default logger without a context value", func() {
		Expect(From(context.Background())).NotTo(BeNil())
	})
})
