package handler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/proxy-health-gateway/internal/gateway"
	"github.com/angeloszaimis/proxy-health-gateway/internal/handler"
	"github.com/angeloszaimis/proxy-health-gateway/internal/target"
	"github.com/angeloszaimis/proxy-health-gateway/internal/upstream"
)

type checkerFunc func(ctx context.Context, t target.Target) (*upstream.Result, error)

func (f checkerFunc) Check(ctx context.Context, t target.Target) (*upstream.Result, error) {
	return f(ctx, t)
}

var _ = Describe("LambdaHandler", func() {
	var (
		h    *handler.LambdaHandler
		seen []target.Target
		err  error
	)

	BeforeEach(func() {
		seen = nil
		err = nil
		log := slog.New(slog.NewTextHandler(io.Discard, nil))

		checker := checkerFunc(func(_ context.Context, t target.Target) (*upstream.Result, error) {
			seen = append(seen, t)
			if err != nil {
				return nil, err
			}
			return &upstream.Result{StatusCode: 200, Body: []byte(`{"healthy":true}`)}, nil
		})

		h = handler.NewLambdaHandler(log, gateway.New(log, checker, gateway.DefaultOptions()))
	})

	It("should relay a successful check", func() {
		resp, handleErr := h.Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod:            http.MethodGet,
			QueryStringParameters: map[string]string{"target": "1.1.1.1:443"},
		})

		Expect(handleErr).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Body).To(Equal(`{"healthy":true}`))
		Expect(resp.Headers).To(HaveKeyWithValue("Content-Type", "application/json"))
		Expect(resp.Headers).To(HaveKeyWithValue("Access-Control-Allow-Origin", "*"))
		Expect(seen).To(ConsistOf(target.Target{Host: "1.1.1.1", Port: 443}))
	})

	It("should prefer multi-value query parameters", func() {
		_, handleErr := h.Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod:                      http.MethodGet,
			QueryStringParameters:           map[string]string{"target": "9.9.9.9:53"},
			MultiValueQueryStringParameters: map[string][]string{"target": {"8.8.8.8:53", "9.9.9.9:53"}},
		})

		Expect(handleErr).NotTo(HaveOccurred())
		Expect(seen).To(ConsistOf(target.Target{Host: "8.8.8.8", Port: 53}))
	})

	It("should render validation failures as JSON instead of returning an error", func() {
		resp, handleErr := h.Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodGet,
		})

		Expect(handleErr).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(resp.Body).To(ContainSubstring("Missing target query parameter"))
		Expect(seen).To(BeEmpty())
	})

	It("should answer preflight requests", func() {
		resp, handleErr := h.Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodOptions,
		})

		Expect(handleErr).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Body).To(BeEmpty())
		Expect(resp.Headers).To(HaveKeyWithValue("Access-Control-Max-Age", "86400"))
	})

	It("should map upstream failures to 500", func() {
		err = errors.Join(upstream.ErrNetwork, errors.New("dial tcp: connection refused"))

		resp, handleErr := h.Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod:            http.MethodGet,
			QueryStringParameters: map[string]string{"target": "1.1.1.1:443"},
		})

		Expect(handleErr).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(resp.MultiValueHeaders).To(HaveKey("Content-Type"))
	})
})
