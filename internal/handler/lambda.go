package handler

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/angeloszaimis/proxy-health-gateway/internal/gateway"
)

// LambdaHandler runs the check pipeline behind an API Gateway proxy
// integration.
type LambdaHandler struct {
	logger  *slog.Logger
	gateway *gateway.Gateway
}

func NewLambdaHandler(logger *slog.Logger, gw *gateway.Gateway) *LambdaHandler {
	return &LambdaHandler{logger: logger, gateway: gw}
}

// Handle never returns an error: every failure is rendered as a JSON
// response so API Gateway does not turn it into a bare 502.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Info("Received request",
		slog.String("client", req.RequestContext.Identity.SourceIP),
		slog.String("method", req.HTTPMethod),
		slog.String("path", req.Path),
		slog.String("request_id", req.RequestContext.RequestID))

	resp := h.gateway.Handle(ctx, req.HTTPMethod, lambdaQuery(req))

	out := events.APIGatewayProxyResponse{
		StatusCode:        resp.StatusCode,
		Headers:           make(map[string]string, len(resp.Header)),
		MultiValueHeaders: make(map[string][]string, len(resp.Header)),
		Body:              string(resp.Body),
	}

	for key, values := range resp.Header {
		out.Headers[key] = values[0]
		out.MultiValueHeaders[key] = values
	}

	h.logger.Info("Sent response",
		slog.Int("status", resp.StatusCode),
		slog.String("outcome", string(resp.Outcome)))

	return out, nil
}

func lambdaQuery(req events.APIGatewayProxyRequest) url.Values {
	q := make(url.Values, len(req.QueryStringParameters))

	for key, values := range req.MultiValueQueryStringParameters {
		q[key] = append([]string(nil), values...)
	}

	for key, value := range req.QueryStringParameters {
		if _, ok := q[key]; !ok {
			q.Set(key, value)
		}
	}

	return q
}
