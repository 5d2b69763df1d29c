package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/angeloszaimis/proxy-health-gateway/internal/target"
	"github.com/angeloszaimis/proxy-health-gateway/internal/upstream"
)

const TargetParam = "target"

// Checker performs the outbound health check for a validated target.
type Checker interface {
	Check(ctx context.Context, t target.Target) (*upstream.Result, error)
}

type CORSOptions struct {
	Enabled      bool
	AllowOrigin  string
	AllowMethods []string
	MaxAge       time.Duration
}

type Options struct {
	CORS           CORSOptions
	AllowedMethods []string
}

// DefaultOptions mirrors the public deployment: CORS open to any origin and
// GET as the only method that reaches upstream.
func DefaultOptions() Options {
	return Options{
		CORS: CORSOptions{
			Enabled:      true,
			AllowOrigin:  "*",
			AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
			MaxAge:       24 * time.Hour,
		},
		AllowedMethods: []string{http.MethodGet},
	}
}

// Response is the relayed answer for one inbound request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Outcome    Outcome
}

type errorBody struct {
	Error string `json:"error"`
}

type Gateway struct {
	logger  *slog.Logger
	checker Checker
	opts    Options
	allow   string
}

func New(logger *slog.Logger, checker Checker, opts Options) *Gateway {
	methods := make([]string, 0, len(opts.AllowedMethods))
	for _, m := range opts.AllowedMethods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" && !slices.Contains(methods, m) {
			methods = append(methods, m)
		}
	}
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}
	opts.AllowedMethods = methods

	allow := methods
	if opts.CORS.Enabled && !slices.Contains(allow, http.MethodOptions) {
		allow = append(slices.Clone(allow), http.MethodOptions)
	}

	return &Gateway{
		logger:  logger,
		checker: checker,
		opts:    opts,
		allow:   strings.Join(allow, ", "),
	}
}

// Handle runs the check pipeline for one inbound request.
func (g *Gateway) Handle(ctx context.Context, method string, query url.Values) Response {
	method = strings.ToUpper(method)

	if method == http.MethodOptions && g.opts.CORS.Enabled {
		g.logger.Debug("Answering CORS preflight")
		return Response{
			StatusCode: http.StatusOK,
			Header:     g.header(false),
			Outcome:    OutcomePreflight,
		}
	}

	if !slices.Contains(g.opts.AllowedMethods, method) {
		g.logger.Warn("Rejected method", slog.String("method", method))
		resp := g.errorResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed, OutcomeMethodNotAllowed)
		resp.Header.Set("Allow", g.allow)
		return resp
	}

	raw := query.Get(TargetParam)
	t, err := target.Parse(raw)
	if err != nil {
		if errors.Is(err, target.ErrMissingParameter) {
			g.logger.Info("Missing target parameter")
			return g.errorResponse(http.StatusBadRequest, msgMissingTarget, OutcomeMissingParameter)
		}

		g.logger.Info("Invalid target parameter",
			slog.String("target", raw),
			slog.String("error", err.Error()))
		return g.errorResponse(http.StatusBadRequest, msgInvalidTarget, OutcomeInvalidFormat)
	}

	g.logger.Info("Checking proxy health", slog.String("target", t.String()))

	result, err := g.checker.Check(ctx, t)
	if err != nil {
		return g.relayFailure(t, err)
	}

	g.logger.Info("Upstream check succeeded",
		slog.String("target", t.String()),
		slog.Int("upstream_status", result.StatusCode),
		slog.Duration("duration", result.Duration))

	return Response{
		StatusCode: http.StatusOK,
		Header:     g.header(true),
		Body:       result.Body,
		Outcome:    OutcomeSuccess,
	}
}

func (g *Gateway) relayFailure(t target.Target, err error) Response {
	var statusErr *upstream.StatusError

	switch {
	case errors.As(err, &statusErr):
		g.logger.Warn("Upstream returned an error status",
			slog.String("target", t.String()),
			slog.Int("upstream_status", statusErr.StatusCode),
			slog.String("body", statusErr.Body))

		msg := msgUpstreamStatus + statusErr.Status
		if statusErr.Body != "" {
			msg += ": " + statusErr.Body
		}
		return g.errorResponse(relayStatus(statusErr.StatusCode), msg, OutcomeUpstreamStatus)

	case errors.Is(err, upstream.ErrTimeout):
		g.logger.Warn("Upstream check timed out", slog.String("target", t.String()))
		return g.errorResponse(http.StatusGatewayTimeout, msgUpstreamTimeout, OutcomeUpstreamTimeout)

	default:
		g.logger.Error("Error in proxy health check",
			slog.String("target", t.String()),
			slog.String("error", err.Error()))
		return g.errorResponse(http.StatusInternalServerError, msgUpstreamFailure, OutcomeUpstreamFailure)
	}
}

// relayStatus forwards the upstream status unless it cannot be written as a
// final response (1xx or out of range), in which case 502 is used.
func relayStatus(code int) int {
	if code < 200 || code > 599 {
		return http.StatusBadGateway
	}
	return code
}

func (g *Gateway) errorResponse(status int, msg string, outcome Outcome) Response {
	body, err := json.Marshal(errorBody{Error: msg})
	if err != nil {
		body = []byte(`{"error":"internal error"}`)
	}

	return Response{
		StatusCode: status,
		Header:     g.header(true),
		Body:       body,
		Outcome:    outcome,
	}
}

func (g *Gateway) header(withBody bool) http.Header {
	h := make(http.Header)

	if withBody {
		h.Set("Content-Type", "application/json")
	}

	if g.opts.CORS.Enabled {
		h.Set("Access-Control-Allow-Origin", g.opts.CORS.AllowOrigin)
		h.Set("Access-Control-Allow-Methods", strings.Join(g.opts.CORS.AllowMethods, ","))
		h.Set("Access-Control-Max-Age", strconv.Itoa(int(g.opts.CORS.MaxAge.Seconds())))
	}

	return h
}
