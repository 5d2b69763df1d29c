package gateway

type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomePreflight        Outcome = "preflight"
	OutcomeMethodNotAllowed Outcome = "method_not_allowed"
	OutcomeMissingParameter Outcome = "missing_parameter"
	OutcomeInvalidFormat    Outcome = "invalid_format"
	OutcomeUpstreamStatus   Outcome = "upstream_status"
	OutcomeUpstreamTimeout  Outcome = "upstream_timeout"
	OutcomeUpstreamFailure  Outcome = "upstream_failure"
)

const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgMissingTarget    = "Missing target query parameter (e.g., ?target=1.1.1.1:443)"
	msgInvalidTarget    = "Invalid target format. Use ip:port"
	msgUpstreamTimeout  = "Upstream health check timed out"
	msgUpstreamFailure  = "An error occurred while checking proxy health."
	msgUpstreamStatus   = "External API error: "
)
