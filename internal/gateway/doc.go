// Package gateway implements the check pipeline: validate the target query
// parameter, call the upstream health-check API once and relay its outcome.
//
// Gateway.Handle is transport neutral. It returns a Response that the
// net/http handler and the Lambda adapter render in their own way, so both
// entrypoints share one method policy, one CORS policy and one relay table.
package gateway
