package target

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	ErrMissingParameter = errors.New("missing target parameter")
	ErrInvalidFormat    = errors.New("invalid target format")
)

// Target identifies the proxy whose health is being queried.
type Target struct {
	Host string
	Port int
}

func (t Target) String() string {
	return t.Host + ":" + strconv.Itoa(t.Port)
}

// Parse turns a raw "host:port" value into a Target.
// Exactly one colon must separate two non-empty segments and the port must
// be made of decimal digits. Hosts are not checked for IP or DNS shape, so
// IPv6 literals and URLs with a scheme are rejected as ErrInvalidFormat.
func Parse(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, ErrMissingParameter
	}

	host, port, found := strings.Cut(raw, ":")
	if !found || strings.Contains(port, ":") {
		return Target{}, fmt.Errorf("%w: expected exactly one ':' in %q", ErrInvalidFormat, raw)
	}

	err := validation.Errors{
		"host": validation.Validate(host, validation.Required),
		"port": validation.Validate(port, validation.Required, is.Digit),
	}.Filter()
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return Target{}, fmt.Errorf("%w: port %q is not a number", ErrInvalidFormat, port)
	}

	return Target{Host: host, Port: n}, nil
}
