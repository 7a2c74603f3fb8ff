package mail

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"
)

// DefaultMXTimeout bounds a single recipient-domain lookup.
const DefaultMXTimeout = 5 * time.Second

// MXResolver is satisfied by *net.Resolver.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// MXValidator checks that a recipient's domain publishes mail exchangers.
type MXValidator struct {
	resolver MXResolver
	timeout  time.Duration
	logger   *slog.Logger
}

// NewMXValidator uses net.DefaultResolver when resolver is nil.
func NewMXValidator(resolver MXResolver, timeout time.Duration, logger *slog.Logger) *MXValidator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = DefaultMXTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MXValidator{resolver: resolver, timeout: timeout, logger: logger}
}

// Validate returns ErrDomainInvalid when the domain of address does not exist,
// has no MX records, or publishes a null MX. Timeouts and temporary DNS
// failures are inconclusive and return nil.
func (v *MXValidator) Validate(ctx context.Context, address string) error {
	domain := Domain(address)
	if domain == "" {
		return ErrDomainInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	records, err := v.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return ErrDomainInvalid
		}
		v.logger.WarnContext(ctx, "MX lookup inconclusive, sending anyway", "domain", domain, "error", err)
		return nil
	}

	if len(records) == 0 {
		return ErrDomainInvalid
	}
	if len(records) == 1 && strings.TrimSuffix(records[0].Host, ".") == "" {
		return ErrDomainInvalid
	}
	return nil
}

// Domain returns the lower-cased part after the last '@', or "".
func Domain(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(address[at+1:]))
}
