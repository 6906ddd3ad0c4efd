package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender belongs to a trusted domain
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new trusted-domain checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(domains))
	names := make([]string, 0, len(domains))
	for _, domain := range domains {
		d := strings.ToLower(strings.TrimSpace(domain))
		if d == "" {
			continue
		}
		normalized[d] = struct{}{}
		names = append(names, d)
	}

	if len(names) > 0 && logger != nil {
		logger.Info("Initialized trusted domain checker", zap.Strings("domains", names))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsWhitelisted checks if the sender's domain is trusted. from may be a bare
// address or a full From header value.
func (c *Checker) IsWhitelisted(from string) bool {
	if len(c.domains) == 0 || from == "" {
		return false
	}

	address := from
	if parsed, err := mail.ParseAddress(from); err == nil {
		address = parsed.Address
	}

	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return false
	}
	domain := strings.ToLower(address[at+1:])

	if _, ok := c.domains[domain]; ok {
		if c.logger != nil {
			c.logger.Debug("Domain is trusted",
				zap.String("domain", domain),
				zap.String("email", from))
		}
		return true
	}
	return false
}
