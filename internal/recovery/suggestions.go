// Package recovery suggests fixes for failed socket operations.
package recovery

import (
	"errors"
	"os"
	"regexp"
	"slices"
	"syscall"

	"github.com/acolita/udpseam/internal/adapters/realnet"
	"github.com/acolita/udpseam/internal/config"
	"github.com/acolita/udpseam/internal/probe"
)

// Suggestion represents a recovery suggestion for an error.
type Suggestion struct {
	Error       string   // Description of the detected error
	Category    string   // bind, network, probe or config
	Hints       []string // Things to try
	Explanation string
	Confidence  float64 // Confidence that this suggestion will help
}

// Analyzer matches errors against recovery rules.
type Analyzer struct {
	rules []recoveryRule
}

type recoveryRule struct {
	name    string
	pattern *regexp.Regexp // matched against err.Error() when is fails
	is      func(error) bool
	suggest func() *Suggestion
}

// NewAnalyzer creates a new error analyzer with default rules.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		rules: defaultRules(),
	}
}

// Analyze returns the suggestions matching err, most confident first.
func (a *Analyzer) Analyze(err error) []*Suggestion {
	if err == nil {
		return nil
	}

	msg := err.Error()
	var suggestions []*Suggestion
	for _, rule := range a.rules {
		if rule.matches(err, msg) {
			suggestions = append(suggestions, rule.suggest())
		}
	}

	slices.SortStableFunc(suggestions, func(x, y *Suggestion) int {
		switch {
		case x.Confidence > y.Confidence:
			return -1
		case x.Confidence < y.Confidence:
			return 1
		}
		return 0
	})
	return suggestions
}

func (r recoveryRule) matches(err error, msg string) bool {
	if r.is != nil && r.is(err) {
		return true
	}
	return r.pattern != nil && r.pattern.MatchString(msg)
}

func sentinel(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func defaultRules() []recoveryRule {
	return []recoveryRule{
		{
			name:    "addr_in_use",
			is:      realnet.IsAddrInUse,
			pattern: regexp.MustCompile(`(?i)address already in use|only one usage of each socket address`),
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:       "Address already in use",
					Category:    "bind",
					Hints:       []string{"udpseam freeport", "ss -ulpn"},
					Explanation: "Another socket holds this port. Pick a free one or find the owner.",
					Confidence:  0.9,
				}
			},
		},
		{
			name:    "permission_denied",
			is:      sentinel(os.ErrPermission),
			pattern: regexp.MustCompile(`(?i)permission denied|access is denied|forbidden by its access permissions`),
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:    "Permission denied",
					Category: "bind",
					Hints: []string{
						"use a port above 1023",
						"sudo setcap cap_net_bind_service=+ep $(command -v udpseam)",
					},
					Explanation: "Ports below 1024 need elevated privileges on most systems.",
					Confidence:  0.8,
				}
			},
		},
		{
			name:    "cannot_assign",
			is:      sentinel(syscall.EADDRNOTAVAIL),
			pattern: regexp.MustCompile(`(?i)cannot assign requested address|requested address is not valid`),
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:       "Address not available",
					Category:    "bind",
					Hints:       []string{"--bind 0.0.0.0", "ip -brief address"},
					Explanation: "The bind host is not configured on any local interface.",
					Confidence:  0.8,
				}
			},
		},
		{
			name:    "invalid_config",
			is:      sentinel(config.ErrInvalidConfig),
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:       "Invalid configuration",
					Category:    "config",
					Hints:       []string{"udpseam config init --force"},
					Explanation: "Rewrite the file with defaults and reapply your changes.",
					Confidence:  0.75,
				}
			},
		},
		{
			name:    "connection_refused",
			is:      sentinel(syscall.ECONNREFUSED),
			pattern: regexp.MustCompile(`(?i)connection refused|forcibly closed by the remote host`),
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:       "Port unreachable",
					Category:    "network",
					Hints:       []string{"check the destination port", "ss -ulpn on the target"},
					Explanation: "The target answered with ICMP port unreachable, so nothing listens there.",
					Confidence:  0.75,
				}
			},
		},
		{
			name: "timeout",
			is:   realnet.IsTimeout,
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:       "No reply before the read timeout",
					Category:    "network",
					Hints:       []string{"--timeout 10s", "check firewalls for inbound UDP"},
					Explanation: "The datagram or its reply was lost, or the target ignored it.",
					Confidence:  0.6,
				}
			},
		},
		{
			name: "unexpected_sender",
			is:   sentinel(probe.ErrUnexpectedSender),
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:       "Reply from another address",
					Category:    "probe",
					Hints:       []string{"probe the address the reply came from"},
					Explanation: "Multi-homed hosts may answer from a different interface.",
					Confidence:  0.6,
				}
			},
		},
		{
			name: "short_write",
			is:   sentinel(probe.ErrShortWrite),
			suggest: func() *Suggestion {
				return &Suggestion{
					Error:       "Datagram was not sent whole",
					Category:    "probe",
					Hints:       []string{"shorten --payload"},
					Explanation: "The payload probably exceeds what the socket can send in one datagram.",
					Confidence:  0.5,
				}
			},
		},
	}
}
