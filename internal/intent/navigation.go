package intent

import (
	"strings"

	"deadclick/internal/types"
)

// ClassifyNavigation resolves a navigation intent from, in order of
// preference, the runtime navigation record, the element snapshot, and the
// matched expectation. Returns UNKNOWN_NAVIGATION_INTENT when none of them
// names a concrete target.
func ClassifyNavigation(snap *types.ElementSnapshot, nav *types.RouteData, exp *types.Expectation) Navigation {
	var reasons []string

	if nav != nil {
		if nav.HashOnly {
			reasons = append(reasons, "runtime record shows hash-only transition")
			return Navigation{
				Kind:              HashNavigation,
				Target:            nav.ToURL,
				RuntimeDiscovered: nav.RuntimeDiscovered,
				Reasons:           capReasons(reasons),
			}
		}
		if nav.ExpectedRoute != "" {
			reasons = append(reasons, "runtime record names route "+nav.ExpectedRoute)
			return Navigation{
				Kind:              RouteNavigation,
				Target:            nav.ExpectedRoute,
				RuntimeDiscovered: nav.RuntimeDiscovered,
				Reasons:           capReasons(reasons),
			}
		}
		if nav.ToURL != "" {
			reasons = append(reasons, "runtime record names url "+nav.ToURL)
			return Navigation{
				Kind:              URLNavigation,
				Target:            nav.ToURL,
				RuntimeDiscovered: nav.RuntimeDiscovered,
				Reasons:           capReasons(reasons),
			}
		}
	}

	if snap != nil && snap.Href != "" {
		if strings.HasPrefix(snap.Href, "#") {
			reasons = append(reasons, "anchor href is a fragment")
			return Navigation{Kind: HashNavigation, Target: snap.Href, Reasons: capReasons(reasons)}
		}
		reasons = append(reasons, "anchor href "+snap.Href)
		return Navigation{Kind: URLNavigation, Target: snap.Href, Reasons: capReasons(reasons)}
	}

	if exp != nil && strings.Contains(strings.ToLower(exp.Kind), "navigation") && exp.Value != "" {
		reasons = append(reasons, "source promise names target "+exp.Value)
		return Navigation{Kind: RouteNavigation, Target: exp.Value, Reasons: capReasons(reasons)}
	}

	return Navigation{
		Kind:    UnknownNavigation,
		Reasons: []string{"no navigation target resolvable from record, snapshot or promise"},
	}
}

// ContractEvaluable reports whether enough observables exist to evaluate the
// navigation contract at all. Without a route record or an instrumented UI
// channel there is nothing to judge against.
func (n Navigation) ContractEvaluable(nav *types.RouteData, channels types.ChannelPresence) bool {
	if n.Unknown() {
		return false
	}
	return nav != nil || channels.UI
}

// Satisfied evaluates the navigation-specific observable contract: only a
// real route/URL transition proves the promise. Hash-only transitions never
// satisfy it (the guardrails engine additionally downgrades such claims).
func (n Navigation) Satisfied(sig types.Signals, nav *types.RouteData) bool {
	switch n.Kind {
	case RouteNavigation, URLNavigation:
		if nav != nil && nav.Transitioned && !nav.HashOnly {
			return true
		}
		return sig.NavigationChanged || sig.RouteChanged
	case HashNavigation:
		return false
	default:
		return false
	}
}
