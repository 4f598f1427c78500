// Package metrics provides application-level counters using stdlib expvar.
// Counters are automatically exported on the /debug/vars HTTP endpoint
// when net/http/pprof is imported in the main binary.
package metrics

import "expvar"

// Operation counters.
var (
	PersonaAddTotal = expvar.NewInt("crewdesk_persona_add_total")
	BrainAddTotal   = expvar.NewInt("crewdesk_brain_add_total")
	BrainSearch     = expvar.NewInt("crewdesk_brain_search_total")
	RouteTotal      = expvar.NewInt("crewdesk_route_total")
	ChatSendTotal   = expvar.NewInt("crewdesk_chat_send_total")
	AnalyzeTotal    = expvar.NewInt("crewdesk_analyze_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
