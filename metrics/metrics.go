// Package metrics counts beacon activity.
//
// Hosts export the counters over HTTP; the device keeps no-op stubs.
package metrics

// Resync failure reasons.
const (
	ReasonNoCredentials = "no_credentials"
	ReasonJoin          = "join"
	ReasonQuery         = "query"
)
