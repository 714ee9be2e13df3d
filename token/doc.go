// Package token decodes session tokens issued by the remote authentication
// service and resolves the caller's role from the embedded authorities claim.
//
// # Architecture boundaries
//
// The processor is local and synchronous: it never contacts the remote
// service and never re-encodes a token. By default claims are decoded
// WITHOUT signature verification — the flow trusts the transport channel
// that delivered the token. [Config.VerifyKey] upgrades the processor to
// full HS256 verification including expiry.
//
// # Role resolution
//
// Exactly one authority containing "ROLE_" is expected. When several match,
// the first in sequence order wins and [Resolution.Ambiguous] is set so the
// caller can surface the anomaly. A claim set with no ROLE_ tag at all is an
// authorization failure, not a fallback case.
package token
