package osdlogin

import (
	"io"

	"github.com/RoCS2024/osdlogin/authclient"
	internalaudit "github.com/RoCS2024/osdlogin/internal/audit"
	internalmetrics "github.com/RoCS2024/osdlogin/internal/metrics"
	"github.com/RoCS2024/osdlogin/session"
	"github.com/RoCS2024/osdlogin/token"
)

// Credentials is the username/password pair entered by the user. It is
// ephemeral: created per submit attempt, never persisted, and the flow's
// working copy is wiped as soon as the remote call returns.
type Credentials struct {
	Username string
	Password string
}

// Role is the authorization category resolved from the session token.
type Role = token.Role

const (
	// RoleGuest routes to the guest area.
	RoleGuest = token.RoleGuest
	// RoleEmployee routes to the employee area.
	RoleEmployee = token.RoleEmployee
	// RoleStudent routes to the student area.
	RoleStudent = token.RoleStudent
)

// LoginResponse is the normalized result of the remote login call.
type LoginResponse = authclient.LoginResponse

// ServerError carries the status and message of a rejected login; retrieve
// it from a returned error with errors.As.
type ServerError = authclient.ServerError

// Session is the durable association of role, token, and identifier
// established by a successful login.
type Session = session.Session

// Outcome is returned by [Flow.Submit] on success.
type Outcome struct {
	Role        Role
	Authority   string
	SubjectID   string
	Destination Destination
}

// AuditEvent is a structured audit record emitted by the flow.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the flow's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricSubmit counts every accepted submit attempt.
	MetricSubmit = internalmetrics.MetricSubmit
	// MetricSubmitRejected counts submits rejected while one was in flight.
	MetricSubmitRejected = internalmetrics.MetricSubmitRejected
	// MetricLoginSuccess counts fully persisted and routed logins.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure counts failed attempts of any kind.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricInvalidCredentials counts 400 rejections.
	MetricInvalidCredentials = internalmetrics.MetricInvalidCredentials
	// MetricServerRejected counts other non-200 rejections.
	MetricServerRejected = internalmetrics.MetricServerRejected
	// MetricNoResponse counts unreachable-server failures.
	MetricNoResponse = internalmetrics.MetricNoResponse
	// MetricRequestFailed counts request construction/send failures.
	MetricRequestFailed = internalmetrics.MetricRequestFailed
	// MetricMissingSubjectID counts 200 responses without a subject identifier.
	MetricMissingSubjectID = internalmetrics.MetricMissingSubjectID
	// MetricMissingToken counts 200 responses without a token header.
	MetricMissingToken = internalmetrics.MetricMissingToken
	// MetricUnauthorized counts tokens yielding no recognized role.
	MetricUnauthorized = internalmetrics.MetricUnauthorized
	// MetricRoleAmbiguous counts tokens carrying more than one ROLE_ tag.
	MetricRoleAmbiguous = internalmetrics.MetricRoleAmbiguous
	// MetricSessionSaveFailed counts persistence failures after a 200.
	MetricSessionSaveFailed = internalmetrics.MetricSessionSaveFailed
	// MetricRoutedGuest counts dispatches to the guest area.
	MetricRoutedGuest = internalmetrics.MetricRoutedGuest
	// MetricRoutedEmployee counts dispatches to the employee area.
	MetricRoutedEmployee = internalmetrics.MetricRoutedEmployee
	// MetricRoutedStudent counts dispatches to the student area.
	MetricRoutedStudent = internalmetrics.MetricRoutedStudent
	// MetricLogout counts explicit session clears.
	MetricLogout = internalmetrics.MetricLogout
)

// Metrics holds atomic counters for login-flow outcomes.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{Enabled: cfg.Enabled})
}
