package osdlogin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RoCS2024/osdlogin/authclient"
	"github.com/RoCS2024/osdlogin/session"
	"github.com/RoCS2024/osdlogin/token"
)

const (
	stateIdle int32 = iota
	stateSubmitting
)

// Flow drives the login sequence: remote call, token resolution, session
// persistence, and routing dispatch. Build one through [Builder.Build].
//
// A Flow accepts at most one submit at a time. Submit returns
// [ErrSubmitInFlight] when called while another attempt is running, and the
// flow returns to the idle state once the attempt settles either way.
type Flow struct {
	config    Config
	client    *authclient.Client
	tokens    *token.Processor
	store     session.Store
	navigator Navigator
	audit     *auditDispatcher
	metrics   *Metrics
	logger    *zap.Logger

	state atomic.Int32

	msgMu       sync.Mutex
	lastMessage *Message
}

// Submit runs one complete login attempt with the given credentials.
//
// On success the session is durably saved, the navigator receives exactly one
// Navigate call, and the returned Outcome describes the routed destination.
// On failure nothing is navigated, no partial session survives, and the
// returned error matches one sentinel of the flow's error taxonomy; the
// user-facing classification is available through LastMessage.
func (f *Flow) Submit(ctx context.Context, creds Credentials) (*Outcome, error) {
	if f == nil || f.client == nil {
		return nil, ErrFlowNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if !f.state.CompareAndSwap(stateIdle, stateSubmitting) {
		f.metricInc(MetricSubmitRejected)
		f.emitAudit(ctx, AuditEvent{
			EventType: auditEventSubmitRejected,
			Username:  creds.Username,
		})
		return nil, ErrSubmitInFlight
	}
	defer f.state.Store(stateIdle)

	f.setMessage(nil)
	f.metricInc(MetricSubmit)

	attemptID := uuid.NewString()
	username := creds.Username

	resp, err := f.client.Login(ctx, creds.Username, creds.Password)
	creds.Username, creds.Password = "", ""
	if err != nil {
		return nil, f.fail(ctx, attemptID, username, "", err)
	}

	if resp.SubjectID == "" {
		return nil, f.fail(ctx, attemptID, username, "", ErrMissingSubjectID)
	}
	if resp.Token == "" {
		return nil, f.fail(ctx, attemptID, username, resp.SubjectID, ErrMissingToken)
	}

	resolution, err := f.tokens.Resolve(resp.Token)
	if err != nil {
		return nil, f.fail(ctx, attemptID, username, resp.SubjectID, errors.Join(ErrUnauthorized, err))
	}
	if resolution.Ambiguous {
		f.metricInc(MetricRoleAmbiguous)
		f.emitAudit(ctx, AuditEvent{
			EventType: auditEventRoleAmbiguous,
			AttemptID: attemptID,
			Username:  username,
			SubjectID: resp.SubjectID,
			Authority: resolution.Authority,
			Success:   true,
			Metadata: map[string]string{
				"authorities": strings.Join(resolution.Authorities, ","),
			},
		})
		f.logger.Warn("multiple role authorities in token, first match wins",
			zap.String("attempt_id", attemptID),
			zap.Strings("authorities", resolution.Authorities),
			zap.String("selected", resolution.Authority),
		)
	}

	sess := &session.Session{
		Authority:     resolution.Authority,
		Token:         resp.Token,
		SubjectID:     resp.SubjectID,
		IdentifierKey: identifierKeyFor(resolution.Role),
	}
	if err := f.store.Save(ctx, sess); err != nil {
		if clearErr := f.store.Clear(ctx); clearErr != nil {
			f.logger.Warn("session clear after failed save also failed",
				zap.String("attempt_id", attemptID),
				zap.Error(clearErr),
			)
		} else {
			f.emitAudit(ctx, AuditEvent{
				EventType: auditEventSessionCleared,
				AttemptID: attemptID,
				SubjectID: resp.SubjectID,
				Success:   true,
			})
		}
		return nil, f.fail(ctx, attemptID, username, resp.SubjectID, errors.Join(ErrSessionPersistence, err))
	}

	dest := Route(resolution.Role, resp.SubjectID)
	f.navigator.Navigate(dest)

	f.metricInc(MetricLoginSuccess)
	f.metricInc(routedMetricFor(resolution.Role))
	f.emitAudit(ctx, AuditEvent{
		EventType: auditEventLoginSuccess,
		AttemptID: attemptID,
		Username:  username,
		SubjectID: resp.SubjectID,
		Authority: resolution.Authority,
		Success:   true,
		Metadata: map[string]string{
			"role": resolution.Role.String(),
			"area": string(dest.Area),
		},
	})
	f.logger.Info("login succeeded",
		zap.String("attempt_id", attemptID),
		zap.String("subject_id", resp.SubjectID),
		zap.String("role", resolution.Role.String()),
	)

	return &Outcome{
		Role:        resolution.Role,
		Authority:   resolution.Authority,
		SubjectID:   resp.SubjectID,
		Destination: dest,
	}, nil
}

func (f *Flow) fail(ctx context.Context, attemptID, username, subjectID string, err error) error {
	f.metricInc(MetricLoginFailure)
	if id := failureMetricFor(err); id != MetricLoginFailure {
		f.metricInc(id)
	}

	msg := Classify(err)
	f.setMessage(&msg)

	f.emitAudit(ctx, AuditEvent{
		EventType: auditEventLoginFailure,
		AttemptID: attemptID,
		Username:  username,
		SubjectID: subjectID,
		Error:     err.Error(),
	})
	f.logger.Warn("login failed",
		zap.String("attempt_id", attemptID),
		zap.Error(err),
	)

	return err
}

func failureMetricFor(err error) MetricID {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return MetricInvalidCredentials
	case errors.Is(err, ErrServerRejected):
		return MetricServerRejected
	case errors.Is(err, ErrNoResponse):
		return MetricNoResponse
	case errors.Is(err, ErrRequestFailed):
		return MetricRequestFailed
	case errors.Is(err, ErrMissingSubjectID):
		return MetricMissingSubjectID
	case errors.Is(err, ErrMissingToken):
		return MetricMissingToken
	case errors.Is(err, ErrUnauthorized):
		return MetricUnauthorized
	case errors.Is(err, ErrSessionPersistence):
		return MetricSessionSaveFailed
	default:
		return MetricLoginFailure
	}
}

func routedMetricFor(role Role) MetricID {
	switch role {
	case RoleGuest:
		return MetricRoutedGuest
	case RoleEmployee:
		return MetricRoutedEmployee
	default:
		return MetricRoutedStudent
	}
}

// LastMessage returns the user-facing classification of the most recent
// failed submit, or nil when the last submit succeeded or none has run.
func (f *Flow) LastMessage() *Message {
	f.msgMu.Lock()
	defer f.msgMu.Unlock()
	if f.lastMessage == nil {
		return nil
	}
	msg := *f.lastMessage
	return &msg
}

func (f *Flow) setMessage(msg *Message) {
	f.msgMu.Lock()
	defer f.msgMu.Unlock()
	f.lastMessage = msg
}

// Session loads the persisted session, if any. It returns
// [session.ErrNotFound] when no session is stored.
func (f *Flow) Session(ctx context.Context) (*Session, error) {
	if f == nil || f.store == nil {
		return nil, ErrFlowNotReady
	}
	return f.store.Load(ctx)
}

// Logout clears the persisted session. Clearing an empty store is not an
// error.
func (f *Flow) Logout(ctx context.Context) error {
	if f == nil || f.store == nil {
		return ErrFlowNotReady
	}
	if err := f.store.Clear(ctx); err != nil {
		return err
	}
	f.metricInc(MetricLogout)
	f.emitAudit(ctx, AuditEvent{
		EventType: auditEventLogout,
		Success:   true,
	})
	return nil
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (f *Flow) MetricsSnapshot() MetricsSnapshot {
	return f.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (f *Flow) AuditDropped() uint64 {
	return f.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The flow must not be used
// after Close.
func (f *Flow) Close() {
	if f == nil {
		return
	}
	f.audit.Close()
}

func (f *Flow) metricInc(id MetricID) {
	if f.metrics != nil {
		f.metrics.Inc(id)
	}
}

func (f *Flow) emitAudit(ctx context.Context, event AuditEvent) {
	if f.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	f.audit.Emit(ctx, event)
}
