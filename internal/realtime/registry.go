// Package realtime pushes alert payloads to the live user and admin dashboards.
package realtime

import (
	"context"
	"sync/atomic"

	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/metrics"

	"go.uber.org/zap"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists the push roles in broadcast order.
var Roles = []Role{RoleUser, RoleAdmin}

// Channel is one live push connection.
type Channel interface {
	ID() string
	Send(ctx context.Context, payload any) error
	Close() error
}

// holder boxes a Channel so a slot can be compared-and-cleared atomically.
type holder struct {
	ch Channel
}

// Registry holds at most one live channel per role. Registration is
// last-connect-wins; there is no backlog and no delivery guarantee.
type Registry struct {
	user  atomic.Pointer[holder]
	admin atomic.Pointer[holder]
	logr  *logger.Logger
}

func NewRegistry(logr *logger.Logger) *Registry {
	if logr == nil {
		logr = logger.Nop()
	}
	return &Registry{logr: logr}
}

func (r *Registry) slot(role Role) *atomic.Pointer[holder] {
	switch role {
	case RoleUser:
		return &r.user
	case RoleAdmin:
		return &r.admin
	default:
		return nil
	}
}

// Register overwrites the role's slot and returns the channel it replaced, if any.
func (r *Registry) Register(role Role, ch Channel) Channel {
	s := r.slot(role)
	if s == nil || ch == nil {
		return nil
	}
	prev := s.Swap(&holder{ch: ch})
	if prev == nil {
		return nil
	}
	return prev.ch
}

// Unregister clears the role's slot only if it still holds ch. A stale disconnect
// therefore never clears a newer connection.
func (r *Registry) Unregister(role Role, ch Channel) bool {
	s := r.slot(role)
	if s == nil {
		return false
	}
	for {
		h := s.Load()
		if h == nil || h.ch != ch {
			return false
		}
		if s.CompareAndSwap(h, nil) {
			return true
		}
	}
}

// Current returns the live channel for role, or nil.
func (r *Registry) Current(role Role) Channel {
	s := r.slot(role)
	if s == nil {
		return nil
	}
	if h := s.Load(); h != nil {
		return h.ch
	}
	return nil
}

// BroadcastReport records what happened to each role during a broadcast.
type BroadcastReport struct {
	Sent   []Role `json:"sent"`
	Failed []Role `json:"failed"`
}

// Broadcast sends payload to every live channel. Failures are logged and
// swallowed; one failing slot never prevents delivery to the other.
func (r *Registry) Broadcast(ctx context.Context, payload any) BroadcastReport {
	var rep BroadcastReport
	for _, role := range Roles {
		ch := r.Current(role)
		if ch == nil {
			metrics.BroadcastsTotal.WithLabelValues(string(role), "absent").Inc()
			continue
		}
		if err := ch.Send(ctx, payload); err != nil {
			r.logr.Warn("broadcast failed",
				zap.String("role", string(role)),
				zap.String("channel_id", ch.ID()),
				zap.Error(err))
			metrics.BroadcastsTotal.WithLabelValues(string(role), "failed").Inc()
			rep.Failed = append(rep.Failed, role)
			continue
		}
		metrics.BroadcastsTotal.WithLabelValues(string(role), "sent").Inc()
		rep.Sent = append(rep.Sent, role)
	}
	return rep
}
