package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of successful user registrations",
		},
	)

	DuplicateRegistrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_registrations_total",
			Help: "Total number of registrations rejected for a taken username",
		},
	)

	LoginsSucceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logins_succeeded_total",
			Help: "Total number of successful logins",
		},
	)

	LoginsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_failed_total",
			Help: "Total number of failed logins",
		},
		[]string{"reason"},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of auth tokens issued",
		},
	)

	TokenVerificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_failed_total",
			Help: "Total number of failed auth token verifications",
		},
	)

	TaskAssignments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_assignments_total",
			Help: "Total number of members assigned to tasks",
		},
	)

	MemberCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "member_cache_hits_total",
			Help: "Total number of group member list cache hits",
		},
	)

	MemberCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "member_cache_misses_total",
			Help: "Total number of group member list cache misses",
		},
	)
)
