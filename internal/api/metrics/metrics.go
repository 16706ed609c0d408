// Package metrics defines and registers all custom Prometheus metrics for
// the feedy API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry
// on package initialisation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedy"

// SignupsTotal counts completed account registrations.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts registered.",
	},
)

// TitlesCreatedTotal counts newly created titles.
var TitlesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "titles_created_total",
		Help:      "Total number of titles created.",
	},
)

// EntriesCreatedTotal counts newly posted entries.
var EntriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Total number of entries posted.",
	},
)

// VotesCastTotal counts votes recorded on entries.
// Label:
//   - direction: "up" or "down"
var VotesCastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of votes cast on entries, by direction.",
	},
	[]string{"direction"},
)

// VotesUndoneTotal counts votes withdrawn by their owner.
var VotesUndoneTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_undone_total",
		Help:      "Total number of votes undone.",
	},
)

// RatingsSubmittedTotal counts title ratings submitted, first-time and
// re-rates alike.
var RatingsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_submitted_total",
		Help:      "Total number of title ratings submitted.",
	},
)

// MailQueueDepth tracks the number of messages waiting in each mail
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)

// MailSentTotal counts successfully delivered messages.
var MailSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of mail messages delivered.",
	},
)

// MailErrorsTotal counts failed deliveries.
var MailErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_errors_total",
		Help:      "Total number of mail deliveries that failed.",
	},
)
