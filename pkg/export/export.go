// Package export orchestrates the per-entity-kind export passes:
// lister, then relationship resolution where needed, then flattening,
// then the tabular sink.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opsreport/pdreport/pkg/pagerduty"
	"github.com/opsreport/pdreport/pkg/report"
	"github.com/opsreport/pdreport/pkg/sink"
)

// Prometheus metrics for export passes.
var (
	exportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdreport_export_rows_total",
		Help: "Total rows written by entity kind",
	}, []string{"kind"})

	exportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pdreport_export_duration_seconds",
		Help:    "Export pass duration in seconds by entity kind",
		Buckets: []float64{0.5, 1, 5, 15, 60, 300},
	}, []string{"kind"})

	exportFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdreport_export_failures_total",
		Help: "Failed export passes by entity kind",
	}, []string{"kind"})
)

// Exporter runs the export passes. Each pass is sequential and
// independent; no state is shared between entity kinds.
type Exporter struct {
	api    *pagerduty.API
	sink   sink.Sink
	logger zerolog.Logger
}

// New creates an Exporter.
func New(api *pagerduty.API, s sink.Sink) *Exporter {
	return &Exporter{
		api:    api,
		sink:   s,
		logger: log.With().Str("component", "exporter").Logger(),
	}
}

// Users exports users with one row per contact method.
func (e *Exporter) Users(ctx context.Context) error {
	return e.run("users", func() (report.Table, error) {
		users, err := e.api.ListUsers(ctx)
		if err != nil {
			return report.Table{}, fmt.Errorf("list users: %w", err)
		}
		return report.UsersTable(report.FlattenUsers(users)), nil
	})
}

// Teams exports teams with their resolved member, schedule, escalation
// policy, and service associations.
func (e *Exporter) Teams(ctx context.Context) error {
	return e.run("teams", func() (report.Table, error) {
		teams, err := e.api.ListTeams(ctx)
		if err != nil {
			return report.Table{}, fmt.Errorf("list teams: %w", err)
		}

		details := make([]pagerduty.TeamDetail, 0, len(teams))
		for _, team := range teams {
			detail, err := e.api.TeamAssociations(ctx, team)
			if err != nil {
				return report.Table{}, err
			}
			details = append(details, detail)
		}
		return report.TeamsTable(report.FlattenTeams(details)), nil
	})
}

// Schedules exports schedules with their current on-call assignments.
func (e *Exporter) Schedules(ctx context.Context) error {
	return e.run("schedules", func() (report.Table, error) {
		schedules, err := e.api.ListSchedules(ctx)
		if err != nil {
			return report.Table{}, fmt.Errorf("list schedules: %w", err)
		}

		details := make([]pagerduty.ScheduleDetail, 0, len(schedules))
		for _, schedule := range schedules {
			oncalls, err := e.api.CurrentOnCalls(ctx, schedule.ID)
			if err != nil {
				return report.Table{}, err
			}
			details = append(details, pagerduty.ScheduleDetail{
				Schedule: schedule,
				OnCalls:  oncalls,
			})
		}
		return report.SchedulesTable(report.FlattenSchedules(details)), nil
	})
}

// EscalationPolicies exports policies with one row per rule target.
func (e *Exporter) EscalationPolicies(ctx context.Context) error {
	return e.run("escalation_policies", func() (report.Table, error) {
		policies, err := e.api.ListEscalationPolicies(ctx)
		if err != nil {
			return report.Table{}, fmt.Errorf("list escalation policies: %w", err)
		}
		return report.PoliciesTable(report.FlattenPolicies(policies)), nil
	})
}

// Services exports services.
func (e *Exporter) Services(ctx context.Context) error {
	return e.run("services", func() (report.Table, error) {
		services, err := e.api.ListServices(ctx)
		if err != nil {
			return report.Table{}, fmt.Errorf("list services: %w", err)
		}
		return report.ServicesTable(report.FlattenServices(services)), nil
	})
}

// All runs every export pass sequentially. A failing pass aborts only
// that entity kind; the remaining passes still run and all failures are
// joined into the returned error.
func (e *Exporter) All(ctx context.Context) error {
	passes := []struct {
		kind string
		run  func(context.Context) error
	}{
		{"users", e.Users},
		{"teams", e.Teams},
		{"schedules", e.Schedules},
		{"escalation_policies", e.EscalationPolicies},
		{"services", e.Services},
	}

	var errs []error
	for _, pass := range passes {
		if err := pass.run(ctx); err != nil {
			e.logger.Error().Err(err).Str("kind", pass.kind).Msg("Export pass failed")
			errs = append(errs, fmt.Errorf("%s: %w", pass.kind, err))
		}
	}
	return errors.Join(errs...)
}

// run executes one export pass with timing, metrics, and logging.
func (e *Exporter) run(kind string, build func() (report.Table, error)) error {
	startTime := time.Now()
	defer func() {
		exportDuration.WithLabelValues(kind).Observe(time.Since(startTime).Seconds())
	}()

	e.logger.Info().Str("kind", kind).Msg("Export pass started")

	table, err := build()
	if err != nil {
		exportFailuresTotal.WithLabelValues(kind).Inc()
		return err
	}

	if err := e.sink.Write(table); err != nil {
		exportFailuresTotal.WithLabelValues(kind).Inc()
		return fmt.Errorf("write %s: %w", kind, err)
	}

	exportRowsTotal.WithLabelValues(kind).Add(float64(len(table.Rows)))

	e.logger.Info().
		Str("kind", kind).
		Int("rows", len(table.Rows)).
		Dur("duration", time.Since(startTime)).
		Msg("Export pass complete")

	return nil
}
