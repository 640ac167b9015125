package pagerduty

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opsreport/pdreport/pkg/pagination"
)

// API exposes the PagerDuty collections as typed listers. Every lister
// is the paged fetcher bound to one endpoint and result-list field;
// there is no other logic at this layer.
type API struct {
	client pagination.Getter
	logger zerolog.Logger

	// now is the clock used for the current on-call window. Overridden
	// in tests.
	now func() time.Time
}

// New creates an API over the given transport.
func New(g pagination.Getter) *API {
	return &API{
		client: g,
		logger: log.With().Str("component", "pagerduty").Logger(),
		now:    time.Now,
	}
}

// SetClock overrides the clock used for on-call windows (for testing).
func (a *API) SetClock(now func() time.Time) {
	a.now = now
}

// teamScope applies the repeated team filter parameter.
func teamScope(params url.Values, teamIDs []string) url.Values {
	for _, id := range teamIDs {
		params.Add("team_ids[]", id)
	}
	return params
}

// ListUsers lists users, optionally scoped to teams. Contact methods
// are requested embedded so no per-user follow-up call is needed.
func (a *API) ListUsers(ctx context.Context, teamIDs ...string) ([]User, error) {
	params := url.Values{}
	params.Add("include[]", "contact_methods")
	raw, err := pagination.FetchAll(ctx, a.client, "/users", "users", teamScope(params, teamIDs))
	if err != nil {
		return nil, err
	}
	return pagination.Collect[User](raw)
}

// ListTeams lists all teams.
func (a *API) ListTeams(ctx context.Context) ([]Team, error) {
	raw, err := pagination.FetchAll(ctx, a.client, "/teams", "teams", url.Values{})
	if err != nil {
		return nil, err
	}
	return pagination.Collect[Team](raw)
}

// ListSchedules lists schedules, optionally scoped to teams.
func (a *API) ListSchedules(ctx context.Context, teamIDs ...string) ([]Schedule, error) {
	raw, err := pagination.FetchAll(ctx, a.client, "/schedules", "schedules", teamScope(url.Values{}, teamIDs))
	if err != nil {
		return nil, err
	}
	return pagination.Collect[Schedule](raw)
}

// ListEscalationPolicies lists escalation policies, optionally scoped
// to teams.
func (a *API) ListEscalationPolicies(ctx context.Context, teamIDs ...string) ([]EscalationPolicy, error) {
	raw, err := pagination.FetchAll(ctx, a.client, "/escalation_policies", "escalation_policies", teamScope(url.Values{}, teamIDs))
	if err != nil {
		return nil, err
	}
	return pagination.Collect[EscalationPolicy](raw)
}

// ListServices lists services, optionally scoped to teams.
func (a *API) ListServices(ctx context.Context, teamIDs ...string) ([]Service, error) {
	raw, err := pagination.FetchAll(ctx, a.client, "/services", "services", teamScope(url.Values{}, teamIDs))
	if err != nil {
		return nil, err
	}
	return pagination.Collect[Service](raw)
}

// ListOnCalls lists on-call shifts for a schedule within [since, until).
func (a *API) ListOnCalls(ctx context.Context, scheduleID string, since, until time.Time) ([]OnCall, error) {
	params := url.Values{}
	params.Add("schedule_ids[]", scheduleID)
	params.Set("since", since.Format(time.RFC3339))
	params.Set("until", until.Format(time.RFC3339))
	raw, err := pagination.FetchAll(ctx, a.client, "/oncalls", "oncalls", params)
	if err != nil {
		return nil, err
	}
	return pagination.Collect[OnCall](raw)
}
