package pagerduty

import (
	"context"
	"fmt"
	"time"
)

// TeamAssociations resolves a team's member users, schedules,
// escalation policies, and services via team-scoped lister calls,
// reduced to {id, name} pairs. Full entity detail is not needed at the
// team level.
func (a *API) TeamAssociations(ctx context.Context, team Team) (TeamDetail, error) {
	detail := TeamDetail{Team: team}

	users, err := a.ListUsers(ctx, team.ID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("team %s users: %w", team.ID, err)
	}
	for _, u := range users {
		detail.Members = append(detail.Members, Ref{ID: u.ID, Name: u.Name})
	}

	schedules, err := a.ListSchedules(ctx, team.ID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("team %s schedules: %w", team.ID, err)
	}
	for _, s := range schedules {
		detail.Schedules = append(detail.Schedules, Ref{ID: s.ID, Name: s.Name})
	}

	policies, err := a.ListEscalationPolicies(ctx, team.ID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("team %s escalation policies: %w", team.ID, err)
	}
	for _, p := range policies {
		detail.Policies = append(detail.Policies, Ref{ID: p.ID, Name: p.Name})
	}

	services, err := a.ListServices(ctx, team.ID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("team %s services: %w", team.ID, err)
	}
	for _, s := range services {
		detail.Services = append(detail.Services, Ref{ID: s.ID, Name: s.Name})
	}

	a.logger.Debug().
		Str("team_id", team.ID).
		Int("members", len(detail.Members)).
		Int("schedules", len(detail.Schedules)).
		Int("policies", len(detail.Policies)).
		Int("services", len(detail.Services)).
		Msg("Resolved team associations")

	return detail, nil
}

// CurrentOnCalls returns who is on call for the schedule right now.
// The API does not embed assignments in the schedule itself, so this
// queries the on-calls collection for a one-second window anchored at
// the current instant instead of pulling days of rotation.
func (a *API) CurrentOnCalls(ctx context.Context, scheduleID string) ([]OnCall, error) {
	now := a.now()
	oncalls, err := a.ListOnCalls(ctx, scheduleID, now, now.Add(time.Second))
	if err != nil {
		return nil, fmt.Errorf("schedule %s on-calls: %w", scheduleID, err)
	}
	return oncalls, nil
}
