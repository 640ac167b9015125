package report

import (
	"github.com/opsreport/pdreport/pkg/pagerduty"
)

// TeamHeader is the column order of the teams export.
var TeamHeader = []string{
	"team_id",
	"team_name",
	"user_id",
	"user_name",
	"schedule_id",
	"schedule_name",
	"escalation_policy_id",
	"escalation_policy_name",
	"service_id",
	"service_name",
}

// TeamRow is one association entry in the sparse wide teams table:
// exactly one of the user/schedule/policy/service column pairs is set
// per row, or none on the placeholder row of an empty association.
type TeamRow struct {
	TeamID   string
	TeamName string

	UserID   *string
	UserName *string

	ScheduleID   *string
	ScheduleName *string

	PolicyID   *string
	PolicyName *string

	ServiceID   *string
	ServiceName *string
}

// FlattenTeams emits one row per association member for each of the
// four kinds independently, not a join: a team with 3 users, 2
// schedules, 1 policy and 0 services yields 3+2+1+1 rows, the last
// being the services placeholder. Every kind contributes at least one
// row so empty associations stay visible.
func FlattenTeams(teams []pagerduty.TeamDetail) []TeamRow {
	var rows []TeamRow
	for _, d := range teams {
		base := TeamRow{TeamID: d.Team.ID, TeamName: d.Team.Name}

		rows = append(rows, teamKindRows(base, d.Members, func(r *TeamRow, ref pagerduty.Ref) {
			r.UserID, r.UserName = cell(ref.ID), cell(ref.Name)
		})...)
		rows = append(rows, teamKindRows(base, d.Schedules, func(r *TeamRow, ref pagerduty.Ref) {
			r.ScheduleID, r.ScheduleName = cell(ref.ID), cell(ref.Name)
		})...)
		rows = append(rows, teamKindRows(base, d.Policies, func(r *TeamRow, ref pagerduty.Ref) {
			r.PolicyID, r.PolicyName = cell(ref.ID), cell(ref.Name)
		})...)
		rows = append(rows, teamKindRows(base, d.Services, func(r *TeamRow, ref pagerduty.Ref) {
			r.ServiceID, r.ServiceName = cell(ref.ID), cell(ref.Name)
		})...)
	}
	return rows
}

// teamKindRows expands one association kind into rows, substituting a
// single placeholder row when the kind has no members.
func teamKindRows(base TeamRow, refs []pagerduty.Ref, set func(*TeamRow, pagerduty.Ref)) []TeamRow {
	if len(refs) == 0 {
		return []TeamRow{base}
	}
	rows := make([]TeamRow, 0, len(refs))
	for _, ref := range refs {
		row := base
		set(&row, ref)
		rows = append(rows, row)
	}
	return rows
}

// TeamsTable renders rows in TeamHeader order.
func TeamsTable(rows []TeamRow) Table {
	t := Table{Name: "teams", Header: TeamHeader}
	for _, r := range rows {
		t.Rows = append(t.Rows, []*string{
			cell(r.TeamID),
			cell(r.TeamName),
			r.UserID,
			r.UserName,
			r.ScheduleID,
			r.ScheduleName,
			r.PolicyID,
			r.PolicyName,
			r.ServiceID,
			r.ServiceName,
		})
	}
	return t
}
