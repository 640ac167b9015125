package report

import (
	"strconv"

	"github.com/opsreport/pdreport/pkg/pagerduty"
)

// ScheduleHeader is the column order of the schedules export.
var ScheduleHeader = []string{
	"schedule_id",
	"schedule_name",
	"description",
	"time_zone",
	"oncall_user_id",
	"oncall_user_name",
	"escalation_level",
	"shift_start",
	"shift_end",
}

// ScheduleRow is one (schedule, current on-call) pairing. On-call
// columns are nil on the placeholder row of a schedule with nobody on
// call in the queried window.
type ScheduleRow struct {
	ScheduleID      string
	ScheduleName    string
	Description     string
	TimeZone        string
	OnCallUserID    *string
	OnCallUserName  *string
	EscalationLevel *string
	ShiftStart      *string
	ShiftEnd        *string
}

// FlattenSchedules emits one row per current on-call shift. A schedule
// with zero current on-calls still yields exactly one placeholder row.
func FlattenSchedules(schedules []pagerduty.ScheduleDetail) []ScheduleRow {
	var rows []ScheduleRow
	for _, d := range schedules {
		s := d.Schedule
		if len(d.OnCalls) == 0 {
			rows = append(rows, ScheduleRow{
				ScheduleID:   s.ID,
				ScheduleName: s.Name,
				Description:  s.Description,
				TimeZone:     s.TimeZone,
			})
			continue
		}
		for _, oc := range d.OnCalls {
			rows = append(rows, ScheduleRow{
				ScheduleID:      s.ID,
				ScheduleName:    s.Name,
				Description:     s.Description,
				TimeZone:        s.TimeZone,
				OnCallUserID:    cell(oc.User.ID),
				OnCallUserName:  cell(oc.User.Summary),
				EscalationLevel: cell(strconv.Itoa(oc.EscalationLevel)),
				ShiftStart:      cell(oc.Start),
				ShiftEnd:        cell(oc.End),
			})
		}
	}
	return rows
}

// SchedulesTable renders rows in ScheduleHeader order.
func SchedulesTable(rows []ScheduleRow) Table {
	t := Table{Name: "schedules", Header: ScheduleHeader}
	for _, r := range rows {
		t.Rows = append(t.Rows, []*string{
			cell(r.ScheduleID),
			cell(r.ScheduleName),
			cell(r.Description),
			cell(r.TimeZone),
			r.OnCallUserID,
			r.OnCallUserName,
			r.EscalationLevel,
			r.ShiftStart,
			r.ShiftEnd,
		})
	}
	return t
}
