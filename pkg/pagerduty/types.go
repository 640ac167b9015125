// Package pagerduty provides typed access to the PagerDuty collections
// this tool reports on: users, teams, schedules, escalation policies,
// services, and on-call shifts.
package pagerduty

// Contact method types with special address handling. Anything else is
// treated as a phone-like method.
const (
	ContactTypeEmail = "email_contact_method"
	ContactTypePush  = "push_notification_contact_method"
)

// APIObject is the reference shape PagerDuty embeds inside other
// entities: an id, a type tag, and a human-readable summary.
type APIObject struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

// Ref is a reduced {id, name} pair used where full entity detail is not
// needed, such as a team's resolved associations.
type Ref struct {
	ID   string
	Name string
}

// ContactMethod is one way a user is notified. Address semantics depend
// on Type: a literal address for email, nothing useful for push, and a
// number plus country code for phone-like methods.
type ContactMethod struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Address     string `json:"address"`
	CountryCode int    `json:"country_code"`
}

// User is an account member, with contact methods embedded via the
// include[]=contact_methods expansion.
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	ContactMethods []ContactMethod `json:"contact_methods"`
}

// Team groups users, schedules, escalation policies, and services. The
// associations are not embedded; see API.TeamAssociations.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamDetail is a team plus its resolved associations.
type TeamDetail struct {
	Team      Team
	Members   []Ref
	Schedules []Ref
	Policies  []Ref
	Services  []Ref
}

// EscalationRule is one step of a policy: wait the delay, then notify
// the targets.
type EscalationRule struct {
	ID                       string      `json:"id"`
	EscalationDelayInMinutes int         `json:"escalation_delay_in_minutes"`
	Targets                  []APIObject `json:"targets"`
}

// EscalationPolicy is an ordered chain of escalation rules.
type EscalationPolicy struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	EscalationRules []EscalationRule `json:"escalation_rules"`
}

// Schedule is an on-call rotation. Current assignments are not embedded;
// see API.CurrentOnCalls.
type Schedule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TimeZone    string `json:"time_zone"`
}

// ScheduleDetail is a schedule plus its current on-call shifts.
type ScheduleDetail struct {
	Schedule Schedule
	OnCalls  []OnCall
}

// OnCall is one time-bounded assignment of a user to a schedule at an
// escalation tier. Start/End are RFC3339 strings as received.
type OnCall struct {
	User            APIObject `json:"user"`
	EscalationLevel int       `json:"escalation_level"`
	Start           string    `json:"start"`
	End             string    `json:"end"`
}

// Service is an entity incidents are raised against.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
