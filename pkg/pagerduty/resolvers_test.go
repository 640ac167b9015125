package pagerduty

import (
	"context"
	"testing"
	"time"

	"github.com/opsreport/pdreport/internal/testutil"
)

func TestTeamAssociations(t *testing.T) {
	mock := newAssociationsMock(t)
	defer mock.Close()

	api := newTestAPI(t, mock)
	detail, err := api.TeamAssociations(context.Background(), Team{ID: "T1", Name: "Platform"})
	if err != nil {
		t.Fatalf("TeamAssociations() error: %v", err)
	}

	if detail.Team.ID != "T1" {
		t.Errorf("Team.ID = %q, want T1", detail.Team.ID)
	}
	if len(detail.Members) != 2 || detail.Members[0] != (Ref{ID: "U1", Name: "Alice"}) {
		t.Errorf("Members = %+v, want reduced {id, name} pairs", detail.Members)
	}
	if len(detail.Schedules) != 1 || detail.Schedules[0].Name != "Primary Rotation" {
		t.Errorf("Schedules = %+v, want one reduced pair", detail.Schedules)
	}
	if len(detail.Policies) != 1 || detail.Policies[0].ID != "EP1" {
		t.Errorf("Policies = %+v, want one reduced pair", detail.Policies)
	}
	if len(detail.Services) != 0 {
		t.Errorf("Services = %+v, want empty", detail.Services)
	}
}

func TestTeamAssociations_ErrorPropagates(t *testing.T) {
	mock := newAssociationsMock(t)
	defer mock.Close()
	mock.SetStatus("/schedules", 500, `{"error": {"message": "boom"}}`)

	api := newTestAPI(t, mock)
	if _, err := api.TeamAssociations(context.Background(), Team{ID: "T1"}); err == nil {
		t.Fatal("Expected error when one association fetch fails, got nil")
	}
}

func TestCurrentOnCalls_Window(t *testing.T) {
	mock := newAssociationsMock(t)
	defer mock.Close()
	mock.SetCollection("/oncalls", "oncalls", []string{
		`{"user": {"id": "U1", "summary": "Alice"}, "escalation_level": 1,
		  "start": "2026-08-29T00:00:00Z", "end": "2026-08-30T00:00:00Z"}`,
	})

	api := newTestAPI(t, mock)
	fixed := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	api.SetClock(func() time.Time { return fixed })

	oncalls, err := api.CurrentOnCalls(context.Background(), "SCHED1")
	if err != nil {
		t.Fatalf("CurrentOnCalls() error: %v", err)
	}
	if len(oncalls) != 1 {
		t.Fatalf("len(oncalls) = %d, want 1", len(oncalls))
	}

	// The window is one second anchored at the injected clock, so only
	// the current holder is returned, never the full rotation.
	query := mock.Query()
	if got := query["since"]; len(got) != 1 || got[0] != "2026-08-29T15:30:00Z" {
		t.Errorf("since = %v, want the fixed clock instant", got)
	}
	if got := query["until"]; len(got) != 1 || got[0] != "2026-08-29T15:30:01Z" {
		t.Errorf("until = %v, want one second later", got)
	}
}

// newAssociationsMock serves the four team-scoped collections used by
// TeamAssociations: two members, one schedule, one policy, no services.
func newAssociationsMock(t *testing.T) *testutil.MockPagerDuty {
	t.Helper()

	mock := testutil.NewMockPagerDuty()
	mock.SetCollection("/users", "users", []string{
		`{"id": "U1", "name": "Alice", "email": "alice@example.com"}`,
		`{"id": "U2", "name": "Bob", "email": "bob@example.com"}`,
	})
	mock.SetCollection("/schedules", "schedules", []string{
		`{"id": "SCHED1", "name": "Primary Rotation", "time_zone": "UTC"}`,
	})
	mock.SetCollection("/escalation_policies", "escalation_policies", []string{
		`{"id": "EP1", "name": "Primary", "escalation_rules": []}`,
	})
	mock.SetCollection("/services", "services", nil)
	return mock
}
