package report

import (
	"strconv"
	"strings"

	"github.com/opsreport/pdreport/pkg/pagerduty"
)

// PolicyHeader is the column order of the escalation policies export.
var PolicyHeader = []string{
	"policy_id",
	"policy_name",
	"rule_id",
	"rule_delay_minutes",
	"target_id",
	"target_type",
	"target_name",
}

// PolicyRow is one (policy, rule, target) combination. Rule and target
// columns are nil on the placeholder row of a policy without rules.
type PolicyRow struct {
	PolicyID         string
	PolicyName       string
	RuleID           *string
	RuleDelayMinutes *string
	TargetID         *string
	TargetType       *string
	TargetName       *string
}

// FlattenPolicies emits one row per escalation target, in rule order
// then target order. A policy with zero rules still yields exactly one
// placeholder row.
func FlattenPolicies(policies []pagerduty.EscalationPolicy) []PolicyRow {
	var rows []PolicyRow
	for _, p := range policies {
		if len(p.EscalationRules) == 0 {
			rows = append(rows, PolicyRow{PolicyID: p.ID, PolicyName: p.Name})
			continue
		}
		for _, rule := range p.EscalationRules {
			for _, target := range rule.Targets {
				rows = append(rows, PolicyRow{
					PolicyID:         p.ID,
					PolicyName:       p.Name,
					RuleID:           cell(rule.ID),
					RuleDelayMinutes: cell(strconv.Itoa(rule.EscalationDelayInMinutes)),
					TargetID:         cell(target.ID),
					TargetType:       cell(normalizeTargetType(target.Type)),
					TargetName:       cell(target.Summary),
				})
			}
		}
	}
	return rows
}

// PoliciesTable renders rows in PolicyHeader order.
func PoliciesTable(rows []PolicyRow) Table {
	t := Table{Name: "escalation_policies", Header: PolicyHeader}
	for _, r := range rows {
		t.Rows = append(t.Rows, []*string{
			cell(r.PolicyID),
			cell(r.PolicyName),
			r.RuleID,
			r.RuleDelayMinutes,
			r.TargetID,
			r.TargetType,
			r.TargetName,
		})
	}
	return t
}

// normalizeTargetType collapses the API's target type vocabulary
// ("user", "user_reference", "schedule_reference", ...) to the two
// kinds a rule can notify. Unknown types fall back to "schedule".
func normalizeTargetType(targetType string) string {
	if strings.Contains(targetType, "user") {
		return "user"
	}
	return "schedule"
}
