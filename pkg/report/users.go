package report

import (
	"fmt"

	"github.com/opsreport/pdreport/pkg/pagerduty"
)

// UserHeader is the column order of the users export.
var UserHeader = []string{
	"user_id",
	"user_name",
	"email",
	"role",
	"contact_method_id",
	"contact_method_type",
	"contact_method_label",
	"contact_method_address",
}

// UserRow is one (user, contact method) pairing. Contact columns are
// nil on the placeholder row of a user without contact methods.
type UserRow struct {
	UserID               string
	UserName             string
	Email                string
	Role                 string
	ContactMethodID      *string
	ContactMethodType    *string
	ContactMethodLabel   *string
	ContactMethodAddress *string
}

// FlattenUsers emits one row per contact method. A user with zero
// contact methods still yields exactly one placeholder row so the user
// stays present in the export.
func FlattenUsers(users []pagerduty.User) []UserRow {
	var rows []UserRow
	for _, u := range users {
		if len(u.ContactMethods) == 0 {
			rows = append(rows, UserRow{
				UserID:   u.ID,
				UserName: u.Name,
				Email:    u.Email,
				Role:     u.Role,
			})
			continue
		}
		for _, m := range u.ContactMethods {
			rows = append(rows, UserRow{
				UserID:               u.ID,
				UserName:             u.Name,
				Email:                u.Email,
				Role:                 u.Role,
				ContactMethodID:      cell(m.ID),
				ContactMethodType:    cell(m.Type),
				ContactMethodLabel:   cell(m.Label),
				ContactMethodAddress: cell(contactAddress(m)),
			})
		}
	}
	return rows
}

// UsersTable renders rows in UserHeader order.
func UsersTable(rows []UserRow) Table {
	t := Table{Name: "users", Header: UserHeader}
	for _, r := range rows {
		t.Rows = append(t.Rows, []*string{
			cell(r.UserID),
			cell(r.UserName),
			cell(r.Email),
			cell(r.Role),
			r.ContactMethodID,
			r.ContactMethodType,
			r.ContactMethodLabel,
			r.ContactMethodAddress,
		})
	}
	return t
}

// contactAddress applies the per-kind address encoding: email methods
// carry the literal address, push methods have no meaningful address,
// and every other kind is phone-like with a country-code prefix.
func contactAddress(m pagerduty.ContactMethod) string {
	switch m.Type {
	case pagerduty.ContactTypeEmail:
		return m.Address
	case pagerduty.ContactTypePush:
		return "N/A"
	default:
		return fmt.Sprintf("%d+%s", m.CountryCode, m.Address)
	}
}
