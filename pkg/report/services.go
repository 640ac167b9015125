package report

import (
	"github.com/opsreport/pdreport/pkg/pagerduty"
)

// ServiceHeader is the column order of the services export.
var ServiceHeader = []string{
	"service_id",
	"service_name",
	"description",
	"status",
}

// ServiceRow is one service. Services have no nested collection, so
// there is no placeholder case.
type ServiceRow struct {
	ServiceID   string
	ServiceName string
	Description string
	Status      string
}

// FlattenServices emits one row per service, in upstream order.
func FlattenServices(services []pagerduty.Service) []ServiceRow {
	rows := make([]ServiceRow, 0, len(services))
	for _, s := range services {
		rows = append(rows, ServiceRow{
			ServiceID:   s.ID,
			ServiceName: s.Name,
			Description: s.Description,
			Status:      s.Status,
		})
	}
	return rows
}

// ServicesTable renders rows in ServiceHeader order.
func ServicesTable(rows []ServiceRow) Table {
	t := Table{Name: "services", Header: ServiceHeader}
	for _, r := range rows {
		t.Rows = append(t.Rows, []*string{
			cell(r.ServiceID),
			cell(r.ServiceName),
			cell(r.Description),
			cell(r.Status),
		})
	}
	return t
}
