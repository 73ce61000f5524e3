// Package store is the persistence capability behind the incident gateways.
// It exposes the three operations the service relies on (insert, select,
// update); every failure is returned as *model.StorageError.
package store

import (
	"context"

	"github.com/ewill123/nec-callcenter/internal/model"
)

// Filter narrows Select. Zero fields do not filter.
type Filter struct {
	ID             string
	IncidentChoice model.IncidentChoice
	Date           string
}

// Patch is the only permitted mutation of a stored report.
type Patch struct {
	Resolution string
	Status     model.Status
}

// Store is the external persistence collaborator. Select returns reports
// ordered by date descending, newest created first within a date.
type Store interface {
	Insert(ctx context.Context, report model.IncidentReport) (*model.IncidentReport, error)
	Select(ctx context.Context, filter Filter) ([]model.IncidentReport, error)
	Update(ctx context.Context, id string, patch Patch) error
}
