package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ewill123/nec-callcenter/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportRow is the call_center_reports table.
type ReportRow struct {
	ID                 string         `gorm:"type:uuid;primaryKey"`
	Date               datatypes.Date `gorm:"not null;index:idx_reports_date_created,priority:1,sort:desc"`
	TimeOfIncident     string         `gorm:"size:8"`
	TimeOfReport       string         `gorm:"size:8"`
	CallerName         string         `gorm:"not null;size:255"`
	CallerMobile       string         `gorm:"not null;size:16"`
	Sex                string         `gorm:"not null;size:10"`
	PrecinctName       string         `gorm:"not null;size:255"`
	PrecinctCode       string         `gorm:"size:64"`
	PollingPlaceNumber string         `gorm:"size:64"`
	Location           string         `gorm:"not null;type:text"`
	WitnessChoice      string         `gorm:"size:32"`
	WitnessRole        string         `gorm:"size:255"`
	IncidentChoice     string         `gorm:"size:32;index"`
	IncidentOther      string         `gorm:"type:text"`
	Resolution         string         `gorm:"type:text"`
	Status             string         `gorm:"not null;size:20;default:'pending'"`
	CreatedAt          time.Time      `gorm:"index:idx_reports_date_created,priority:2,sort:desc"`
	UpdatedAt          time.Time
}

func (ReportRow) TableName() string {
	return "call_center_reports"
}

// GormStore keeps reports in a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) Insert(ctx context.Context, report model.IncidentReport) (*model.IncidentReport, error) {
	row, err := toRow(report)
	if err != nil {
		return nil, model.NewStorageError("insert", err)
	}
	row.ID = uuid.NewString()
	row.Status = string(model.StatusPending)

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, model.NewStorageError("insert", err)
	}
	stored := fromRow(row)
	return &stored, nil
}

func (s *GormStore) Select(ctx context.Context, filter Filter) ([]model.IncidentReport, error) {
	query := s.db.WithContext(ctx).Model(&ReportRow{})
	if filter.ID != "" {
		// A malformed id cannot match a uuid column; asking postgres would
		// turn a miss into a syntax error.
		if _, err := uuid.Parse(filter.ID); err != nil {
			return []model.IncidentReport{}, nil
		}
		query = query.Where("id = ?", filter.ID)
	}
	if filter.IncidentChoice != "" {
		query = query.Where("incident_choice = ?", string(filter.IncidentChoice))
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}

	var rows []ReportRow
	if err := query.Order("date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, model.NewStorageError("select", err)
	}

	reports := make([]model.IncidentReport, len(rows))
	for i, row := range rows {
		reports[i] = fromRow(row)
	}
	return reports, nil
}

func (s *GormStore) Update(ctx context.Context, id string, patch Patch) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound("update", id)
	}

	// A map keeps an empty resolution in the UPDATE; a struct would skip it.
	result := s.db.WithContext(ctx).Model(&ReportRow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolution": patch.Resolution,
			"status":     string(patch.Status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return model.NewStorageError("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("update", id)
	}
	return nil
}

func notFound(op, id string) error {
	return model.NewStorageError(op, fmt.Errorf("%w: %s", model.ErrNotFound, id))
}

func toRow(r model.IncidentReport) (ReportRow, error) {
	date, err := time.Parse(model.DateLayout, r.Date)
	if err != nil {
		return ReportRow{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	return ReportRow{
		ID:                 r.ID,
		Date:               datatypes.Date(date),
		TimeOfIncident:     r.TimeOfIncident,
		TimeOfReport:       r.TimeOfReport,
		CallerName:         r.CallerName,
		CallerMobile:       r.CallerMobile,
		Sex:                string(r.Sex),
		PrecinctName:       r.PrecinctName,
		PrecinctCode:       r.PrecinctCode,
		PollingPlaceNumber: r.PollingPlaceNumber,
		Location:           r.Location,
		WitnessChoice:      string(r.WitnessChoice),
		WitnessRole:        r.WitnessRole,
		IncidentChoice:     string(r.IncidentChoice),
		IncidentOther:      r.IncidentOther,
		Resolution:         r.Resolution,
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}, nil
}

func fromRow(row ReportRow) model.IncidentReport {
	return model.IncidentReport{
		ID:                 row.ID,
		Date:               time.Time(row.Date).Format(model.DateLayout),
		TimeOfIncident:     row.TimeOfIncident,
		TimeOfReport:       row.TimeOfReport,
		CallerName:         row.CallerName,
		CallerMobile:       row.CallerMobile,
		Sex:                model.Sex(row.Sex),
		PrecinctName:       row.PrecinctName,
		PrecinctCode:       row.PrecinctCode,
		PollingPlaceNumber: row.PollingPlaceNumber,
		Location:           row.Location,
		WitnessChoice:      model.WitnessChoice(row.WitnessChoice),
		WitnessRole:        row.WitnessRole,
		IncidentChoice:     model.IncidentChoice(row.IncidentChoice),
		IncidentOther:      row.IncidentOther,
		Resolution:         row.Resolution,
		Status:             model.Status(row.Status),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
