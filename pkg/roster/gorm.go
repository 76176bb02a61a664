package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/database"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

const listSeparator = ","

// GormStore is a Store backed by the employees table
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an already migrated connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Snapshot(ctx context.Context) ([]models.Person, error) {
	var rows []database.Employee
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	people := make([]models.Person, 0, len(rows))
	for _, row := range rows {
		p, err := decodeEmployee(row)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}

func (s *GormStore) Get(ctx context.Context, name string) (models.Person, error) {
	var row database.Employee
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Person{}, ErrPersonNotFound
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("load %s: %w", name, err)
	}
	return decodeEmployee(row)
}

// Upsert inserts the row or, on a name conflict, updates every column except points
func (s *GormStore) Upsert(ctx context.Context, p models.Person) error {
	p, err := prepare(p)
	if err != nil {
		return err
	}
	row := encodePerson(p)
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_points", "off_days", "preferred_zone", "allowed_zones", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", p.Name, err)
	}
	return nil
}

// IncrementLoad issues a single UPDATE so concurrent increments never lose updates
func (s *GormStore) IncrementLoad(ctx context.Context, name string, delta int) error {
	res := s.db.WithContext(ctx).Model(&database.Employee{}).
		Where("name = ?", name).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("increment load for %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPersonNotFound
	}
	return nil
}

func (s *GormStore) ResetLoad(ctx context.Context, names []string) error {
	q := s.db.WithContext(ctx).Model(&database.Employee{})
	if names == nil {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else if len(names) == 0 {
		return nil
	} else {
		q = q.Where("name IN ?", names)
	}
	if err := q.Update("points", 0).Error; err != nil {
		return fmt.Errorf("reset load: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("name IN ?", names).Delete(&database.Employee{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete persons: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func encodePerson(p models.Person) database.Employee {
	dates := make([]string, len(p.BlockedDates))
	for i, d := range p.BlockedDates {
		dates[i] = d.String()
	}
	zones := make([]string, len(p.AllowedZones))
	for i, z := range p.AllowedZones {
		zones[i] = string(z)
	}
	return database.Employee{
		Name:          p.Name,
		Points:        p.Load,
		MaxPoints:     p.MaxLoad,
		OffDays:       strings.Join(dates, listSeparator),
		PreferredZone: string(p.PreferredZone),
		AllowedZones:  strings.Join(zones, listSeparator),
	}
}

func decodeEmployee(row database.Employee) (models.Person, error) {
	p := models.Person{
		Name:    row.Name,
		Load:    row.Points,
		MaxLoad: row.MaxPoints,
	}
	for _, raw := range splitList(row.OffDays) {
		d, err := models.ParseDate(raw)
		if err != nil {
			return models.Person{}, fmt.Errorf("decode %s off days: %w", row.Name, err)
		}
		p.BlockedDates = append(p.BlockedDates, d)
	}
	if pref := strings.TrimSpace(row.PreferredZone); pref != "" {
		z, err := models.ParseZone(pref)
		if err != nil {
			return models.Person{}, fmt.Errorf("decode %s preferred zone: %w", row.Name, err)
		}
		p.PreferredZone = z
	}
	for _, raw := range splitList(row.AllowedZones) {
		z, err := models.ParseZone(raw)
		if err != nil {
			return models.Person{}, fmt.Errorf("decode %s allowed zones: %w", row.Name, err)
		}
		p.AllowedZones = append(p.AllowedZones, z)
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
