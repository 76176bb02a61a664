package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
)

// SeedFile is the YAML layout accepted by LoadSeedFile
//
//	people:
//	  - name: R1-A
//	    max_load: 9
//	    blocked_dates: [2025-08-12]
//	    preferred_zone: A
//	    allowed_zones: [A, B, C]
type SeedFile struct {
	People []models.PersonInput `yaml:"people"`
}

// LoadSeedFile reads a seed file. Unknown keys are rejected so typos surface.
func LoadSeedFile(path string) ([]models.PersonInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML
func ParseSeed(data []byte) ([]models.PersonInput, error) {
	var seed SeedFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return seed.People, nil
}

// Seed upserts every input and returns how many were written
func Seed(ctx context.Context, store Store, inputs []models.PersonInput, defaultMaxLoad int) (int, error) {
	for i, in := range inputs {
		p, err := in.ToPerson(defaultMaxLoad)
		if err != nil {
			return i, fmt.Errorf("%w: %s: %v", ErrInvalidPerson, in.Name, err)
		}
		if err := store.Upsert(ctx, p); err != nil {
			return i, err
		}
	}
	return len(inputs), nil
}

func intPtr(v int) *int { return &v }

// DemoRoster is a sixteen-person roster spanning five seniority levels
func DemoRoster() []models.PersonInput {
	abc := []string{"A", "B", "C"}
	abci := []string{"A", "B", "C", "I"}
	all := []string{"A", "B", "C", "I", "E"}
	return []models.PersonInput{
		{Name: "PGY1-A", MaxLoad: intPtr(10), BlockedDates: []string{"2025-08-12", "2025-08-20"}, PreferredZone: "A", AllowedZones: abc},
		{Name: "PGY1-B", MaxLoad: intPtr(10), PreferredZone: "B", AllowedZones: abc},
		{Name: "PGY1-C", MaxLoad: intPtr(10), BlockedDates: []string{"2025-08-25"}, PreferredZone: "C", AllowedZones: abc},
		{Name: "R1-A", MaxLoad: intPtr(9), PreferredZone: "A", AllowedZones: abc},
		{Name: "R1-B", MaxLoad: intPtr(9), PreferredZone: "B", AllowedZones: abc},
		{Name: "R1-C", MaxLoad: intPtr(9), PreferredZone: "C", AllowedZones: abc},
		{Name: "R2-A", MaxLoad: intPtr(8), PreferredZone: "A", AllowedZones: abci},
		{Name: "R2-B", MaxLoad: intPtr(8), PreferredZone: "B", AllowedZones: abci},
		{Name: "R2-C", MaxLoad: intPtr(9), PreferredZone: "C", AllowedZones: abci},
		{Name: "R3-A", MaxLoad: intPtr(7), PreferredZone: "I", AllowedZones: all},
		{Name: "R3-B", MaxLoad: intPtr(7), PreferredZone: "I", AllowedZones: all},
		{Name: "R4-A", MaxLoad: intPtr(6), PreferredZone: "I", AllowedZones: all},
		{Name: "R4-B", MaxLoad: intPtr(6), PreferredZone: "I", AllowedZones: all},
		{Name: "R5-A", MaxLoad: intPtr(5), PreferredZone: "E", AllowedZones: all},
		{Name: "R5-B", MaxLoad: intPtr(5), PreferredZone: "E", AllowedZones: all},
		{Name: "R5-C", MaxLoad: intPtr(5), AllowedZones: all},
	}
}
