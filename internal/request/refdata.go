package request

import (
	"context"
	"errors"
	"strings"

	"github.com/contech-dc/contrack/internal/department"
	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/identifier"
	"github.com/contech-dc/contrack/internal/store"
)

func defaultFloors() []string {
	return []string{"Basement", "Ground Floor", "1st Floor", "2nd Floor", "3rd Floor", "Roof"}
}

// Descriptions returns the reference description set for a department.
// CPR lookups go to their own collection and always use the Civil
// document, whatever department the caller named. The returned docName is
// the storage key that was consulted.
func (s *Service) Descriptions(ctx context.Context, dept, requestType string) (*domain.DescriptionSet, string, error) {
	kind := strings.ToUpper(strings.TrimSpace(requestType))
	if kind == "" {
		kind = identifier.KindIR
	}

	docName := department.NameFor(dept)
	collection := store.Descriptions
	if kind == identifier.KindCPR {
		collection = store.DescriptionsCPR
		docName = department.NameCivil
	}

	var stored domain.DescriptionSet
	err := s.store.Get(ctx, collection, docName, &stored)
	if errors.Is(err, store.ErrNotFound) {
		return nil, docName, ErrNotFound
	}
	if err != nil {
		return nil, docName, wrap("get descriptions", err)
	}

	set := domain.DescriptionSet{Base: []string{}, Floors: defaultFloors()}
	if stored.Base != nil {
		set.Base = stored.Base
	}
	if stored.Floors != nil {
		set.Floors = stored.Floors
	}
	if kind == identifier.KindCPR {
		set.Elements = stored.Elements
		set.Grades = stored.Grades
	}
	return &set, docName, nil
}

// Locations returns the location patterns for a project, preferring the
// location_rules override, then the project document, then a generated
// default set. The second return maps each pattern to its type where one
// is known.
func (s *Service) Locations(ctx context.Context, project string) ([]string, map[string]string, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return []string{}, map[string]string{}, nil
	}

	locations := []string{}
	typesMap := map[string]string{}

	var rules domain.LocationRules
	err := s.store.Get(ctx, store.LocationRules, project, &rules)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, wrap("get location rules", err)
	}
	for _, rule := range rules.Rules {
		if rule.Pattern == "" {
			continue
		}
		locations = append(locations, rule.Pattern)
		if rule.Type != "" {
			typesMap[rule.Pattern] = rule.Type
		}
	}

	if len(locations) == 0 {
		var p domain.Project
		err := s.store.Get(ctx, store.Projects, project, &p)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, nil, wrap("get project", err)
		}
		for _, loc := range p.Locations {
			if loc.Pattern == "" {
				continue
			}
			locations = append(locations, loc.Pattern)
			if loc.Type != "" {
				typesMap[loc.Pattern] = loc.Type
			}
		}
	}

	if len(locations) == 0 {
		locations = []string{project + "-Main", project + "-Service", project + "-Parking"}
	}
	return locations, typesMap, nil
}
