// Package catalog holds the services the shop offers and how long each one takes.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

// Service identifiers offered by the shop
const (
	Haircut        = "haircut"
	HaircutBeard   = "haircut_beard"
	HaircutSealing = "haircut_sealing"
	Color          = "color"
	Perm           = "perm"
)

// Service describes one entry of the catalog. Sequential services take their duration from
// Durations by speed; parallel services always take FixedMinutes.
type Service struct {
	ID           string               `json:"id"`
	Label        string               `json:"label"`
	Category     models.Category      `json:"category"`
	Durations    map[models.Speed]int `json:"durations,omitempty"`
	FixedMinutes int                  `json:"fixed_minutes,omitempty"`
}

// IsParallel reports whether the service runs outside the chair
func (s Service) IsParallel() bool {
	return s.Category == models.CategoryParallel
}

// Minutes returns the planned duration at the given speed, falling back to Normal for
// unrecognized speeds.
func (s Service) Minutes(speed models.Speed) int {
	if s.IsParallel() {
		return s.FixedMinutes
	}
	if m, ok := s.Durations[speed]; ok {
		return m
	}
	return s.Durations[models.SpeedNormal]
}

// Catalog is an immutable, validated set of services
type Catalog struct {
	services map[string]Service
	order    []string
}

// New builds a catalog, checking every service against the full speed cross-product.
func New(services ...Service) (*Catalog, error) {
	c := &Catalog{services: make(map[string]Service, len(services))}
	for _, svc := range services {
		if err := validateService(svc); err != nil {
			return nil, err
		}
		if _, dup := c.services[svc.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", svc.ID)
		}
		c.services[svc.ID] = svc
		c.order = append(c.order, svc.ID)
	}
	if len(c.order) == 0 {
		return nil, errors.New("catalog has no services")
	}
	return c, nil
}

func validateService(svc Service) error {
	if svc.ID == "" {
		return errors.New("service id cannot be empty")
	}
	if svc.Label == "" {
		return fmt.Errorf("service %q has no label", svc.ID)
	}
	switch svc.Category {
	case models.CategoryParallel:
		if svc.FixedMinutes <= 0 {
			return fmt.Errorf("parallel service %q needs a positive duration", svc.ID)
		}
	case models.CategorySequential:
		for _, speed := range models.Speeds {
			if svc.Durations[speed] <= 0 {
				return fmt.Errorf("service %q has no positive duration for speed %q", svc.ID, speed)
			}
		}
	default:
		return fmt.Errorf("service %q has unknown category %q", svc.ID, svc.Category)
	}
	return nil
}

// MustNew is like New but panics on an invalid table
func MustNew(services ...Service) *Catalog {
	c, err := New(services...)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the shop's service table
func Default() *Catalog {
	return MustNew(
		Service{ID: Haircut, Label: "Haircut", Category: models.CategorySequential,
			Durations: map[models.Speed]int{models.SpeedFast: 20, models.SpeedNormal: 30, models.SpeedSlow: 40}},
		Service{ID: HaircutBeard, Label: "Haircut + Beard", Category: models.CategorySequential,
			Durations: map[models.Speed]int{models.SpeedFast: 40, models.SpeedNormal: 46, models.SpeedSlow: 55}},
		Service{ID: HaircutSealing, Label: "Haircut + Sealing", Category: models.CategorySequential,
			Durations: map[models.Speed]int{models.SpeedFast: 55, models.SpeedNormal: 60, models.SpeedSlow: 70}},
		Service{ID: Color, Label: "Color", Category: models.CategoryParallel, FixedMinutes: 170},
		Service{ID: Perm, Label: "Perm", Category: models.CategoryParallel, FixedMinutes: 160},
	)
}

// Lookup returns the service with the given id
func (c *Catalog) Lookup(id string) (Service, bool) {
	svc, ok := c.services[id]
	return svc, ok
}

// Duration returns the planned minutes for a service at a speed. Unknown services yield 0.
func (c *Catalog) Duration(id string, speed models.Speed) int {
	svc, ok := c.services[id]
	if !ok {
		return 0
	}
	return svc.Minutes(speed)
}

// Label returns the display label, or the raw id for unknown services
func (c *Catalog) Label(id string) string {
	if svc, ok := c.services[id]; ok {
		return svc.Label
	}
	return id
}

// List returns every service in display order
func (c *Catalog) List() []Service {
	out := make([]Service, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.services[id])
	}
	return out
}

// IDs returns the service ids in display order
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Filter returns the services of one category in display order
func (c *Catalog) Filter(category models.Category) []Service {
	var out []Service
	for _, svc := range c.List() {
		if svc.Category == category {
			out = append(out, svc)
		}
	}
	return out
}

var legacyIDs = map[string]string{
	"corte":         Haircut,
	"corte_barba":   HaircutBeard,
	"corte_sellado": HaircutSealing,
	"color":         Color,
	"permanente":    Perm,
}

// LegacyServiceID maps service keys of the browser version onto catalog ids.
// Keys that are already catalog ids, or unknown, are returned unchanged.
func LegacyServiceID(key string) string {
	if id, ok := legacyIDs[strings.ToLower(key)]; ok {
		return id
	}
	return key
}
