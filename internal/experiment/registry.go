package experiment

import (
	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/integrators"
	"github.com/san-kum/odestep/internal/models"
)

// MethodEntry describes a stepping method for listings.
type MethodEntry struct {
	Name        string
	Order       int
	Description string
}

// ModelEntry describes a ready-made model for listings.
type ModelEntry struct {
	Name        string
	Dim         int
	Description string
	Params      map[string]float64
	Presets     []string
	Analytic    bool
}

func ListMethods() []MethodEntry {
	names := integrators.Names()
	entries := make([]MethodEntry, 0, len(names))
	for _, name := range names {
		m, err := integrators.New(name)
		if err != nil {
			continue
		}
		entries = append(entries, MethodEntry{
			Name:        name,
			Order:       m.Order(),
			Description: integrators.Describe(name),
		})
	}
	return entries
}

func ListModels() []ModelEntry {
	names := models.Names()
	entries := make([]ModelEntry, 0, len(names))
	for _, name := range names {
		m, err := models.New(name)
		if err != nil {
			continue
		}
		_, analytic := m.(models.Analytic)
		entries = append(entries, ModelEntry{
			Name:        name,
			Dim:         m.StateDim(),
			Description: models.Info(name),
			Params:      m.GetParams(),
			Presets:     config.ListPresets(name),
			Analytic:    analytic,
		})
	}
	return entries
}
