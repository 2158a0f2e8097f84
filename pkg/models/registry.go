package models

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Model is a named generation configuration: which base model to call, with
// which system prompt and sampling parameters.
type Model struct {
	ID           string  `yaml:"id" json:"id"`
	Name         string  `yaml:"name" json:"name"`
	BaseModel    string  `yaml:"baseModel" json:"baseModel"`
	SystemPrompt string  `yaml:"systemPrompt" json:"systemPrompt"`
	Temperature  float64 `yaml:"temperature" json:"temperature"`
	MaxTokens    int     `yaml:"maxTokens" json:"maxTokens"`
}

// ErrLastModel is returned when deleting the only remaining model. The
// registry never becomes empty.
var ErrLastModel = errors.New("cannot delete the last remaining model")

// DefaultModel returns the model configuration seeded into a fresh registry.
func DefaultModel() *Model {
	return &Model{
		ID:           uuid.NewString(),
		Name:         "Default Model",
		BaseModel:    "gpt-4o-mini",
		SystemPrompt: "You are a helpful assistant.",
		Temperature:  0.7,
		MaxTokens:    512,
	}
}

// Registry holds the ordered set of model configurations plus the currently
// selected one. It always contains at least one model.
type Registry struct {
	models     []*Model
	selectedID string
}

type RegistryOption func(*Registry)

func WithModels(models ...*Model) RegistryOption {
	return func(r *Registry) {
		r.models = append(r.models, models...)
	}
}

func NewRegistry(options ...RegistryOption) *Registry {
	ret := &Registry{}
	for _, option := range options {
		option(ret)
	}

	if len(ret.models) == 0 {
		ret.models = []*Model{DefaultModel()}
	}
	ret.selectedID = ret.models[0].ID

	return ret
}

// List returns the models in insertion order.
func (r *Registry) List() []*Model {
	return append([]*Model{}, r.models...)
}

func (r *Registry) Get(id string) (*Model, bool) {
	for _, m := range r.models {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// Selected returns the currently selected model. If the selected entry was
// deleted it falls back to the first available model.
func (r *Registry) Selected() *Model {
	if m, ok := r.Get(r.selectedID); ok {
		return m
	}
	r.selectedID = r.models[0].ID
	return r.models[0]
}

// Select makes the model with the given id the current one. Unknown ids are
// ignored.
func (r *Registry) Select(id string) {
	if _, ok := r.Get(id); ok {
		r.selectedID = id
	}
}

// Add appends a model to the registry. A missing id is assigned.
func (r *Registry) Add(m *Model) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.models = append(r.models, m)
	log.Debug().Str("model_id", m.ID).Str("name", m.Name).Msg("model added")
}

// Update replaces the stored model with the same id. Unknown ids are ignored.
func (r *Registry) Update(m *Model) {
	for i, existing := range r.models {
		if existing.ID == m.ID {
			r.models[i] = m
			return
		}
	}
}

// Delete removes the model with the given id. Deleting the last remaining
// model is rejected before any mutation; deleting the selected model moves
// the selection to the first remaining entry. Unknown ids are a no-op, even
// when only one model is left.
func (r *Registry) Delete(id string) error {
	for i, m := range r.models {
		if m.ID != id {
			continue
		}
		if len(r.models) == 1 {
			return ErrLastModel
		}
		r.models = append(r.models[:i], r.models[i+1:]...)
		if r.selectedID == id {
			r.selectedID = r.models[0].ID
		}
		log.Debug().Str("model_id", id).Msg("model deleted")
		return nil
	}

	return nil
}

// LoadFromFile reads model configurations from a YAML file.
func LoadFromFile(filename string) (*Registry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open models file %s", filename)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var models []*Model
	if err := yaml.NewDecoder(f).Decode(&models); err != nil {
		return nil, errors.Wrapf(err, "could not decode models file %s", filename)
	}
	for _, m := range models {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
	}

	return NewRegistry(WithModels(models...)), nil
}

// SaveToFile writes the registry's models to a YAML file.
func (r *Registry) SaveToFile(filename string) error {
	data, err := yaml.Marshal(r.models)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
