package operation

import (
	"fmt"

	"github.com/commitfit/internal/input"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/pkg/models"
)

// RegionsFunc hands out the status and result region of an operation.
type RegionsFunc func(kind models.OperationKind) (status Region, result Region)

// Set is the group of independent controllers behind one console.
type Set struct {
	order       []models.OperationKind
	controllers map[models.OperationKind]*Controller
}

// NewSet builds one controller per definition, all sharing the input binding
// and the sender but each with its own regions.
func NewSet(defs []Definition, in input.Binding, sender transport.Sender, regions RegionsFunc, discardStale bool) (*Set, error) {
	s := &Set{controllers: make(map[models.OperationKind]*Controller, len(defs))}

	for _, def := range defs {
		if _, dup := s.controllers[def.Kind]; dup {
			return nil, fmt.Errorf("duplicate operation %s", def.Kind)
		}

		status, result := regions(def.Kind)
		c, err := NewController(Config{
			Definition:   def,
			Input:        in,
			Sender:       sender,
			Status:       status,
			Result:       result,
			DiscardStale: discardStale,
		})
		if err != nil {
			return nil, err
		}

		s.order = append(s.order, def.Kind)
		s.controllers[def.Kind] = c
	}

	return s, nil
}

// Get returns the controller for kind.
func (s *Set) Get(kind models.OperationKind) (*Controller, bool) {
	c, ok := s.controllers[kind]
	return c, ok
}

// Kinds returns the operations in the order they were defined.
func (s *Set) Kinds() []models.OperationKind {
	return append([]models.OperationKind(nil), s.order...)
}

// States reports the current state of every controller.
func (s *Set) States() map[models.OperationKind]models.State {
	states := make(map[models.OperationKind]models.State, len(s.controllers))
	for kind, c := range s.controllers {
		states[kind] = c.State()
	}
	return states
}

// Wait blocks until no triggered cycle is in flight on any controller.
func (s *Set) Wait() {
	for _, kind := range s.order {
		s.controllers[kind].Wait()
	}
}
