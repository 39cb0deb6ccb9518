package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/phasesector/internal/dynamo"
)

// MinOrder is the lowest accuracy order accepted for study runs.
const MinOrder = 2

// Default names the integrator of record.
const Default = "rk4"

var factories = map[string]dynamo.IntegratorFactory{
	"rk4":  func() dynamo.Integrator { return NewRK4() },
	"heun": func() dynamo.Integrator { return NewHeun() },
	"rk45": func() dynamo.Integrator { return NewRK45() },
}

// Factory returns a constructor for the named integrator.
func Factory(name string) (dynamo.IntegratorFactory, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, dynamo.Invalid("integrator", name, fmt.Sprintf("unknown integrator (available: %v)", Names()))
	}
	if order := fn().Order(); order < MinOrder {
		return nil, dynamo.Invalid("integrator", name, fmt.Sprintf("order %d below minimum %d", order, MinOrder))
	}
	return fn, nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
