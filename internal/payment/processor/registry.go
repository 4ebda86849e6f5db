package processor

import (
	"github.com/hudumahub/huduma/internal/payment/domain"
)

// Registry selects the processor for a payment method.
type Registry struct {
	processors map[domain.Method]domain.Processor
}

func NewRegistry(mobileMoney, card domain.Processor) *Registry {
	registry := &Registry{processors: map[domain.Method]domain.Processor{}}
	if mobileMoney != nil {
		registry.processors[domain.MethodMobileMoney] = mobileMoney
	}
	if card != nil {
		registry.processors[domain.MethodCard] = card
	}
	return registry
}

func (r *Registry) ForMethod(method domain.Method) (domain.Processor, error) {
	if r == nil {
		return nil, domain.ErrInvalidMethod
	}
	proc, ok := r.processors[method]
	if !ok {
		return nil, domain.ErrInvalidMethod
	}
	return proc, nil
}
