package model

// Decorator adjusts a fetched schema before a controller loads it.
type Decorator interface {
	Decorate(*FormSchema) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormSchema) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormSchema) error {
	return fn(form)
}
