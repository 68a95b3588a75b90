package interfaces

type ValidatorInterface[K any] interface {
	Validate(entity K) error
}
