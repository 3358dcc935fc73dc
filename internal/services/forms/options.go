package forms

import "db_forms/internal/crud"

type ServiceOption func(*Service)

// WithStrictFields включает проверку типа каждого поля, а не только ключа
func WithStrictFields(strict bool) ServiceOption {
	return func(s *Service) {
		s.strictFields = strict
	}
}

// WithPlaceholder переопределяет стиль параметров, заданный коннектором
func WithPlaceholder(fn crud.PlaceholderFunc) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.builder = crud.Builder{Placeholder: fn}
		}
	}
}

// WithActionIDs задает генератор идентификаторов действий для логов
func WithActionIDs(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newActionID = fn
		}
	}
}
