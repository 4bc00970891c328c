package building

import "context"

// DirectoryReader abstracts repository operations for the service.
type DirectoryReader interface {
	List(ctx context.Context) ([]Building, error)
	GetByID(ctx context.Context, id string) (Building, error)
}

// Service exposes the building directory to the UI layer.
type Service struct {
	repo DirectoryReader
}

// NewService builds a Service using the provided repository.
func NewService(repo DirectoryReader) *Service {
	return &Service{repo: repo}
}

// List returns all buildings ordered by name.
func (s *Service) List(ctx context.Context) ([]Building, error) {
	return s.repo.List(ctx)
}

// GetByID returns the building for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Building, error) {
	return s.repo.GetByID(ctx, id)
}
