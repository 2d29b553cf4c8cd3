package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrServiceNotFound  = errors.New("service not found")
)

// Repository contains all DB interactions needed by the catalog services.
type Repository interface {
	GetBusinessByID(ctx context.Context, id uuid.UUID) (*Business, error)
	// GetBusinessByIDAndOwner returns ErrBusinessNotFound both for an unknown id
	// and for a business the caller does not own.
	GetBusinessByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*Business, error)
	ListBusinesses(ctx context.Context) ([]Business, error)
	ListBusinessesByOwner(ctx context.Context, ownerID uuid.UUID) ([]Business, error)
	SearchBusinessesByName(ctx context.Context, name string) ([]Business, error)
	SearchBusinessesByLocation(ctx context.Context, location string) ([]Business, error)
	CreateBusiness(ctx context.Context, b Business) (*Business, error)
	UpdateBusiness(ctx context.Context, b Business) (*Business, error)
	DeleteBusiness(ctx context.Context, id uuid.UUID) error

	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)
	ListServices(ctx context.Context) ([]Service, error)
	ListServicesByBusiness(ctx context.Context, businessID uuid.UUID) ([]Service, error)
	ListServicesByBusinessOwner(ctx context.Context, ownerID uuid.UUID) ([]Service, error)
	SearchServicesByName(ctx context.Context, name string) ([]Service, error)
	CreateService(ctx context.Context, s Service) (*Service, error)
	UpdateService(ctx context.Context, s Service) (*Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}
