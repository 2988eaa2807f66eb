package forecast

import (
	"errors"

	"go.uber.org/zap"
)

// Provider kinds.
const (
	KindStatistical = "statistical"
	KindManaged     = "managed"
)

// Factory errors
var (
	ErrUnknownProviderKind  = errors.New("unknown forecast provider kind")
	ErrMissingServiceClient = errors.New("managed provider requires a forecasting service client")
	ErrMissingObjectStore   = errors.New("managed provider requires an object store")
)

// Config selects and parameterizes a provider.
type Config struct {
	Kind string

	// Managed-service collaborators; required when Kind is KindManaged.
	Service ServiceClient
	Objects ObjectStore

	Logger *zap.Logger
}

// FromConfig creates a Provider from Config.
// Validates required collaborators per provider kind.
func FromConfig(cfg Config) (Provider, error) {
	switch cfg.Kind {
	case KindStatistical:
		return NewStatisticalProvider(), nil
	case KindManaged:
		if cfg.Service == nil {
			return nil, ErrMissingServiceClient
		}
		if cfg.Objects == nil {
			return nil, ErrMissingObjectStore
		}
		return NewManagedProvider(cfg.Service, cfg.Objects, WithLogger(cfg.Logger)), nil
	default:
		return nil, ErrUnknownProviderKind
	}
}
