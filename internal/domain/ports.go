package domain

import "context"

// CredentialKey names the configuration entry holding the registry credential.
const CredentialKey = "TA_SERVICE_KEY"

// Resolver turns free text into a single coordinate.
type Resolver interface {
	// Resolve returns the top match for query. Failures are *ResolutionError.
	Resolve(ctx context.Context, query string) (Coordinate, error)
}

// RegistryResult carries the raw items and the successful attempt.
type RegistryResult struct {
	Items   []RawStoreRecord
	Attempt Attempt
}

// Registry lists stores within radiusMeters of a coordinate.
type Registry interface {
	// Query fails with *RegistryError once every request variant has failed,
	// or *ConfigurationError when no credential is configured.
	Query(ctx context.Context, at Coordinate, radiusMeters int) (RegistryResult, error)

	// HasCredential reports whether an access credential is configured.
	HasCredential() bool
}
