package ports

import "context"

// HealthChecker verifies a single infrastructure dependency.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
