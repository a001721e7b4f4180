package ports

import (
	"context"
)

// Service is a long-running component that serves until ctx is cancelled
type Service interface {
	Run(ctx context.Context) error
}
