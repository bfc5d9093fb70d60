package application

import (
	"context"

	"voiceclock/internal/domain"
)

// PressSource delivers raw button pulses from whatever stands in for the
// physical button (HTTP endpoint, stdin, real GPIO driver).
type PressSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextPress(ctx context.Context) (domain.PressEvent, error)
	Name() string
}
