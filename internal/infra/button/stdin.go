package button

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"voiceclock/internal/domain"
)

// StdinSource turns every line on standard input into one press. Meant for
// development on machines without a button.
type StdinSource struct {
	in        io.Reader
	pressChan chan domain.PressEvent
	done      chan struct{}
}

func NewStdinSource() *StdinSource {
	return newStdinSource(os.Stdin)
}

func newStdinSource(in io.Reader) *StdinSource {
	return &StdinSource{
		in:        in,
		pressChan: make(chan domain.PressEvent, 32),
		done:      make(chan struct{}),
	}
}

func (s *StdinSource) Name() string {
	return "stdin"
}

func (s *StdinSource) Start(_ context.Context) error {
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case s.pressChan <- domain.PressEvent{At: time.Now()}:
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

func (s *StdinSource) Stop() error {
	close(s.done)
	return nil
}

func (s *StdinSource) NextPress(ctx context.Context) (domain.PressEvent, error) {
	select {
	case <-ctx.Done():
		return domain.PressEvent{}, ctx.Err()
	case ev := <-s.pressChan:
		return ev, nil
	}
}
