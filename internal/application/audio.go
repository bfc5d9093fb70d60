package application

import "context"

// Player plays a complete audio clip and returns once playback finished.
type Player interface {
	Play(ctx context.Context, data []byte) error
}

// Assets resolves named, pre-recorded clips (startup, instructions,
// farewell) to their bytes.
type Assets interface {
	Read(name string) ([]byte, error)
}
