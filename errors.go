package atlaspack

import (
	"errors"
	"fmt"
)

// Errors returned by the packing pipeline. All of them are fatal to a run.
// Failures tied to one sprite are wrapped in a *SpriteError, so callers
// match the kind with errors.Is and read the sprite name from the message.
var (
	ErrNoSprites        = errors.New("no sprites")
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrUnreadableImage  = errors.New("unreadable image")
	ErrSizeMismatch     = errors.New("decoded size does not match measured size")
	ErrEmptyName        = errors.New("empty sprite name")
	ErrDuplicateName    = errors.New("duplicate sprite name")
	ErrAmbiguousName    = errors.New("sprite name is a prefix of another sprite name")
)

// SpriteError reports a failure attributed to a single sprite.
type SpriteError struct {
	Name string
	Err  error
}

func (e *SpriteError) Error() string {
	return fmt.Sprintf("atlaspack: sprite %q: %v", e.Name, e.Err)
}

func (e *SpriteError) Unwrap() error { return e.Err }

func spriteErr(name string, err error) error {
	return &SpriteError{Name: name, Err: err}
}
