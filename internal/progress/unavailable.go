package progress

import (
	"context"
	"fmt"
)

type unavailableRepository struct {
	cause error
}

// Unavailable returns a Repository standing in for a store that could not be connected to.
// Every operation fails with ErrConnection, so callers degrade instead of aborting.
func Unavailable(cause error) Repository {
	return unavailableRepository{cause: cause}
}

func (r unavailableRepository) err() error {
	if r.cause == nil {
		return ErrConnection
	}
	return fmt.Errorf("%w: %v", ErrConnection, r.cause)
}

func (r unavailableRepository) Append(context.Context, Entry) error {
	return r.err()
}

func (r unavailableRepository) ReadAll(context.Context) ([]Record, error) {
	return nil, r.err()
}

func (r unavailableRepository) Close() error {
	return nil
}
