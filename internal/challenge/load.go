package challenge

import (
	"context"
	"errors"
	"fmt"
)

// EnsureDefaults persists DefaultDocument when src holds no catalog yet. It reports whether
// it seeded the source.
func EnsureDefaults(ctx context.Context, src Source) (bool, error) {
	_, err := src.Read(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrSourceNotExist) {
		return false, err
	}

	data, err := Encode(DefaultDocument(), src.Format())
	if err != nil {
		return false, fmt.Errorf("encode default catalog: %w", err)
	}
	if err := src.WriteIfAbsent(ctx, data); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads and validates the catalog persisted in src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := Parse(data, src.Format())
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", src, err)
	}
	return cat, nil
}
