package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds its limit.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// DecodeJSON reads at most limit bytes from r and unmarshals them into a T.
// A limit <= 0 disables the cap.
func DecodeJSON[T any](r io.Reader, limit int64) (T, error) {
	var zero T

	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return zero, fmt.Errorf("reading body: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return zero, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, limit)
	}
	if len(data) == 0 {
		return zero, fmt.Errorf("empty JSON body")
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}
