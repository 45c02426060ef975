package redisdb

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// parseSizeValue parses a size that is either a number (bytes) or a string like "64KiB".
// Caller is responsible for wrapping the error, if it's used in JS code.
func parseSizeValue(v any) (int, error) {
	var size uint64

	switch x := v.(type) {
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("negative size: %d", x)
		}

		size = uint64(x)
	case int:
		if x < 0 {
			return 0, fmt.Errorf("negative size: %d", x)
		}

		size = uint64(x)
	case int32:
		if x < 0 {
			return 0, fmt.Errorf("negative size: %d", x)
		}

		size = uint64(x)
	case float64:
		if x < 0 {
			return 0, fmt.Errorf("negative size: %f", x)
		}

		if math.Trunc(x) != x {
			return 0, fmt.Errorf("size must be a whole number of bytes: %f", x)
		}

		size = uint64(x)
	case string:
		parsed, err := humanize.ParseBytes(x)
		if err != nil {
			return 0, fmt.Errorf("invalid size string %q: %w", x, err)
		}

		size = parsed
	default:
		return 0, fmt.Errorf("unsupported size type: %T", x)
	}

	if size > math.MaxInt32 {
		return 0, fmt.Errorf("size too large: %s", humanize.IBytes(size))
	}

	return int(size), nil
}

// parseDurationValue parses a duration that is either a number (milliseconds)
// or a Go duration string like "1s".
// Caller is responsible for wrapping the error, if it's used in JS code.
func parseDurationValue(v any) (time.Duration, error) {
	switch x := v.(type) {
	case int:
		return durationFromMillis(int64(x))
	case int32:
		return durationFromMillis(int64(x))
	case int64:
		return durationFromMillis(x)
	case float64:
		if math.Trunc(x) != x {
			return 0, fmt.Errorf("duration must be whole milliseconds: %f", x)
		}

		return durationFromMillis(int64(x))
	case string:
		duration, err := time.ParseDuration(x)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string %q: %w", x, err)
		}

		if duration < 0 {
			return 0, fmt.Errorf("negative duration: %s", duration)
		}

		return duration, nil
	default:
		return 0, fmt.Errorf("unsupported duration type: %T", x)
	}
}

// durationFromMillis converts milliseconds to a time.Duration and returns an error if invalid.
func durationFromMillis(ms int64) (time.Duration, error) {
	if ms < 0 {
		return 0, fmt.Errorf("negative duration: %d", ms)
	}

	maxMillis := math.MaxInt64 / int64(time.Millisecond)
	if ms > maxMillis {
		return 0, fmt.Errorf("duration too large: %dms", ms)
	}

	return time.Duration(ms) * time.Millisecond, nil
}
