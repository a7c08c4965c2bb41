package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/port"
)

var (
	ErrNotFound       = port.ErrRecordNotFound
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidKey     = errors.New("invalid record key")
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQL    = "sql"
	DriverRedis  = "redis"
)

// checkName rejects names that are empty or could escape a namespace,
// such as path separators and dot segments.
func checkName(name string, errInvalid error) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\:`) {
		return fmt.Errorf("%w: %q", errInvalid, name)
	}
	return nil
}

func checkRecord(profile, key string) error {
	if err := checkName(profile, ErrInvalidProfile); err != nil {
		return err
	}
	return checkName(key, ErrInvalidKey)
}
