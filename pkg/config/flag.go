package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean env var that treats a blank value as false, so a line like
// EATWISE_AUTO_MIGRATE= in a .env file does not abort startup.
type Flag bool

// Decode implements envconfig.Decoder.
func (f *Flag) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*f = false
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", value)
	}
	*f = Flag(parsed)
	return nil
}
