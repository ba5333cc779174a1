package timezone

import (
	"errors"
	"littlelemon/config"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location

	ErrUnknownLayout = errors.New("value does not match any accepted date-time layout")
)

func init() {
	cfg := config.Get()

	name := cfg.App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		name = "UTC"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Europe/Rome', 'UTC', 'America/Chicago'")

		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", name).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// ParseAny tries each layout in order. Layouts without an offset are read in the application timezone.
func ParseAny(layouts []string, value string) (time.Time, error) {
	for _, layout := range layouts {
		if parsed, err := Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, ErrUnknownLayout
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
