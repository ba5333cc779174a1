// Package timezone keeps every timestamp of the service in one location.
//
// Booking dates sent without an offset (for example "2023-06-24 18:00") are read in
// this location, and every date written back to clients is rendered in it:
//
//	now := timezone.Now()
//	at, err := timezone.ParseAny([]string{time.RFC3339, "2006-01-02 15:04"}, raw)
//	text := timezone.Format(at, "2006-01-02 15:04")
//
// The location is read from APP_TIMEZONE (IANA names such as "Europe/Rome") when the
// package is imported, falling back to UTC.
package timezone
