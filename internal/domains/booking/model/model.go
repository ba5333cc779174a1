package model

import (
	"fmt"
	"littlelemon/shared/constant"
	"littlelemon/shared/model"
	"littlelemon/shared/timezone"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldName           = "name"
	FieldNumberOfGuests = "number_of_guests"
	FieldBookingDate    = "booking_date"

	DefaultNumberOfGuests = 6
)

type Booking struct {
	ID             int64     `db:"id" insert:"-"`
	Name           string    `db:"name"`
	NumberOfGuests int       `db:"number_of_guests"`
	BookingDate    time.Time `db:"booking_date"`
	model.Metadata
}

func (Booking) GetOrderQuery() string {
	return TableName + ".booking_date ASC, " + TableName + ".id ASC"
}

// String renders "Mario - 4 guests on 2024-05-01 19:00" in the application timezone.
func (b Booking) String() string {
	return fmt.Sprintf("%s - %d guests on %s", b.Name, b.NumberOfGuests, timezone.ToAppTime(b.BookingDate).Format(constant.DisplayDateFormat))
}
