package model_test

import (
	"littlelemon/internal/domains/booking/model"
	"littlelemon/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_String(t *testing.T) {
	booking := model.Booking{
		Name:           "Mario",
		NumberOfGuests: 4,
		BookingDate:    time.Date(2024, 5, 1, 19, 30, 0, 0, timezone.GetLocation()),
	}

	assert.Equal(t, "Mario - 4 guests on 2024-05-01 19:30", booking.String())
}

func TestBooking_GetOrderQuery(t *testing.T) {
	assert.Equal(t, "bookings.booking_date ASC, bookings.id ASC", model.Booking{}.GetOrderQuery())
}
