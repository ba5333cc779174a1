package dto

import (
	"littlelemon/internal/domains/booking/model"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"
	gModel "littlelemon/shared/model"
	"littlelemon/shared/timezone"
	"net/http"
	"net/url"
	"time"
)

const QueryParamDate = "date"

// BookingRequest is the body of create, full update and partial update.
// An "id" key is accepted and ignored.
type BookingRequest struct {
	Name           *string            `db:"name"             json:"name"             validate:"required,notblank,max=255"`
	NumberOfGuests *int               `db:"number_of_guests" json:"number_of_guests" validate:"omitempty"`
	BookingDate    *timezone.DateTime `db:"booking_date"     json:"booking_date"     validate:"required"                  kind:"datetime" swaggertype:"string" format:"date-time"`
}

func (b *BookingRequest) ToModel(user string) model.Booking {
	guests := model.DefaultNumberOfGuests
	if b.NumberOfGuests != nil {
		guests = *b.NumberOfGuests
	}

	booking := model.Booking{
		NumberOfGuests: guests,
		Metadata:       gModel.NewMetadata(user),
	}

	if b.Name != nil {
		booking.Name = *b.Name
	}

	if b.BookingDate != nil {
		booking.BookingDate = b.BookingDate.Time()
	}

	return booking
}

type BookingResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	NumberOfGuests int    `json:"number_of_guests"`
	BookingDate    string `json:"booking_date"`
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Name = model.Name
	r.NumberOfGuests = model.NumberOfGuests
	r.BookingDate = timezone.ToAppTime(model.BookingDate).Format(constant.DateFormat)
}

// ToModel rebuilds the row a response was rendered from, without audit columns.
func (r *BookingResponse) ToModel() (model.Booking, error) {
	date, err := time.Parse(constant.DateFormat, r.BookingDate)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:             r.ID,
		Name:           r.Name,
		NumberOfGuests: r.NumberOfGuests,
		BookingDate:    date,
	}, nil
}

type GetBookingsResponse struct {
	Items []BookingResponse `json:"items"`
	Total int               `json:"total"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, total int) {
	r.Total = total

	r.Items = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}

// BookingFilter keeps the bookings of one calendar day in the application timezone.
type BookingFilter struct {
	Date *time.Time
}

func (f *BookingFilter) FromRequest(r *http.Request) error {
	value := r.URL.Query().Get(QueryParamDate)
	if value == "" {
		return nil
	}

	date, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return failure.FieldError(QueryParamDate, "date must be a valid date (YYYY-MM-DD)") //nolint:wrapcheck
	}

	f.Date = &date

	return nil
}

func (f *BookingFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{}

	if f.Date == nil {
		return group
	}

	group.And(
		gDto.Filter{
			ArgName:  "date_from",
			Field:    model.FieldBookingDate,
			Value:    *f.Date,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "date_to",
			Field:    model.FieldBookingDate,
			Value:    f.Date.AddDate(0, 0, 1),
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
	)

	return group
}

func (f *BookingFilter) Values() url.Values {
	values := url.Values{}

	if f.Date != nil {
		values.Set(QueryParamDate, f.Date.Format(constant.DateOnlyFormat))
	}

	return values
}
