package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
)

func floatVal(f float64) *float64 { return &f }

// These requests all fail before any storage access, so no database is
// needed to exercise the guards.
func TestCreateBooking_InputGuards(t *testing.T) {
	desk := Actor{ID: uuid.New(), Role: "staff", LibraryID: uuid.New()}
	student := Actor{ID: uuid.New(), Role: "student", LibraryID: desk.LibraryID}
	parentID := uuid.New()
	lockerID := uuid.New()
	seatID := uuid.New()

	cases := []struct {
		name  string
		actor Actor
		req   BookingRequest
	}{
		{
			name:  "missing method",
			actor: desk,
			req:   BookingRequest{},
		},
		{
			name:  "unknown method",
			actor: desk,
			req:   BookingRequest{Method: "cheque"},
		},
		{
			name:  "add-on without parent",
			actor: desk,
			req:   BookingRequest{Method: models.MethodFrontDesk, IsAddOn: true, LockerID: &lockerID},
		},
		{
			name:  "add-on without locker",
			actor: desk,
			req:   BookingRequest{Method: models.MethodFrontDesk, IsAddOn: true, ParentSubscriptionID: &parentID},
		},
		{
			name:  "add-on reserving a seat",
			actor: desk,
			req: BookingRequest{
				Method: models.MethodFrontDesk, IsAddOn: true,
				ParentSubscriptionID: &parentID, LockerID: &lockerID, SeatID: &seatID,
			},
		},
		{
			name:  "partial payment from a student",
			actor: student,
			req:   BookingRequest{Method: models.MethodUpiApp, AmountReceived: floatVal(100)},
		},
		{
			name:  "amount received with a gateway method",
			actor: desk,
			req:   BookingRequest{Method: models.MethodRazorpay, AmountReceived: floatVal(100)},
		},
		{
			name:  "amount received with a manual non-desk method",
			actor: desk,
			req:   BookingRequest{Method: models.MethodQrCode, AmountReceived: floatVal(100)},
		},
		{
			name:  "negative amount received",
			actor: desk,
			req:   BookingRequest{Method: models.MethodFrontDesk, AmountReceived: floatVal(-1)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateBooking(nil, tc.actor, tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}
