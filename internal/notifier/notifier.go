package notifier

import (
	"context"
	"errors"
	"time"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// BookingEvent describes a committed booking change.
type BookingEvent struct {
	Action     string    `json:"action"`
	BookingID  uint      `json:"booking_id"`
	UserID     uint      `json:"user_id"`
	RoomID     uint      `json:"room_id"`
	PrevRoomID uint      `json:"prev_room_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Notifier interface {
	NotifyBooking(ctx context.Context, event BookingEvent) error
}

// Multi sends every event to each notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyBooking(ctx context.Context, event BookingEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBooking(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
