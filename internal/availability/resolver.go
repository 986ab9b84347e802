package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	priesterrors "pujari/internal/priests/errors"
	"pujari/pkg/config"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/model"
)

// PriestDirectory is the slice of the priest repository the resolver needs.
type PriestDirectory interface {
	FindByID(ctx context.Context, id string) (*model.PriestProfile, error)
}

// BookingLookup returns all non-cancelled bookings for a priest on a date.
type BookingLookup interface {
	FindActiveByPriestAndDate(ctx context.Context, priestID, date string) ([]*model.Booking, error)
}

// Resolver computes bookable slots from a priest's weekly availability and
// the bookings already on the calendar. Read-only; booking creation holds
// the slot lock and re-checks inside its transaction.
type Resolver struct {
	priests  PriestDirectory
	bookings BookingLookup
	cfg      *config.Config
}

func NewResolver(priests PriestDirectory, bookings BookingLookup, cfg *config.Config) *Resolver {
	return &Resolver{
		priests:  priests,
		bookings: bookings,
		cfg:      cfg,
	}
}

// ListAvailableSlots returns the free sub-intervals of the priest's windows
// on the given date, sorted by start time. A weekday absent from the
// priest's availability map yields no slots.
func (r *Resolver) ListAvailableSlots(ctx context.Context, priestID, date string) ([]model.TimeWindow, error) {
	windows, busy, err := r.dayIntervals(ctx, priestID, date)
	if err != nil {
		return nil, err
	}

	free := subtract(windows, busy)

	slots := make([]model.TimeWindow, 0, len(free))
	for _, s := range free {
		slots = append(slots, model.TimeWindow{
			StartTime: minutesToClock(s.from),
			EndTime:   minutesToClock(s.to),
		})
	}
	return slots, nil
}

// IsSlotFree reports whether [startTime, endTime) on the given date lies
// fully inside one of the priest's windows and overlaps no non-cancelled
// booking. Touching endpoints do not conflict.
func (r *Resolver) IsSlotFree(ctx context.Context, priestID, date, startTime, endTime string) (bool, error) {
	start, err := clockToMinutes(startTime)
	if err != nil {
		return false, apperrors.InvalidInput("invalid start_time, must be HH:MM")
	}
	end, err := clockToMinutes(endTime)
	if err != nil {
		return false, apperrors.InvalidInput("invalid end_time, must be HH:MM")
	}
	if start >= end {
		return false, apperrors.InvalidInput("start_time must be before end_time")
	}

	windows, busy, err := r.dayIntervals(ctx, priestID, date)
	if err != nil {
		return false, err
	}

	requested := span{from: start, to: end}

	contained := false
	for _, w := range windows {
		if requested.from >= w.from && requested.to <= w.to {
			contained = true
			break
		}
	}
	if !contained {
		return false, nil
	}

	for _, b := range busy {
		if requested.overlaps(b) {
			return false, nil
		}
	}
	return true, nil
}

func (r *Resolver) dayIntervals(ctx context.Context, priestID, date string) ([]span, []span, error) {
	priest, err := r.priests.FindByID(ctx, priestID)
	if err != nil {
		if errors.Is(err, priesterrors.ErrNotFound) {
			return nil, nil, apperrors.NotFoundWithID("Priest", priestID)
		}
		if errors.Is(err, priesterrors.ErrInvalidID) {
			return nil, nil, apperrors.InvalidInput("Invalid priest ID format")
		}
		return nil, nil, apperrors.Internal("Failed to load priest profile", err)
	}

	zone := priest.TimeZone
	if zone == "" {
		zone = r.cfg.DefaultTimeZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}

	day, err := time.ParseInLocation(model.DateLayout, date, loc)
	if err != nil {
		return nil, nil, apperrors.InvalidInput("invalid date, must be YYYY-MM-DD")
	}

	windows := make([]span, 0, 2)
	for _, w := range priest.Availability[model.WeekdayOf(day)] {
		from, err := clockToMinutes(w.StartTime)
		if err != nil {
			continue
		}
		to, err := clockToMinutes(w.EndTime)
		if err != nil || from >= to {
			continue
		}
		windows = append(windows, span{from: from, to: to})
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].from < windows[j].from })

	existing, err := r.bookings.FindActiveByPriestAndDate(ctx, priestID, date)
	if err != nil {
		return nil, nil, apperrors.Internal("Failed to load bookings for date", err)
	}

	busy := make([]span, 0, len(existing))
	for _, b := range existing {
		from, err := clockToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		to, err := clockToMinutes(b.EndTime)
		if err != nil {
			continue
		}
		busy = append(busy, span{from: from, to: to})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].from < busy[j].from })

	return windows, busy, nil
}

// span is a half-open [from, to) interval in minutes of the day.
type span struct {
	from int
	to   int
}

func (s span) overlaps(other span) bool {
	return s.from < other.to && s.to > other.from
}

// subtract removes every busy interval from the windows and returns the
// remaining free sub-intervals in order.
func subtract(windows, busy []span) []span {
	free := make([]span, 0, len(windows))
	for _, w := range windows {
		remaining := []span{w}
		for _, b := range busy {
			next := remaining[:0:0]
			for _, r := range remaining {
				if !r.overlaps(b) {
					next = append(next, r)
					continue
				}
				if b.from > r.from {
					next = append(next, span{from: r.from, to: b.from})
				}
				if b.to < r.to {
					next = append(next, span{from: b.to, to: r.to})
				}
			}
			remaining = next
		}
		free = append(free, remaining...)
	}
	return free
}

func clockToMinutes(clock string) (int, error) {
	t, err := time.Parse(model.TimeLayout, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minutesToClock(m int) string {
	t := time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC)
	return t.Format(model.TimeLayout)
}
