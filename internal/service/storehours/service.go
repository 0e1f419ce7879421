package storehours

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"acaihouse/internal/domain"
	hoursrepo "acaihouse/internal/repository/storehours"
)

// Service answers "is the store open right now" from the configured weekly
// opening windows.
type Service struct {
	repo     hoursrepo.Repository
	location *time.Location
}

func New(repo hoursrepo.Repository, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{repo: repo, location: location}
}

// Schedule returns the configured opening windows.
func (s *Service) Schedule(ctx context.Context) ([]domain.StoreHours, error) {
	return s.repo.List(ctx)
}

// SetSchedule validates and replaces the weekly schedule.
func (s *Service) SetSchedule(ctx context.Context, hours []domain.StoreHours) error {
	for _, h := range hours {
		if h.Weekday < 0 || h.Weekday > 6 {
			return fmt.Errorf("weekday out of range: %d", h.Weekday)
		}
		if _, err := parseClock(h.OpensAt); err != nil {
			return fmt.Errorf("opensAt %q: %w", h.OpensAt, err)
		}
		if _, err := parseClock(h.ClosesAt); err != nil {
			return fmt.Errorf("closesAt %q: %w", h.ClosesAt, err)
		}
	}
	return s.repo.Replace(ctx, hours)
}

// IsOpen reports whether any window covers the given instant. A window whose
// close is at or before its open crosses midnight into the next day. An
// empty schedule means always open.
func (s *Service) IsOpen(ctx context.Context, at time.Time) (bool, error) {
	hours, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	if len(hours) == 0 {
		return true, nil
	}

	local := at.In(s.location)
	minute := local.Hour()*60 + local.Minute()
	weekday := int(local.Weekday())
	yesterday := (weekday + 6) % 7

	for _, h := range hours {
		openMin, err := parseClock(h.OpensAt)
		if err != nil {
			return false, err
		}
		closeMin, err := parseClock(h.ClosesAt)
		if err != nil {
			return false, err
		}

		crossesMidnight := closeMin <= openMin
		switch {
		case h.Weekday == weekday && !crossesMidnight:
			if minute >= openMin && minute < closeMin {
				return true, nil
			}
		case h.Weekday == weekday && crossesMidnight:
			if minute >= openMin {
				return true, nil
			}
		case h.Weekday == yesterday && crossesMidnight:
			if minute < closeMin {
				return true, nil
			}
		}
	}
	return false, nil
}

// parseClock turns "HH:MM" into minutes since midnight.
func parseClock(v string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
	if len(parts) != 2 {
		return 0, errors.New("expected HH:MM")
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, errors.New("invalid hour")
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, errors.New("invalid minute")
	}
	return hh*60 + mm, nil
}
