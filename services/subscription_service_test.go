package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddPlanDuration_Months(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"plain month", date(2026, 3, 15), 1, date(2026, 4, 15)},
		{"jan 31 clamps to feb", date(2026, 1, 31), 1, date(2026, 2, 28)},
		{"jan 31 leap year", date(2028, 1, 31), 1, date(2028, 2, 29)},
		{"oct 31 clamps to nov 30", date(2026, 10, 31), 1, date(2026, 11, 30)},
		{"crosses year boundary", date(2026, 11, 15), 3, date(2027, 2, 15)},
		{"clamped across year", date(2026, 12, 31), 2, date(2027, 2, 28)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AddPlanDuration(tc.start, models.DurationUnitMonths, tc.n)
			if !got.Equal(tc.want) {
				t.Fatalf("AddPlanDuration(%v, months, %d) = %v, want %v", tc.start, tc.n, got, tc.want)
			}
		})
	}
}

func TestAddPlanDuration_DaysAndWeeks(t *testing.T) {
	if got := AddPlanDuration(date(2026, 3, 30), models.DurationUnitDays, 5); !got.Equal(date(2026, 4, 4)) {
		t.Fatalf("days: got %v", got)
	}
	if got := AddPlanDuration(date(2026, 3, 1), models.DurationUnitWeeks, 2); !got.Equal(date(2026, 3, 15)) {
		t.Fatalf("weeks: got %v", got)
	}
}

func TestStackedStartDate(t *testing.T) {
	cases := []struct {
		name      string
		latestEnd time.Time
		now       time.Time
		want      time.Time
	}{
		{
			// Renewing mid-cycle starts the day after the current cycle ends.
			name:      "renewal before expiry stacks",
			latestEnd: date(2024, 3, 31),
			now:       date(2024, 3, 15),
			want:      date(2024, 4, 1),
		},
		{
			name:      "renewal on the end date stacks",
			latestEnd: date(2024, 3, 31),
			now:       date(2024, 3, 31),
			want:      date(2024, 4, 1),
		},
		{
			name:      "lapsed subscription starts today",
			latestEnd: date(2024, 3, 31),
			now:       date(2024, 5, 10),
			want:      date(2024, 5, 10),
		},
		{
			name:      "intra-day clock ignored",
			latestEnd: time.Date(2024, 3, 31, 18, 45, 0, 0, time.UTC),
			now:       time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			want:      date(2024, 4, 1),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StackedStartDate(tc.latestEnd, tc.now)
			if !got.Equal(tc.want) {
				t.Fatalf("StackedStartDate(%v, %v) = %v, want %v", tc.latestEnd, tc.now, got, tc.want)
			}
		})
	}
}

func TestValidateAddOnParent(t *testing.T) {
	studentID := uuid.New()
	branchID := uuid.New()

	okParent := func() *models.Subscription {
		return &models.Subscription{
			StudentID: studentID,
			BranchID:  branchID,
			Status:    models.SubscriptionActive,
		}
	}

	if err := ValidateAddOnParent(okParent(), studentID, branchID); err != nil {
		t.Fatalf("valid parent rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*models.Subscription)
	}{
		{"different student", func(s *models.Subscription) { s.StudentID = uuid.New() }},
		{"different branch", func(s *models.Subscription) { s.BranchID = uuid.New() }},
		{"not active", func(s *models.Subscription) { s.Status = models.SubscriptionPending }},
		{"parent is itself an add-on", func(s *models.Subscription) { s.IsAddOn = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parent := okParent()
			tc.mutate(parent)
			err := ValidateAddOnParent(parent, studentID, branchID)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAddPlanDuration_PreservesClock(t *testing.T) {
	start := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)
	got := AddPlanDuration(start, models.DurationUnitMonths, 1)
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("clock not preserved: got %v", got)
	}
	if got.Day() != 28 {
		t.Fatalf("day = %d, want clamped 28", got.Day())
	}
}
