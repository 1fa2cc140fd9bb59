package model

import (
	"testing"
	"time"
)

func TestAttendanceTokenIsExpired(t *testing.T) {
	issued := time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)
	token := &AttendanceToken{CreatedAt: issued}
	ttl := 6 * time.Hour

	if token.IsExpired(issued.Add(5*time.Hour), ttl) {
		t.Error("token must be valid within ttl")
	}
	if token.IsExpired(issued.Add(6*time.Hour), ttl) {
		t.Error("token must be valid exactly at ttl boundary")
	}
	if !token.IsExpired(issued.Add(6*time.Hour+time.Second), ttl) {
		t.Error("token must expire after ttl")
	}
}

func TestReservationReconcilable(t *testing.T) {
	today := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		res  Reservation
		want bool
	}{
		{"booked today", Reservation{Status: StatusBooked, Date: today}, true},
		{"booked future", Reservation{Status: StatusBooked, Date: today.AddDate(0, 0, 2)}, true},
		{"booked past", Reservation{Status: StatusBooked, Date: today.AddDate(0, 0, -1)}, false},
		{"attended future", Reservation{Status: StatusAttended, Date: today.AddDate(0, 0, 2)}, false},
		{"absent future", Reservation{Status: StatusAbsent, Date: today.AddDate(0, 0, 2)}, false},
	}

	for _, tc := range cases {
		if got := tc.res.Reconcilable(today); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
