package services

import (
	"testing"
	"time"
)

func TestIsSubmissionWindowOpenAdminAlwaysOpen(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)
	if !IsSubmissionWindowOpen(future, true) {
		t.Fatalf("expected submission window to always be open for an admin")
	}
}

func TestIsSubmissionWindowOpenNonAdminBeforeGrace(t *testing.T) {
	matchDate := time.Now().UTC().Add(-30 * time.Minute)
	if IsSubmissionWindowOpen(matchDate, false) {
		t.Fatalf("expected submission window to still be closed within the grace window")
	}
}

func TestIsSubmissionWindowOpenNonAdminAfterGrace(t *testing.T) {
	matchDate := time.Now().UTC().Add(-2 * time.Hour)
	if !IsSubmissionWindowOpen(matchDate, false) {
		t.Fatalf("expected submission window to be open once the grace window has elapsed")
	}
}

func TestDerefHelpers(t *testing.T) {
	if derefInt(nil) != 0 {
		t.Fatalf("expected derefInt(nil) == 0")
	}
	if derefInt64(nil) != 0 {
		t.Fatalf("expected derefInt64(nil) == 0")
	}
	five := 5
	if derefInt(&five) != 5 {
		t.Fatalf("expected derefInt to dereference a non-nil pointer")
	}
	var big int64 = 42
	if derefInt64(&big) != 42 {
		t.Fatalf("expected derefInt64 to dereference a non-nil pointer")
	}
}
