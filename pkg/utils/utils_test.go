package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestULIDsSortWithinSameMillisecond(t *testing.T) {
	u := New()
	now := time.Now()

	prev := ""
	for i := 0; i < 100; i++ {
		id, err := u.NewULIDFromTimestamp(now)
		if err != nil {
			t.Fatalf("NewULIDFromTimestamp: %v", err)
		}
		if id <= prev {
			t.Fatalf("id %q not after %q", id, prev)
		}
		prev = id
	}
}

func TestNewSessionID(t *testing.T) {
	u := New()
	a, b := u.NewSessionID(), u.NewSessionID()

	if a == b {
		t.Fatal("session ids collide")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("not a uuid: %v", err)
	}
}
