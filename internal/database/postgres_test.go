package database

import "testing"

func TestPoolSize(t *testing.T) {
	if got := poolSize("DB_MAX_CONNS_UNSET", 10); got != 10 {
		t.Fatalf("expected fallback 10, got %d", got)
	}

	t.Setenv("DB_MAX_CONNS", "25")
	if got := poolSize("DB_MAX_CONNS", 10); got != 25 {
		t.Fatalf("expected 25 from env, got %d", got)
	}

	t.Setenv("DB_MAX_CONNS", "-1")
	if got := poolSize("DB_MAX_CONNS", 10); got != 10 {
		t.Fatalf("expected fallback for non-positive value, got %d", got)
	}

	t.Setenv("DB_MAX_CONNS", "lots")
	if got := poolSize("DB_MAX_CONNS", 10); got != 10 {
		t.Fatalf("expected fallback for non-numeric value, got %d", got)
	}
}
