package main

import (
	"testing"

	"cvcrafter/internal/config"
)

func TestOverrideDatabase(t *testing.T) {
	base := config.DatabaseConfig{Host: "db", Port: 5432, Name: "cvcrafter", User: "u"}

	if got := overrideDatabase(base, " ", 0, ""); got != base {
		t.Fatalf("blank flags changed config: %+v", got)
	}
	got := overrideDatabase(base, "replica", 6543, "archive")
	if got.Host != "replica" || got.Port != 6543 || got.Name != "archive" || got.User != "u" {
		t.Fatalf("unexpected override %+v", got)
	}
}
