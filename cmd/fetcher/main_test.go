package main

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/viki-m13/reddit-data-api/internal/config"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name     string
		defaults config.Defaults
		want     int
	}{
		{name: "within bounds", defaults: config.Defaults{Limit: 7, MaxLimit: 100}, want: 7},
		{name: "above max", defaults: config.Defaults{Limit: 500, MaxLimit: 100}, want: 100},
		{name: "non-positive limit", defaults: config.Defaults{Limit: 0, MaxLimit: 100}, want: 5},
		{name: "zero max means no cap", defaults: config.Defaults{Limit: 7, MaxLimit: 0}, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampLimit(tt.defaults))
		})
	}
}
