package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestNewValidRateLimiter(t *testing.T) {
	cases := []struct {
		name     string
		r        rate.Limit
		b        int
		hasError bool
	}{
		{"valid limiter", 0.1, 1, false},
		{"zero rate", 0, 1, true},
		{"zero burst", 0.1, 0, true},
		{"both zero", 0, 0, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			limiter, err := NewValidLimiter(c.r, c.b)
			assert.Equal(t, c.hasError, err != nil)
			if !c.hasError {
				assert.NotNil(t, limiter)
			}
		})
	}
}

func TestParseRateLimitSyntax(t *testing.T) {
	cases := []struct {
		desc     string
		limit    rate.Limit
		burst    int
		hasError bool
	}{
		{"2+1/5s", rate.Every(5 * time.Second), 2, false},
		{"5+3/1m", rate.Every(20 * time.Second), 5, false},
		{"100/1s", rate.Every(10 * time.Millisecond), 100, false},
		{"3m", rate.Every(3 * time.Minute), 1, false},
		{"abc", 0, 0, true},
		{"0/1s", 0, 0, true},
		{"-5/1s", 0, 0, true},
		{"2+0/1s", 0, 0, true},
		{"1/0s", 0, 0, true},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			limiter, err := ParseRateLimitSyntax(c.desc)
			if c.hasError {
				assert.Error(t, err)
				return
			}

			if assert.NoError(t, err) {
				assert.InDelta(t, float64(c.limit), float64(limiter.Limit()), 1e-9)
				assert.Equal(t, c.burst, limiter.Burst())
			}
		})
	}
}
