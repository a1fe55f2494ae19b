package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string      { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestSubscriptionIsActive(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "provider active without period end",
			sub:  Subscription{ProviderStatus: SubscriptionActive},
			want: true,
		},
		{
			name: "provider active with future period end",
			sub:  Subscription{ProviderStatus: SubscriptionActive, ProviderPeriodEnd: timePtr(future)},
			want: true,
		},
		{
			name: "provider active but period expired",
			sub:  Subscription{ProviderStatus: SubscriptionActive, ProviderPeriodEnd: timePtr(past)},
			want: false,
		},
		{
			name: "provider paused",
			sub:  Subscription{ProviderStatus: SubscriptionPaused},
			want: false,
		},
		{
			name: "provider paused but unexpired active override",
			sub: Subscription{
				ProviderStatus: SubscriptionPaused,
				OverrideStatus: strPtr(SubscriptionActive),
				OverrideUntil:  timePtr(future),
			},
			want: true,
		},
		{
			name: "indefinite active override beats cancelled provider",
			sub: Subscription{
				ProviderStatus: SubscriptionCancelled,
				OverrideStatus: strPtr(SubscriptionActive),
			},
			want: true,
		},
		{
			name: "expired active override falls through to provider",
			sub: Subscription{
				ProviderStatus: SubscriptionPaused,
				OverrideStatus: strPtr(SubscriptionActive),
				OverrideUntil:  timePtr(past),
			},
			want: false,
		},
		{
			name: "expired override does not block valid provider period",
			sub: Subscription{
				ProviderStatus:    SubscriptionActive,
				ProviderPeriodEnd: timePtr(future),
				OverrideStatus:    strPtr(SubscriptionActive),
				OverrideUntil:     timePtr(past),
			},
			want: true,
		},
		{
			name: "paused override does not block active provider",
			sub: Subscription{
				ProviderStatus:    SubscriptionActive,
				ProviderPeriodEnd: timePtr(future),
				OverrideStatus:    strPtr(SubscriptionPaused),
			},
			want: true,
		},
		{
			name: "cancelled everywhere",
			sub: Subscription{
				ProviderStatus: SubscriptionCancelled,
				OverrideStatus: strPtr(SubscriptionCancelled),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsActive(now))
		})
	}
}

func TestSubscriptionIsActive_PureFunction(t *testing.T) {
	now := time.Now()
	sub := Subscription{
		ProviderStatus: SubscriptionPaused,
		OverrideStatus: strPtr(SubscriptionActive),
		OverrideUntil:  timePtr(now.AddDate(0, 0, 10)),
	}
	before := sub

	_ = sub.IsActive(now)
	_ = sub.IsActive(now.AddDate(0, 0, 20))

	assert.Equal(t, before, sub)
}
