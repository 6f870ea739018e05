package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sentryline/fraud-triage/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestCompositeScorer_Score(t *testing.T) {
	scorer := NewCompositeScorer()

	tests := []struct {
		name          string
		tx            domain.Transaction
		expectScore   int
		expectSignals []string
		expectReview  bool
	}{
		{
			name: "small transaction on a clean device",
			tx: domain.Transaction{
				ID:     uuid.New(),
				Amount: decimal.NewFromInt(500),
			},
			expectScore:   10,
			expectSignals: []string{},
			expectReview:  false,
		},
		{
			name: "high value adds one tier",
			tx: domain.Transaction{
				ID:     uuid.New(),
				Amount: decimal.NewFromInt(15000),
			},
			expectScore:   30,
			expectSignals: []string{"high_value"},
			expectReview:  false,
		},
		{
			name: "very high value crosses both tiers",
			tx: domain.Transaction{
				ID:     uuid.New(),
				Amount: decimal.NewFromInt(75000),
			},
			expectScore:   60,
			expectSignals: []string{"high_value", "very_high_value"},
			expectReview:  false,
		},
		{
			name: "rooted device on a low-trust merchant clamps at 100",
			tx: domain.Transaction{
				ID:            uuid.New(),
				Amount:        decimal.NewFromInt(60000),
				MerchantTrust: intPtr(20),
				Telemetry:     &domain.DeviceTelemetry{Rooted: true},
			},
			expectScore:   100,
			expectSignals: []string{"high_value", "very_high_value", "rooted_device", "merchant_risk"},
			expectReview:  true,
		},
		{
			name: "device suspicion scales with the reported score",
			tx: domain.Transaction{
				ID:        uuid.New(),
				Amount:    decimal.NewFromInt(2000),
				Telemetry: &domain.DeviceTelemetry{SuspicionScore: 80},
			},
			expectScore:   34,
			expectSignals: []string{"device_suspicion"},
			expectReview:  false,
		},
		{
			name: "app sprawl adds a flat step",
			tx: domain.Transaction{
				ID:        uuid.New(),
				Amount:    decimal.NewFromInt(2000),
				Telemetry: &domain.DeviceTelemetry{InstalledApps: 250},
			},
			expectScore:   20,
			expectSignals: []string{"app_sprawl"},
			expectReview:  false,
		},
		{
			name: "trusted merchant adds nothing",
			tx: domain.Transaction{
				ID:            uuid.New(),
				Amount:        decimal.NewFromInt(2000),
				MerchantTrust: intPtr(100),
			},
			expectScore:   10,
			expectSignals: []string{"merchant_risk"},
			expectReview:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scorer.Score(tt.tx)
			assert.Equal(t, tt.expectScore, res.Score)
			assert.Equal(t, tt.expectSignals, res.Signals)
			assert.Equal(t, tt.expectReview, res.NeedsReview)
		})
	}
}

func TestCompositeScorer_MonotonicInAmount(t *testing.T) {
	scorer := NewCompositeScorer()

	base := domain.Transaction{
		ID:        uuid.New(),
		Telemetry: &domain.DeviceTelemetry{SuspicionScore: 60},
	}

	prev := -1
	for _, amount := range []int64{100, 9000, 20000, 60000, 500000} {
		tx := base
		tx.Amount = decimal.NewFromInt(amount)
		res := scorer.Score(tx)
		assert.GreaterOrEqual(t, res.Score, prev, "score must not decrease as amount grows")
		prev = res.Score
	}
}

func TestCompositeScorer_ReviewThresholdBoundary(t *testing.T) {
	scorer := NewCompositeScorer()

	// 10 base + 20 + 30 amount tiers = 60: below threshold, no review.
	atThreshold := scorer.Score(domain.Transaction{
		ID:     uuid.New(),
		Amount: decimal.NewFromInt(60000),
	})
	assert.Equal(t, 60, atThreshold.Score)
	assert.False(t, atThreshold.NeedsReview)

	// Adding device suspicion pushes past the threshold.
	past := scorer.Score(domain.Transaction{
		ID:        uuid.New(),
		Amount:    decimal.NewFromInt(60000),
		Telemetry: &domain.DeviceTelemetry{SuspicionScore: 60},
	})
	assert.Greater(t, past.Score, ReviewThreshold)
	assert.True(t, past.NeedsReview)
}
