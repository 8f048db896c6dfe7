package service

import (
	"context"
	"sync"
	"testing"

	"pixel-canvas-system/internal/models"
	apperrors "pixel-canvas-system/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonateAwardsProportionalTokens(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 100, "10000", 10000)
	alice := seedUser(t, e.db, "alice")

	result, err := e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.RequireFromString("5000"), "half way there", true)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), result.PixelsAwarded)
	assert.Equal(t, int64(5000), result.NewBalance)

	account := loadAccount(t, e, alice.ID, project.ID)
	assert.Equal(t, int64(5000), account.Balance)
	assert.Equal(t, int64(5000), account.TotalEarned)
	assert.True(t, account.TotalDonated.Equal(decimal.RequireFromString("5000")))

	txns, err := e.txns.GetByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionTypeEarn, txns[0].Type)
	assert.Equal(t, int64(5000), txns[0].Amount)
	assert.Equal(t, int64(0), txns[0].BalanceBefore)
	assert.Equal(t, int64(5000), txns[0].BalanceAfter)
	assert.Equal(t, models.SourceTypeDonation, txns[0].SourceType)
	assert.Equal(t, result.DonationID, txns[0].SourceID)

	fresh, err := e.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.True(t, fresh.AmountRaised.Equal(decimal.RequireFromString("5000")))
}

func TestDonateWholeDollarRate(t *testing.T) {
	e := newEngine(t, engineOptions{})
	// One pixel per dollar at this target, so $1 earns exactly one token.
	project := seedProject(t, e.db, 100, "10000", 10000)
	alice := seedUser(t, e.db, "alice")

	result, err := e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.NewFromInt(1), "", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.PixelsAwarded)
}

func TestDonateRoundsDownToZero(t *testing.T) {
	e := newEngine(t, engineOptions{})
	// Half a pixel per dollar: $1 converts to 0.5 and floors to nothing.
	project := seedProject(t, e.db, 100, "10000", 5000)
	alice := seedUser(t, e.db, "alice")

	result, err := e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.NewFromInt(1), "", true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.PixelsAwarded)
	assert.Equal(t, int64(0), result.NewBalance)

	// The donation still lands: donated total, donation row, amount raised.
	account := loadAccount(t, e, alice.ID, project.ID)
	assert.Equal(t, int64(0), account.Balance)
	assert.Equal(t, int64(0), account.TotalEarned)
	assert.True(t, account.TotalDonated.Equal(decimal.NewFromInt(1)))

	txns, err := e.txns.GetByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)

	donations, err := e.donations.GetByUser(context.Background(), alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, int64(0), donations[0].PixelsAwarded)

	fresh, err := e.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.True(t, fresh.AmountRaised.Equal(decimal.NewFromInt(1)))
}

func TestDonateAccumulatesAcrossDonations(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 100, "10000", 10000)
	alice := seedUser(t, e.db, "alice")

	_, err := e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.RequireFromString("10.50"), "", true)
	require.NoError(t, err)
	result, err := e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.RequireFromString("25.25"), "", true)
	require.NoError(t, err)

	assert.Equal(t, int64(25), result.PixelsAwarded)
	account := loadAccount(t, e, alice.ID, project.ID)
	assert.Equal(t, int64(35), account.Balance)
	assert.True(t, account.TotalDonated.Equal(decimal.RequireFromString("35.75")))

	fresh, err := e.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.True(t, fresh.AmountRaised.Equal(decimal.RequireFromString("35.75")))
}

func TestDonateConcurrentCreatesSingleAccount(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 100, "1000", 100)
	alice := seedUser(t, e.db, "alice")

	// All four donations race through the lazy account creation.
	const donors = 4
	var wg sync.WaitGroup
	errs := make([]error, donors)
	for i := 0; i < donors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.donation.Donate(context.Background(), alice.ID, project.ID,
				decimal.NewFromInt(10), "", true)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, e.db.Model(&models.TokenAccount{}).
		Where("user_id = ? AND project_id = ?", alice.ID, project.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// $10 against a $1000 target with 100 pixels earns one token each.
	account := loadAccount(t, e, alice.ID, project.ID)
	assert.Equal(t, int64(4), account.Balance)
	assert.Equal(t, int64(4), account.TotalEarned)
	assert.True(t, account.TotalDonated.Equal(decimal.NewFromInt(40)))

	fresh, err := e.projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.True(t, fresh.AmountRaised.Equal(decimal.NewFromInt(40)))
}

func TestDonateRejectsBadInput(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 100, "10000", 10000)
	alice := seedUser(t, e.db, "alice")

	_, err := e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.Zero, "", true)
	require.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.NewFromInt(-5), "", true)
	require.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = e.donation.Donate(context.Background(), alice.ID, "no-such-project",
		decimal.NewFromInt(10), "", true)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDonateRejectsUnsetTarget(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 100, "0", 10000)
	alice := seedUser(t, e.db, "alice")

	_, err := e.donation.Donate(context.Background(), alice.ID, project.ID,
		decimal.NewFromInt(10), "", true)
	require.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	donations, err := e.donations.GetByUser(context.Background(), alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, donations)
}
