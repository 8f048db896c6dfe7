package service

import (
	"context"
	"testing"

	"pixel-canvas-system/internal/models"
	apperrors "pixel-canvas-system/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLedgerCreditDebit(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 10, "1000", 100)
	user := seedUser(t, e.db, "alice")

	err := e.db.Transaction(func(tx *gorm.DB) error {
		account, err := e.accounts.GetOrCreateForUpdate(tx, user.ID, project.ID)
		require.NoError(t, err)

		txn, err := e.ledger.Credit(tx, account, 10, Source{
			Type:        models.SourceTypeDonation,
			ID:          "donation-1",
			Description: "Donation of $10.00",
		}, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeEarn, txn.Type)
		assert.Equal(t, int64(10), txn.Amount)
		assert.Equal(t, int64(0), txn.BalanceBefore)
		assert.Equal(t, int64(10), txn.BalanceAfter)

		txn, err = e.ledger.Debit(tx, account, 3, Source{
			Type:        models.SourceTypePixelPlacement,
			ID:          "pixel-1",
			Description: "Placed pixel at (1, 1)",
		})
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeSpend, txn.Type)
		assert.Equal(t, int64(-3), txn.Amount)
		assert.Equal(t, int64(10), txn.BalanceBefore)
		assert.Equal(t, int64(7), txn.BalanceAfter)
		return nil
	})
	require.NoError(t, err)

	account := loadAccount(t, e, user.ID, project.ID)
	assert.Equal(t, int64(7), account.Balance)
	assert.Equal(t, int64(10), account.TotalEarned)
	assert.Equal(t, int64(3), account.TotalSpent)
	assert.Equal(t, account.Balance, account.TotalEarned-account.TotalSpent)
	assert.Equal(t, int64(1), account.PixelsPlaced)
	assert.True(t, account.TotalDonated.Equal(decimal.NewFromInt(10)))
}

func TestLedgerDebitInsufficientBalance(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 10, "1000", 100)
	user := seedUser(t, e.db, "bob")
	fundAccount(t, e, user.ID, project.ID, 2)

	err := e.db.Transaction(func(tx *gorm.DB) error {
		account, err := e.accounts.GetOrCreateForUpdate(tx, user.ID, project.ID)
		require.NoError(t, err)

		_, err = e.ledger.Debit(tx, account, 3, Source{
			Type: models.SourceTypePixelPlacement,
			ID:   "pixel-1",
		})
		return err
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	// Nothing moved.
	account := loadAccount(t, e, user.ID, project.ID)
	assert.Equal(t, int64(2), account.Balance)
	assert.Equal(t, int64(0), account.TotalSpent)

	txns, err := e.txns.GetByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 10, "1000", 100)
	user := seedUser(t, e.db, "carol")

	err := e.db.Transaction(func(tx *gorm.DB) error {
		account, err := e.accounts.GetOrCreateForUpdate(tx, user.ID, project.ID)
		require.NoError(t, err)

		for _, amount := range []int64{0, -5} {
			_, err = e.ledger.Credit(tx, account, amount, Source{Type: models.SourceTypeDonation, ID: "d"}, decimal.Zero)
			assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

			_, err = e.ledger.Debit(tx, account, amount, Source{Type: models.SourceTypePixelPlacement, ID: "p"})
			assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestLedgerReplayReconstructsBalance(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 10, "1000", 100)
	user := seedUser(t, e.db, "dave")

	err := e.db.Transaction(func(tx *gorm.DB) error {
		account, err := e.accounts.GetOrCreateForUpdate(tx, user.ID, project.ID)
		require.NoError(t, err)

		credits := []int64{5, 12, 3}
		debits := []int64{4, 1, 7}
		for _, amount := range credits {
			_, err = e.ledger.Credit(tx, account, amount, Source{Type: models.SourceTypeDonation, ID: "d"}, decimal.NewFromInt(amount))
			require.NoError(t, err)
		}
		for _, amount := range debits {
			_, err = e.ledger.Debit(tx, account, amount, Source{Type: models.SourceTypePixelPlacement, ID: "p"})
			require.NoError(t, err)
		}
		return nil
	})
	require.NoError(t, err)

	account := loadAccount(t, e, user.ID, project.ID)
	assert.Equal(t, int64(8), account.Balance)

	replayed, err := e.ledger.Replay(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Balance, replayed)

	// The audit rows chain: each entry's before matches the previous after.
	txns, err := e.txns.GetByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, txns, 6)
	for i := 1; i < len(txns); i++ {
		assert.Equal(t, txns[i-1].BalanceAfter, txns[i].BalanceBefore)
	}
	for _, txn := range txns {
		assert.Equal(t, txn.BalanceAfter, txn.BalanceBefore+txn.Amount)
	}
}
