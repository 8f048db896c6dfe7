package service

import (
	"testing"
	"time"

	"pixel-canvas-system/internal/models"
	apperrors "pixel-canvas-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldownGateReadyByDefault(t *testing.T) {
	gate := NewCooldownGate(5 * time.Minute)
	account := &models.TokenAccount{}

	assert.NoError(t, gate.Check(account, time.Now()))
}

func TestCooldownGateArmAndElapse(t *testing.T) {
	gate := NewCooldownGate(5 * time.Minute)
	account := &models.TokenAccount{}
	now := time.Now()

	gate.Arm(account, now)
	require.NotNil(t, account.CooldownUntil)
	require.NotNil(t, account.LastPlacedAt)
	assert.Equal(t, now.Add(5*time.Minute), *account.CooldownUntil)
	assert.Equal(t, now, *account.LastPlacedAt)

	// Cooling: a check one minute in fails with the remaining seconds.
	err := gate.Check(account, now.Add(time.Minute))
	require.ErrorIs(t, err, apperrors.ErrCooldownActive)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, int64(240), appErr.Remaining)

	// Ready again once the window has elapsed.
	assert.NoError(t, gate.Check(account, now.Add(5*time.Minute)))
	assert.NoError(t, gate.Check(account, now.Add(6*time.Minute)))
}

func TestCooldownRemainingRoundsUp(t *testing.T) {
	gate := NewCooldownGate(5 * time.Minute)
	account := &models.TokenAccount{}
	now := time.Now()

	gate.Arm(account, now)

	err := gate.Check(account, now.Add(4*time.Minute+59*time.Second+500*time.Millisecond))
	require.ErrorIs(t, err, apperrors.ErrCooldownActive)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, int64(1), appErr.Remaining)
}

func TestCooldownCheckDoesNotMutate(t *testing.T) {
	gate := NewCooldownGate(5 * time.Minute)
	account := &models.TokenAccount{}
	now := time.Now()

	gate.Arm(account, now)
	until := *account.CooldownUntil

	_ = gate.Check(account, now.Add(time.Minute))
	assert.Equal(t, until, *account.CooldownUntil)
}
