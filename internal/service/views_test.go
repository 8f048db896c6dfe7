package service

import (
	"context"
	"testing"
	"time"

	"pixel-canvas-system/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardOrdering(t *testing.T) {
	e := newEngine(t, engineOptions{cooldown: 0})
	project := seedProject(t, e.db, 10, "1000", 100)
	alice := seedUser(t, e.db, "alice")
	bob := seedUser(t, e.db, "bob")
	carol := seedUser(t, e.db, "carol")

	fundAccount(t, e, alice.ID, project.ID, 10)
	fundAccount(t, e, bob.ID, project.ID, 10)
	fundAccount(t, e, carol.ID, project.ID, 10)

	// carol paints three cells, alice and bob one each.
	_, err := e.placement.PlacePixel(context.Background(), carol.ID, project.ID, 0, 0, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), carol.ID, project.ID, 0, 1, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), carol.ID, project.ID, 0, 2, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), alice.ID, project.ID, 1, 0, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), bob.ID, project.ID, 2, 0, "#ff0000", "")
	require.NoError(t, err)

	// bob out-donates alice to break their pixel tie.
	_, err = e.donation.Donate(context.Background(), bob.ID, project.ID,
		decimal.NewFromInt(50), "", true)
	require.NoError(t, err)

	entries, err := e.views.Leaderboard(context.Background(), project.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "carol", entries[0].Username)
	assert.Equal(t, int64(3), entries[0].PixelsPlaced)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, "alice", entries[2].Username)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestLeaderboardTieBreaksByAccountCreation(t *testing.T) {
	e := newEngine(t, engineOptions{cooldown: 0})
	project := seedProject(t, e.db, 10, "1000", 100)
	alice := seedUser(t, e.db, "alice")
	bob := seedUser(t, e.db, "bob")

	// Identical pixels and donations; alice's account was created first.
	fundAccount(t, e, alice.ID, project.ID, 10)
	fundAccount(t, e, bob.ID, project.ID, 10)

	_, err := e.placement.PlacePixel(context.Background(), alice.ID, project.ID, 0, 0, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), bob.ID, project.ID, 1, 1, "#ff0000", "")
	require.NoError(t, err)

	entries, err := e.views.Leaderboard(context.Background(), project.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, "bob", entries[1].Username)
}

func TestLeaderboardLimit(t *testing.T) {
	e := newEngine(t, engineOptions{cooldown: 0})
	project := seedProject(t, e.db, 10, "1000", 100)
	for _, name := range []string{"u1", "u2", "u3"} {
		user := seedUser(t, e.db, name)
		fundAccount(t, e, user.ID, project.ID, 5)
	}

	entries, err := e.views.Leaderboard(context.Background(), project.ID, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTokenStatusZeroForUnknownAccount(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 10, "1000", 100)
	alice := seedUser(t, e.db, "alice")

	status, err := e.views.GetTokenStatus(context.Background(), alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Balance)
	assert.False(t, status.IsCoolingDown)
	assert.Nil(t, status.CanPlaceAt)
	assert.True(t, status.TotalDonated.Equal(decimal.Zero))
}

func TestTokenStatusReflectsCooldown(t *testing.T) {
	e := newEngine(t, engineOptions{cooldown: 5 * time.Minute})
	project := seedProject(t, e.db, 10, "1000", 100)
	alice := seedUser(t, e.db, "alice")
	fundAccount(t, e, alice.ID, project.ID, 10)

	_, err := e.placement.PlacePixel(context.Background(), alice.ID, project.ID, 0, 0, "#ff0000", "")
	require.NoError(t, err)

	status, err := e.views.GetTokenStatus(context.Background(), alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), status.Balance)
	assert.Equal(t, int64(10), status.TotalEarned)
	assert.Equal(t, int64(1), status.TotalSpent)
	assert.Equal(t, int64(1), status.PixelsPlaced)
	assert.True(t, status.IsCoolingDown)
	assert.Greater(t, status.CooldownRemaining, int64(0))
	require.NotNil(t, status.CanPlaceAt)
}

func TestProjectProgressRoundsToTwoDecimals(t *testing.T) {
	e := newEngine(t, engineOptions{})
	project := seedProject(t, e.db, 100, "1000", 10000)

	require.NoError(t, e.db.Model(&models.Project{}).
		Where("id = ?", project.ID).
		Update("pixels_placed", 1234).Error)

	progress, err := e.views.GetProjectProgress(context.Background(), project.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12.34, progress, 0.001)
}

func TestProjectDetail(t *testing.T) {
	e := newEngine(t, engineOptions{cooldown: 0})
	project := seedProject(t, e.db, 10, "1000", 100)
	alice := seedUser(t, e.db, "alice")
	fundAccount(t, e, alice.ID, project.ID, 5)

	_, err := e.placement.PlacePixel(context.Background(), alice.ID, project.ID, 1, 2, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), alice.ID, project.ID, 0, 1, "#00ff00", "")
	require.NoError(t, err)

	detail, err := e.views.GetProjectDetail(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, detail.Project.ID)
	assert.Equal(t, testPalette, detail.Colors)
	require.Len(t, detail.Pixels, 2)
	// Row-major order: (0,1) before (1,2).
	assert.Equal(t, 1, detail.Pixels[0].PositionY)
	assert.Equal(t, 0, detail.Pixels[0].PositionX)
	assert.Equal(t, 2, detail.Pixels[1].PositionY)
}

func TestUserStatsAcrossProjects(t *testing.T) {
	e := newEngine(t, engineOptions{cooldown: 0})
	first := seedProject(t, e.db, 10, "1000", 100)
	second := seedProject(t, e.db, 10, "1000", 100)
	alice := seedUser(t, e.db, "alice")
	fundAccount(t, e, alice.ID, first.ID, 10)
	fundAccount(t, e, alice.ID, second.ID, 10)

	_, err := e.placement.PlacePixel(context.Background(), alice.ID, first.ID, 0, 0, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), alice.ID, first.ID, 0, 1, "#ff0000", "")
	require.NoError(t, err)
	_, err = e.placement.PlacePixel(context.Background(), alice.ID, second.ID, 0, 0, "#ff0000", "")
	require.NoError(t, err)

	stats, err := e.views.GetUserStats(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(17), stats.TotalTokens)
	assert.Equal(t, int64(3), stats.TotalPixelsPlaced)
	assert.Equal(t, int64(2), stats.ProjectsJoined)
}

func TestRecentTransactions(t *testing.T) {
	e := newEngine(t, engineOptions{cooldown: 0})
	project := seedProject(t, e.db, 10, "1000", 100)
	alice := seedUser(t, e.db, "alice")
	fundAccount(t, e, alice.ID, project.ID, 5)

	_, err := e.placement.PlacePixel(context.Background(), alice.ID, project.ID, 0, 0, "#ff0000", "")
	require.NoError(t, err)

	txns, err := e.views.RecentTransactions(context.Background(), project.ID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	// Most recent first: the spend after the funding credit.
	assert.Equal(t, models.TransactionTypeSpend, txns[0].Type)
	assert.Equal(t, models.TransactionTypeEarn, txns[1].Type)
}
