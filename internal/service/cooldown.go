package service

import (
	"time"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/pkg/errors"
)

// CooldownGate is the per-account Ready/Cooling state machine. Check never
// mutates; Arm is only called as a side effect of a successful placement,
// inside the same transaction as the debit.
type CooldownGate struct {
	duration time.Duration
}

func NewCooldownGate(duration time.Duration) *CooldownGate {
	return &CooldownGate{duration: duration}
}

// Check 账户处于冷却期时返回CooldownActive（含剩余秒数），不做任何修改
func (g *CooldownGate) Check(account *models.TokenAccount, now time.Time) error {
	cooling, remaining := account.IsCoolingDown(now)
	if cooling {
		return errors.CooldownActive(remaining)
	}
	return nil
}

// Arm 放置成功后将账户置为冷却状态
func (g *CooldownGate) Arm(account *models.TokenAccount, now time.Time) {
	until := now.Add(g.duration)
	account.LastPlacedAt = &now
	account.CooldownUntil = &until
}

func (g *CooldownGate) Duration() time.Duration {
	return g.duration
}
