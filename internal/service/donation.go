package service

import (
	"context"
	"fmt"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/pkg/errors"
	"pixel-canvas-system/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DonationResult struct {
	DonationID    string `json:"donation_id"`
	PixelsAwarded int64  `json:"pixels_awarded"`
	NewBalance    int64  `json:"new_balance"`
}

// DonationService converts a donation into earned tokens:
// pixelsAwarded = floor(amount / targetAmount * pixelsTotal), using the
// project target at donation time. The donation row, the credit and the
// project's amount_raised move in one transaction.
type DonationService struct {
	db           *gorm.DB
	accountRepo  *repository.AccountRepository
	donationRepo *repository.DonationRepository
	projectRepo  *repository.ProjectRepository
	ledger       *LedgerService
}

func NewDonationService(
	db *gorm.DB,
	accountRepo *repository.AccountRepository,
	donationRepo *repository.DonationRepository,
	projectRepo *repository.ProjectRepository,
	ledger *LedgerService,
) *DonationService {
	return &DonationService{
		db:           db,
		accountRepo:  accountRepo,
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		ledger:       ledger,
	}
}

// Donate 处理一笔捐款并按项目目标折算代币
// 金额过小折算为0代币是合法结果，不报错
func (s *DonationService) Donate(ctx context.Context, userID, projectID string, amount decimal.Decimal, message string, simulated bool) (*DonationResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.InvalidAmount("donation amount must be positive")
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, errors.Internal("failed to load project", err)
	}
	if project == nil {
		return nil, errors.NotFound("project")
	}
	if project.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.InvalidAmount("project target amount not set")
	}

	// 乘在前避免小额捐款的精度损失
	pixelsAwarded := amount.
		Mul(decimal.NewFromInt(int64(project.PixelsTotal))).
		Div(project.TargetAmount).
		Floor().
		IntPart()

	var result *DonationResult

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.GetOrCreateForUpdate(tx, userID, projectID)
		if err != nil {
			return err
		}

		donation := &models.Donation{
			ProjectID:     projectID,
			UserID:        userID,
			Amount:        amount,
			PixelsAwarded: pixelsAwarded,
			Message:       message,
			IsSimulated:   simulated,
			Status:        models.DonationStatusSuccess,
		}
		if err := s.donationRepo.Create(tx, donation); err != nil {
			return err
		}

		if pixelsAwarded > 0 {
			source := Source{
				Type:        models.SourceTypeDonation,
				ID:          donation.ID,
				Description: fmt.Sprintf("Donation of $%s", amount.StringFixed(2)),
			}
			if _, err := s.ledger.Credit(tx, account, pixelsAwarded, source, amount); err != nil {
				return err
			}
		} else {
			// Too small to earn a token; the donation still counts
			// toward the account's donated total.
			account.TotalDonated = account.TotalDonated.Add(amount)
			if err := s.accountRepo.Save(tx, account); err != nil {
				return err
			}
		}

		if err := s.projectRepo.AddAmountRaised(tx, projectID, amount); err != nil {
			return err
		}

		result = &DonationResult{
			DonationID:    donation.ID,
			PixelsAwarded: pixelsAwarded,
			NewBalance:    account.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"user_id":        userID,
		"project_id":     projectID,
		"amount":         amount.StringFixed(2),
		"pixels_awarded": result.PixelsAwarded,
		"new_balance":    result.NewBalance,
	}).Info("捐款已入账")

	return result, nil
}
