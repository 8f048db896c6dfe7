package service

import (
	"context"
	"time"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/pkg/errors"

	"github.com/shopspring/decimal"
)

type LeaderboardEntry struct {
	Rank         int             `json:"rank"`
	Username     string          `json:"username"`
	PixelsPlaced int64           `json:"pixels_placed"`
	TotalDonated decimal.Decimal `json:"total_donated"`
	TotalEarned  int64           `json:"total_earned"`
}

type TokenStatus struct {
	Balance           int64           `json:"balance"`
	TotalEarned       int64           `json:"total_earned"`
	TotalSpent        int64           `json:"total_spent"`
	PixelsPlaced      int64           `json:"pixels_placed"`
	TotalDonated      decimal.Decimal `json:"total_donated"`
	IsCoolingDown     bool            `json:"is_cooling_down"`
	CooldownRemaining int64           `json:"cooldown_remaining"`
	CanPlaceAt        *time.Time      `json:"can_place_at,omitempty"`
}

type UserStats struct {
	TotalTokens       int64 `json:"total_tokens"`
	TotalPixelsPlaced int64 `json:"total_pixels_placed"`
	ProjectsJoined    int64 `json:"projects_joined"`
}

type ProjectDetail struct {
	Project            *models.Project `json:"project"`
	Colors             []string        `json:"color_palette"`
	Pixels             []models.Pixel  `json:"pixels"`
	ProgressPercentage float64         `json:"progress_percentage"`
}

// ViewsService is the read side: point-in-time projections over the ledger,
// grid and project counters. No method here mutates anything.
type ViewsService struct {
	accountRepo *repository.AccountRepository
	userRepo    *repository.UserRepository
	pixelRepo   *repository.PixelRepository
	projectRepo *repository.ProjectRepository
	txnRepo     *repository.TransactionRepository
}

func NewViewsService(
	accountRepo *repository.AccountRepository,
	userRepo *repository.UserRepository,
	pixelRepo *repository.PixelRepository,
	projectRepo *repository.ProjectRepository,
	txnRepo *repository.TransactionRepository,
) *ViewsService {
	return &ViewsService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		pixelRepo:   pixelRepo,
		projectRepo: projectRepo,
		txnRepo:     txnRepo,
	}
}

// Leaderboard 返回项目排行榜
// 排序：放置像素数降序，捐款额降序，账户创建顺序稳定兜底
func (s *ViewsService) Leaderboard(ctx context.Context, projectID string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	accounts, err := s.accountRepo.Leaderboard(ctx, projectID, limit)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(accounts))
	for _, a := range accounts {
		userIDs = append(userIDs, a.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for i, a := range accounts {
		entries = append(entries, LeaderboardEntry{
			Rank:         i + 1,
			Username:     names[a.UserID],
			PixelsPlaced: a.PixelsPlaced,
			TotalDonated: a.TotalDonated,
			TotalEarned:  a.TotalEarned,
		})
	}
	return entries, nil
}

// GetTokenStatus 返回用户在项目下的代币状态快照
// 冷却剩余秒数按读取时刻计算，不落库
func (s *ViewsService) GetTokenStatus(ctx context.Context, userID, projectID string) (*TokenStatus, error) {
	account, err := s.accountRepo.GetByUserProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		// 账户惰性创建，没有账户等价于零状态
		return &TokenStatus{TotalDonated: decimal.Zero}, nil
	}

	now := time.Now()
	cooling, remaining := account.IsCoolingDown(now)

	return &TokenStatus{
		Balance:           account.Balance,
		TotalEarned:       account.TotalEarned,
		TotalSpent:        account.TotalSpent,
		PixelsPlaced:      account.PixelsPlaced,
		TotalDonated:      account.TotalDonated,
		IsCoolingDown:     cooling,
		CooldownRemaining: remaining,
		CanPlaceAt:        account.CooldownUntil,
	}, nil
}

// GetProjectProgress 返回项目完成度百分比（保留两位小数）
func (s *ViewsService) GetProjectProgress(ctx context.Context, projectID string) (float64, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if project == nil {
		return 0, errors.NotFound("project")
	}
	return project.ProgressPercentage(), nil
}

// GetProjectDetail 返回项目元数据、调色板与全部存活像素
func (s *ViewsService) GetProjectDetail(ctx context.Context, projectID string) (*ProjectDetail, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.NotFound("project")
	}

	palette, err := s.projectRepo.GetPalette(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var colors []string
	if palette != nil {
		colors = palette.ColorList()
	}

	pixels, err := s.pixelRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectDetail{
		Project:            project,
		Colors:             colors,
		Pixels:             pixels,
		ProgressPercentage: project.ProgressPercentage(),
	}, nil
}

func (s *ViewsService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

// GetUserStats 汇总用户跨项目的整体贡献
func (s *ViewsService) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	totalTokens, err := s.accountRepo.SumBalanceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pixelsPlaced, err := s.pixelRepo.CountByContributor(ctx, userID)
	if err != nil {
		return nil, err
	}

	projectsJoined, err := s.pixelRepo.CountDistinctProjectsByContributor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalTokens:       totalTokens,
		TotalPixelsPlaced: pixelsPlaced,
		ProjectsJoined:    projectsJoined,
	}, nil
}

func (s *ViewsService) RecentTransactions(ctx context.Context, projectID string, limit int) ([]models.TokenTransaction, error) {
	return s.txnRepo.GetRecentByProject(ctx, projectID, limit)
}
