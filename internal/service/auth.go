package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/pkg/errors"
	"pixel-canvas-system/pkg/logger"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CodeSender delivers a verification code to an address. Email delivery is
// a collaborator concern; the default implementation just logs the code.
type CodeSender interface {
	Send(email, code string) error
}

type LogCodeSender struct{}

func (LogCodeSender) Send(email, code string) error {
	logger.WithFields(map[string]interface{}{
		"email": email,
		"code":  code,
	}).Info("验证码已生成")
	return nil
}

// AuthService implements the session collaborator: email-code login and
// session resolution. Verification codes live in an explicitly lifetimed
// TTL cache, not ambient module state, and are single-use.
type AuthService struct {
	userRepo *repository.UserRepository
	codes    *cache.Cache
	sender   CodeSender
}

func NewAuthService(userRepo *repository.UserRepository, codeTTL time.Duration, sender CodeSender) *AuthService {
	if sender == nil {
		sender = LogCodeSender{}
	}
	return &AuthService{
		userRepo: userRepo,
		codes:    cache.New(codeTTL, codeTTL),
		sender:   sender,
	}
}

// SendCode 生成6位验证码存入TTL缓存并交给发送方
func (s *AuthService) SendCode(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return errors.New("INVALID_EMAIL", "invalid email address", nil)
	}

	code, err := generateCode()
	if err != nil {
		return errors.Internal("failed to generate code", err)
	}

	s.codes.SetDefault(email, code)
	return s.sender.Send(email, code)
}

// VerifyCode 校验验证码，按邮箱建档用户并签发新会话
// 验证码一次性使用，命中即删除
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	stored, found := s.codes.Get(email)
	if !found || stored.(string) != code {
		return nil, "", errors.New(errors.CodeUnauthorized, "invalid or expired code", nil)
	}
	s.codes.Delete(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.Internal("failed to load user", err)
	}
	if user == nil {
		user = &models.User{
			Email:    email,
			Username: s.pickUsername(ctx, email),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, "", errors.Internal("failed to create user", err)
		}
	}

	sessionID := uuid.NewString()
	if err := s.userRepo.SetSessionID(ctx, user.ID, &sessionID); err != nil {
		return nil, "", errors.Internal("failed to save session", err)
	}
	user.SessionID = &sessionID

	logger.WithFields(map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("用户已登录")

	return user, sessionID, nil
}

// ResolveSession 由会话ID解析当前用户，无效会话返回Unauthorized
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, errors.ErrUnauthorized
	}
	user, err := s.userRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, errors.Internal("failed to resolve session", err)
	}
	if user == nil {
		return nil, errors.ErrUnauthorized
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.userRepo.SetSessionID(ctx, userID, nil)
}

// pickUsername 默认取邮箱前缀，冲突时追加短随机后缀
func (s *AuthService) pickUsername(ctx context.Context, email string) string {
	base := strings.SplitN(email, "@", 2)[0]
	existing, err := s.userRepo.GetByUsername(ctx, base)
	if err == nil && existing == nil {
		return base
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
