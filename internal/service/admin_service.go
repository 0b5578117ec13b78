package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"campuslink/internal/model/auth"
	"campuslink/internal/pkg/rolestate"
	authRepo "campuslink/internal/repository/auth"
	contributorRepo "campuslink/internal/repository/contributor"
	eventRepo "campuslink/internal/repository/event"
	postRepo "campuslink/internal/repository/post"
)

var (
	ErrInvalidRole          = errors.New("无效的角色")
	ErrInvalidAccountStatus = errors.New("无效的账号状态")
)

// AdminService 管理员用户管理服务
// 所有角色和账号状态的变更必须经过状态机校验后才落库
type AdminService struct {
	userRepo         *authRepo.UserRepo
	refreshTokenRepo *authRepo.RefreshTokenRepo
	appRepo          *contributorRepo.ApplicationRepo
	postRepo         *postRepo.PostRepo
	eventRepo        *eventRepo.EventRepo
}

// NewAdminService 创建管理员服务
func NewAdminService(
	userRepo *authRepo.UserRepo,
	refreshTokenRepo *authRepo.RefreshTokenRepo,
	appRepo *contributorRepo.ApplicationRepo,
	posts *postRepo.PostRepo,
	events *eventRepo.EventRepo,
) *AdminService {
	return &AdminService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		appRepo:          appRepo,
		postRepo:         posts,
		eventRepo:        events,
	}
}

// ListUsers 查询用户列表，支持按角色、账号状态和学院筛选
func (s *AdminService) ListUsers(ctx context.Context, role, accountStatus, collegeName string, page, pageSize int64) ([]*auth.User, int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	if accountStatus != "" {
		filter["account_status"] = accountStatus
	}
	if collegeName != "" {
		filter["college_name"] = collegeName
	}
	return s.userRepo.List(ctx, filter, page, pageSize)
}

// GetUser 查询单个用户
func (s *AdminService) GetUser(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if authRepo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserParams 更新用户参数
// 管理员只能改角色和账号状态，其他资料字段归用户自己
type UpdateUserParams struct {
	Role          string
	AccountStatus string
	IsActive      *bool
}

// UpdateUser 更新用户的角色或账号状态
// role=admin 永远被拒绝：平台唯一管理员只能由初始化脚本创建
func (s *AdminService) UpdateUser(ctx context.Context, userID string, acting *auth.User, params *UpdateUserParams) (*auth.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Role != "" {
		newRole := auth.UserRole(params.Role)
		if !newRole.IsValid() {
			return nil, ErrInvalidRole
		}
		if err := rolestate.ChangeRole(user, newRole, acting); err != nil {
			return nil, err
		}
	}

	if params.AccountStatus != "" {
		newStatus := auth.AccountStatus(params.AccountStatus)
		if !newStatus.IsValid() {
			return nil, ErrInvalidAccountStatus
		}
		if err := rolestate.ChangeAccountStatus(user, newStatus, acting); err != nil {
			return nil, err
		}
	}

	if params.IsActive != nil {
		if err := rolestate.SetActive(user, *params.IsActive, acting); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.SaveRoleAndStatus(ctx, user); err != nil {
		if authRepo.IsDuplicateKey(err) {
			// 目标学院已有Contributor
			return nil, ErrCollegeSlotTaken
		}
		log.Error().Err(err).Str("user_id", userID).Msg("failed to update user role/status")
		return nil, errors.New("更新用户失败")
	}

	return user, nil
}

// VerifyUser 管理员手动验证用户（跳过邮箱OTP流程）
func (s *AdminService) VerifyUser(ctx context.Context, userID string, acting *auth.User) (*auth.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := rolestate.VerifyByAdmin(user, acting); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveRoleAndStatus(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to verify user")
		return nil, errors.New("验证用户失败")
	}

	return user, nil
}

// SuspendUser 停用用户账号
// 停用后吊销该用户所有Refresh Token，已签发的Access Token自然过期
func (s *AdminService) SuspendUser(ctx context.Context, userID string, acting *auth.User) (*auth.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := rolestate.Suspend(user, acting); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveRoleAndStatus(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to suspend user")
		return nil, errors.New("停用用户失败")
	}

	if err := s.refreshTokenRepo.DeleteByUserID(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to revoke refresh tokens")
	}

	return user, nil
}

// ReactivateUser 恢复已停用的用户账号
func (s *AdminService) ReactivateUser(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := rolestate.Reactivate(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveRoleAndStatus(ctx, user); err != nil {
		if authRepo.IsDuplicateKey(err) {
			// 被停用期间该学院的名额已被占用
			return nil, ErrCollegeSlotTaken
		}
		log.Error().Err(err).Str("user_id", userID).Msg("failed to reactivate user")
		return nil, errors.New("恢复用户失败")
	}

	return user, nil
}

// DeleteUser 删除用户及其所有关联数据
// 级联顺序：帖子 → 活动 → 活动报名 → 申请 → Refresh Token → 用户本体。
// 每步失败都直接返回错误，重试整个删除是安全的（各步均幂等）
func (s *AdminService) DeleteUser(ctx context.Context, userID string, acting *auth.User) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := rolestate.CanDelete(user, acting); err != nil {
		return err
	}

	if err := s.postRepo.DeleteByAuthorID(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to delete user posts")
		return errors.New("删除用户帖子失败")
	}

	if err := s.eventRepo.DeleteByOrganizerID(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to delete user events")
		return errors.New("删除用户活动失败")
	}

	if err := s.eventRepo.RemoveRegistrationsByUserID(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to remove event registrations")
		return errors.New("清理活动报名失败")
	}

	if err := s.appRepo.DeleteByUserID(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to delete user application")
		return errors.New("删除用户申请失败")
	}

	if err := s.refreshTokenRepo.DeleteByUserID(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to delete refresh tokens")
		return errors.New("删除用户Token失败")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to delete user")
		return errors.New("删除用户失败")
	}

	return nil
}
