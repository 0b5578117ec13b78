package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"campuslink/internal/model/auth"
	"campuslink/internal/pkg/cache"
	"campuslink/internal/pkg/id"
	"campuslink/internal/pkg/jwt"
	"campuslink/internal/pkg/mailer"
	"campuslink/internal/pkg/otp"
	"campuslink/internal/pkg/password"
	"campuslink/internal/pkg/rolestate"
	authRepo "campuslink/internal/repository/auth"
)

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailAlreadyExists = errors.New("邮箱已被注册")
	ErrPhoneAlreadyExists = errors.New("手机号已被注册")
	ErrInvalidPassword    = errors.New("密码错误")
	ErrEmailNotVerified   = errors.New("邮箱未验证，请先完成验证")
	ErrUserSuspended      = errors.New("账号已被停用，请联系管理员")
	ErrInvalidOTP         = errors.New("验证码错误或已过期")
	ErrInvalidToken       = errors.New("Token无效")
	ErrExpiredToken       = errors.New("Token已过期")
)

// AuthService 认证服务
// 负责注册、邮箱OTP验证、登录和Token管理
type AuthService struct {
	userRepo         *authRepo.UserRepo
	refreshTokenRepo *authRepo.RefreshTokenRepo
	cache            *cache.RedisCache
	mail             *mailer.Mailer
	jwt              *jwt.JWT
	refreshExpiry    time.Duration // Refresh Token过期时间
	otpExpiry        time.Duration // 邮箱验证码过期时间
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo *authRepo.UserRepo,
	refreshTokenRepo *authRepo.RefreshTokenRepo,
	redisCache *cache.RedisCache,
	mail *mailer.Mailer,
	jwtSecret string,
	accessTokenExpiry time.Duration,
	refreshTokenExpiry time.Duration,
	otpExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cache:            redisCache,
		mail:             mail,
		jwt:              jwt.NewJWT(jwtSecret, accessTokenExpiry),
		refreshExpiry:    refreshTokenExpiry,
		otpExpiry:        otpExpiry,
	}
}

// RegisterParams 注册参数
type RegisterParams struct {
	FullName    string
	Email       string
	Phone       string
	StudentID   string
	Password    string
	CollegeName string
	Branch      string
	YearOfStudy int
}

// RegisterResult 注册结果
type RegisterResult struct {
	UserID        string
	Email         string
	AccountStatus string
}

// Register 用户注册
// 新用户以 student / pending_email_verification 创建，并向学院邮箱发送OTP验证码
func (s *AuthService) Register(ctx context.Context, params *RegisterParams) (*RegisterResult, error) {
	// 检查邮箱是否已存在
	if existing, _ := s.userRepo.FindByEmail(ctx, params.Email); existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	// 检查手机号是否已存在
	if existing, _ := s.userRepo.FindByPhone(ctx, params.Phone); existing != nil {
		return nil, ErrPhoneAlreadyExists
	}

	// 加密密码
	hashedPassword, err := password.Hash(params.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, errors.New("密码加密失败")
	}

	// 创建用户
	user := &auth.User{
		ID:            id.New(),
		FullName:      params.FullName,
		Email:         params.Email,
		Phone:         params.Phone,
		Password:      hashedPassword,
		Role:          auth.RoleStudent,
		AccountStatus: auth.StatusPendingEmailVerification,
		CollegeName:   params.CollegeName,
		Branch:        params.Branch,
		YearOfStudy:   params.YearOfStudy,
		EmailVerified: false,
		IsActive:      true,
	}
	if params.StudentID != "" {
		sid := params.StudentID
		user.StudentID = &sid
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if authRepo.IsDuplicateKey(err) {
			return nil, ErrEmailAlreadyExists
		}
		log.Error().Err(err).Msg("failed to create user")
		return nil, errors.New("创建用户失败")
	}

	// 发送邮箱验证码（发送失败不影响注册，可重新发送）
	if err := s.sendOTP(ctx, user); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	return &RegisterResult{
		UserID:        user.ID,
		Email:         user.Email,
		AccountStatus: string(user.AccountStatus),
	}, nil
}

// sendOTP 生成验证码、写入缓存并异步发送邮件
func (s *AuthService) sendOTP(ctx context.Context, user *auth.User) error {
	code := otp.Generate()
	if err := s.cache.Set(ctx, cache.OTPKey(user.Email), code, s.otpExpiry); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if s.mail == nil {
		log.Warn().Msg("mailer not configured, skipping verification email")
		return nil
	}

	email := mailer.BuildVerificationEmail(user.Email, mailer.VerificationEmailData{
		SiteName:  s.mail.SiteName(),
		Code:      code,
		ExpiresIn: fmt.Sprintf("%d minutes", int(s.otpExpiry.Minutes())),
	})

	// 邮件发送是尽力而为的，失败只记录日志
	go func() {
		if err := s.mail.Send(email); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("failed to deliver verification email")
		}
	}()

	return nil
}

// VerifyEmail 验证邮箱OTP
// 验证成功后账号状态置为 verified（emailVerified 和 accountStatus 同时更新）
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	var cached string
	if err := s.cache.Get(ctx, cache.OTPKey(email), &cached); err != nil {
		return ErrInvalidOTP
	}
	if cached != code {
		return ErrInvalidOTP
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return ErrUserNotFound
	}

	rolestate.SetVerified(user)
	if err := s.userRepo.SaveRoleAndStatus(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to persist email verification")
		return errors.New("验证失败，请稍后重试")
	}

	// 验证码一次性使用
	_ = s.cache.Delete(ctx, cache.OTPKey(email))

	return nil
}

// ResendOTP 重新发送邮箱验证码
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return ErrUserNotFound
	}
	if user.EmailVerified {
		return errors.New("邮箱已验证，无需重复验证")
	}
	return s.sendOTP(ctx, user)
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
	User         *auth.User
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, email, pwd string) (*LoginResult, error) {
	// 查找用户
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 验证密码
	if !password.Verify(pwd, user.Password) {
		return nil, ErrInvalidPassword
	}

	// 检查账号状态
	if user.AccountStatus == auth.StatusSuspended || !user.IsActive {
		return nil, ErrUserSuspended
	}
	if user.AccountStatus == auth.StatusPendingEmailVerification {
		return nil, ErrEmailNotVerified
	}

	// 生成Access Token
	accessToken, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, errors.New("生成Token失败")
	}

	// 生成Refresh Token
	refreshTokenValue := jwt.GenerateRefreshToken()
	refreshToken := &auth.RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		Token:     refreshTokenValue,
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		log.Error().Err(err).Msg("failed to create refresh token")
		return nil, errors.New("创建Refresh Token失败")
	}

	// 更新最后登录时间
	if err := s.userRepo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		log.Warn().Err(err).Msg("failed to update last login time")
		// 不影响登录流程，只记录警告
	}

	expiresIn := int(s.jwt.GetExpiration().Seconds())

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenValue,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
		User:         user,
	}, nil
}

// RefreshTokenResult 刷新Token结果
type RefreshTokenResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
}

// RefreshToken 刷新Access Token
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenValue string) (*RefreshTokenResult, error) {
	// 查找Refresh Token
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenValue)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 检查Token是否过期
	if refreshToken.IsExpired() {
		// 删除过期的Token
		_ = s.refreshTokenRepo.DeleteByToken(ctx, refreshTokenValue)
		return nil, ErrExpiredToken
	}

	// 查找用户
	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 检查账号状态
	if user.AccountStatus == auth.StatusSuspended || !user.IsActive {
		return nil, ErrUserSuspended
	}

	// 生成新的Access Token
	accessToken, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, errors.New("生成Token失败")
	}

	expiresIn := int(s.jwt.GetExpiration().Seconds())

	return &RefreshTokenResult{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	}, nil
}

// Logout 退出登录
func (s *AuthService) Logout(ctx context.Context, refreshTokenValue string) error {
	// 删除Refresh Token
	return s.refreshTokenRepo.DeleteByToken(ctx, refreshTokenValue)
}

// GetUserByID 根据ID获取用户信息
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*auth.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// ValidateToken 验证Access Token并返回用户信息
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.User, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 查找用户
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 检查账号状态
	if user.AccountStatus == auth.StatusSuspended || !user.IsActive {
		return nil, ErrUserSuspended
	}

	return user, nil
}

// JWT 获取JWT工具（供认证中间件使用）
func (s *AuthService) JWT() *jwt.JWT {
	return s.jwt
}
