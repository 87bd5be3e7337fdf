package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
	"yatube/internal/repository/redis"

	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

var (
	errBadCredentials = model.NewUnauthorizedError("invalid username or password")
	errRevoked        = model.NewUnauthorizedError("session has been revoked")
)

var validate = validator.New()

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	emailSvc *EmailService
}

func NewUserService(db *gorm.DB, rdb *goredis.Client, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		rUser:    &redis.UserRepository{RDB: rdb},
		emailSvc: emailSvc,
	}
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return model.NewValidationError("password must be at least 8 characters")
	}
	return nil
}

// Register 注册
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if !pkg.IsUsername(username) {
		return nil, model.NewValidationError("enter a valid username: letters, digits and @/./+/-/_ only")
	}
	if validate.Var(email, "required,email") != nil {
		return nil, model.NewValidationError("enter a valid email address")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	taken, err := s.repo.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.NewValidationError("username or email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}
	if err = s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.NewValidationError("username or email already taken")
		}
		return nil, err
	}
	return user, nil
}

// Login 校验密码后签发 token，并把 access 写入 redis
func (s *UserService) Login(ctx context.Context, login, password string) (*pkg.Pair, *model.User, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errBadCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, errBadCredentials
	}
	ver, err := s.rUser.SessionVersion(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	token, err := pkg.GeneratePair(user.ID, ver)
	if err != nil {
		return nil, nil, err
	}
	if err = s.rUser.AddUserToken(ctx, user.ID, token.AccessToken); err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// Authenticate 校验 access token，同时要求与 redis 中最近一次登录一致
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := pkg.ParseAccess(accessToken)
	if err != nil {
		return nil, err
	}
	origin, err := s.rUser.GetUserToken(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if origin != accessToken {
		return nil, model.NewUnauthorizedError("account has been logged in elsewhere")
	}
	// 校验通过后更新过期时间
	if err = s.rUser.ExtendUserToken(ctx, claims.UserID); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user", claims.UserID)
	}
	return user, nil
}

// Refresh 利用refresh来更新access；退出或改密之前签发的 refresh 不再有效
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, *model.User, error) {
	claims, err := pkg.ParseRefresh(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	ver, err := s.rUser.SessionVersion(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if claims.Version != ver {
		return nil, nil, errRevoked
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, notFoundOr(err, "user", claims.UserID)
	}
	pair, err := pkg.GeneratePair(user.ID, ver)
	if err != nil {
		return nil, nil, err
	}
	if err = s.rUser.AddUserToken(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Logout 结束该用户的全部会话
func (s *UserService) Logout(ctx context.Context, usrID uint64) error {
	return s.rUser.RevokeSessions(ctx, usrID)
}

// ChangePassword 登录态修改密码，成功后强制重新登录
func (s *UserService) ChangePassword(ctx context.Context, usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, usrID)
	if err != nil {
		return notFoundOr(err, "user", usrID)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return model.NewValidationError("old password is incorrect")
	}
	if err = s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	return s.Logout(ctx, usrID)
}

// RequestPasswordReset 未注册的邮箱静默成功，避免泄露账号是否存在
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.emailSvc.SendResetCode(ctx, email)
}

// ResetPassword 校验邮件验证码后设置新密码
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	ok, err := s.emailSvc.VerifyCode(ctx, ScopeReset, email, code)
	if err != nil || !ok {
		return model.NewValidationError("verification failed")
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return notFoundOr(err, "user", email)
	}
	if err = s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	return s.Logout(ctx, user.ID)
}

func (s *UserService) setPassword(ctx context.Context, user *model.User, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user, string(hash))
}
