package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/repository"
)

// pointsPerDong: one loyalty point per 100,000 đồng spent.
const pointsPerDong = 100000

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type CompleteRegistrationInput struct {
	Name     string
	Phone    string
	Password string
}

type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string
}

// Session is a signed-in user and the token that proves it.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type AccountService struct {
	users  UserStore
	orders OrderStore
	tokens *auth.TokenIssuer
}

func NewAccountService(users UserStore, orders OrderStore, tokens *auth.TokenIssuer) *AccountService {
	return &AccountService{
		users:  users,
		orders: orders,
		tokens: tokens,
	}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, apperror.NewValidation("Vui lòng điền đầy đủ thông tin")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, apperror.NewValidation("Mật khẩu phải có ít nhất 6 ký tự")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.NewValidation("Email đã được sử dụng")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, storeErr("find user", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.StoreUnavailable, "Không thể đăng ký tài khoản", err)
	}

	user := &models.User{
		Name:                       name,
		Email:                      email,
		PasswordHash:               hash,
		Phone:                      strings.TrimSpace(in.Phone),
		Address:                    strings.TrimSpace(in.Address),
		Role:                       models.RoleUser,
		GoogleRegistrationComplete: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.NewValidation("Email đã được sử dụng")
		}
		return nil, storeErr("create user", err)
	}
	return user, nil
}

// Login checks credentials. Unknown email and wrong password are reported the same way.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.NewValidation("Email và mật khẩu là bắt buộc")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, storeErr("find user", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.New(apperror.Unauthorized, "Email hoặc mật khẩu không đúng")
	}
	return s.session(user)
}

// GoogleSignIn finds or provisionally creates the account behind a Google login.
// A provisional account has no password until CompleteGoogleRegistration.
func (s *AccountService) GoogleSignIn(ctx context.Context, g *auth.GoogleUser) (*Session, error) {
	email := normalizeEmail(g.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, storeErr("find user", err)
	}

	if user == nil {
		user = &models.User{
			Name:                       strings.TrimSpace(g.Name),
			Email:                      email,
			Role:                       models.RoleUser,
			GoogleRegistrationComplete: false,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrDuplicateEmail) {
				return nil, storeErr("create user", err)
			}
			// created concurrently by another callback
			if user, err = s.users.FindByEmail(ctx, email); err != nil {
				return nil, storeErr("find user", err)
			}
		}
	}
	return s.session(user)
}

// CompleteGoogleRegistration activates the caller's own provisional Google
// account and returns a fresh session carrying the completed flag.
func (s *AccountService) CompleteGoogleRegistration(ctx context.Context, p auth.Principal, in CompleteRegistrationInput) (*Session, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	if p.RegistrationComplete {
		return nil, apperror.NewValidation("Tài khoản đã tồn tại và đã được kích hoạt")
	}
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" || in.Password == "" {
		return nil, apperror.NewValidation("Vui lòng điền đầy đủ thông tin")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, apperror.NewValidation("Mật khẩu phải có ít nhất 6 ký tự")
	}

	user, err := s.currentUser(ctx, p)
	if err != nil {
		return nil, err
	}
	// the token may predate a completion from another session
	if user.HasPassword() || user.GoogleRegistrationComplete {
		return nil, apperror.NewValidation("Tài khoản đã tồn tại và đã được kích hoạt")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.StoreUnavailable, "Đã có lỗi xảy ra, vui lòng thử lại", err)
	}
	user.PasswordHash = hash
	user.Name = name
	user.Phone = phone
	user.GoogleRegistrationComplete = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr("update user", err)
	}
	return s.session(user)
}

func (s *AccountService) Profile(ctx context.Context, p auth.Principal) (*models.UserProfile, error) {
	user, err := s.currentUser(ctx, p)
	if err != nil {
		return nil, err
	}

	count, spent, err := s.orders.Stats(ctx, user.ID)
	if err != nil {
		return nil, storeErr("order stats", err)
	}

	return &models.UserProfile{
		User: user,
		Stats: models.UserStats{
			OrderCount: count,
			TotalSpent: spent,
			Points:     spent / pointsPerDong,
		},
	}, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, p auth.Principal, u ProfileUpdate) (*models.User, error) {
	user, err := s.currentUser(ctx, p)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(u.Name); name != "" {
		user.Name = name
	}
	user.Phone = strings.TrimSpace(u.Phone)
	user.Address = strings.TrimSpace(u.Address)

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.NotFound, "User not found")
		}
		return nil, storeErr("update user", err)
	}
	return user, nil
}

func (s *AccountService) currentUser(ctx context.Context, p auth.Principal) (*models.User, error) {
	if !p.Authenticated() {
		return nil, apperror.NewUnauthorized()
	}
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.NotFound, "User not found")
		}
		return nil, storeErr("find user", err)
	}
	return user, nil
}

func (s *AccountService) session(user *models.User) (*Session, error) {
	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperror.Wrap(apperror.StoreUnavailable, "Đã có lỗi xảy ra, vui lòng thử lại", err)
	}
	return &Session{Token: token, ExpiresAt: expires, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
