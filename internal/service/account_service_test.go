package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"storefront/internal/apperror"
	"storefront/internal/auth"
	"storefront/internal/mocks"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type accountFixture struct {
	svc    *AccountService
	users  *mocks.MockUserStore
	orders *mocks.MockOrderStore
	tokens *auth.TokenIssuer
}

func setupAccountService(t *testing.T) accountFixture {
	ctrl := gomock.NewController(t)
	f := accountFixture{
		users:  mocks.NewMockUserStore(ctrl),
		orders: mocks.NewMockOrderStore(ctrl),
		tokens: auth.NewTokenIssuer("test-secret", time.Hour),
	}
	f.svc = NewAccountService(f.users, f.orders, f.tokens)
	return f
}

func TestAccountService_Register(t *testing.T) {
	f := setupAccountService(t)
	ctx := context.Background()

	f.users.EXPECT().FindByEmail(gomock.Any(), "an@example.com").Return(nil, repository.ErrUserNotFound)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		u.ID = primitive.NewObjectID()
		return nil
	})

	user, err := f.svc.Register(ctx, RegisterInput{Name: " An ", Email: " An@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "An", user.Name)
	assert.Equal(t, "an@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.GoogleRegistrationComplete)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "secret1"))
}

func TestAccountService_RegisterValidation(t *testing.T) {
	f := setupAccountService(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "secret1"})
	requireKind(t, err, apperror.Validation)

	_, err = f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "12345"})
	appErr := requireKind(t, err, apperror.Validation)
	assert.Equal(t, "Mật khẩu phải có ít nhất 6 ký tự", appErr.Message)

	f.users.EXPECT().FindByEmail(gomock.Any(), "a@b.c").Return(&models.User{Email: "a@b.c"}, nil)
	_, err = f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})
	appErr = requireKind(t, err, apperror.Validation)
	assert.Equal(t, "Email đã được sử dụng", appErr.Message)
}

func TestAccountService_Login(t *testing.T) {
	f := setupAccountService(t)
	ctx := context.Background()

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	stored := &models.User{ID: primitive.NewObjectID(), Email: "an@example.com", PasswordHash: hash, Role: models.RoleAdmin}

	f.users.EXPECT().FindByEmail(gomock.Any(), "an@example.com").Return(stored, nil).Times(2)
	f.users.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	session, err := f.svc.Login(ctx, "AN@example.com", "secret1")
	require.NoError(t, err)
	assert.Same(t, stored, session.User)

	p, err := f.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, p.UserID)
	assert.True(t, p.IsAdmin())

	_, err = f.svc.Login(ctx, "an@example.com", "wrong-pass")
	wrongPass := requireKind(t, err, apperror.Unauthorized)

	_, err = f.svc.Login(ctx, "nobody@example.com", "secret1")
	unknown := requireKind(t, err, apperror.Unauthorized)
	assert.Equal(t, wrongPass.Message, unknown.Message)

	_, err = f.svc.Login(ctx, "", "")
	requireKind(t, err, apperror.Validation)
}

func TestAccountService_GoogleSignInCreatesProvisionalAccount(t *testing.T) {
	f := setupAccountService(t)

	f.users.EXPECT().FindByEmail(gomock.Any(), "an@gmail.com").Return(nil, repository.ErrUserNotFound)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		u.ID = primitive.NewObjectID()
		return nil
	})

	session, err := f.svc.GoogleSignIn(context.Background(), &auth.GoogleUser{Email: "An@gmail.com", Name: "An", EmailVerified: true})
	require.NoError(t, err)
	assert.False(t, session.User.HasPassword())
	assert.False(t, session.User.GoogleRegistrationComplete)

	p, err := f.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.False(t, p.RegistrationComplete)
}

func TestAccountService_GoogleSignInExistingAccount(t *testing.T) {
	f := setupAccountService(t)
	existing := &models.User{ID: primitive.NewObjectID(), Email: "an@gmail.com", PasswordHash: "x", GoogleRegistrationComplete: true}

	f.users.EXPECT().FindByEmail(gomock.Any(), "an@gmail.com").Return(existing, nil)

	session, err := f.svc.GoogleSignIn(context.Background(), &auth.GoogleUser{Email: "an@gmail.com", EmailVerified: true})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, session.User.ID)
}

func TestAccountService_CompleteGoogleRegistration(t *testing.T) {
	f := setupAccountService(t)
	ctx := context.Background()
	provisional := &models.User{ID: primitive.NewObjectID(), Email: "an@gmail.com", Name: "An", Role: models.RoleUser}
	p := auth.PrincipalFor(provisional)

	_, err := f.svc.CompleteGoogleRegistration(ctx, p, CompleteRegistrationInput{Name: "An"})
	appErr := requireKind(t, err, apperror.Validation)
	assert.Equal(t, "Vui lòng điền đầy đủ thông tin", appErr.Message)

	f.users.EXPECT().FindByID(gomock.Any(), provisional.ID).Return(provisional, nil)
	f.users.EXPECT().Update(gomock.Any(), provisional).Return(nil)

	session, err := f.svc.CompleteGoogleRegistration(ctx, p, CompleteRegistrationInput{
		Name: "Nguyễn An", Phone: "0901234567", Password: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, session.User.GoogleRegistrationComplete)
	assert.True(t, auth.CheckPassword(session.User.PasswordHash, "secret1"))
	assert.Equal(t, "Nguyễn An", session.User.Name)

	renewed, err := f.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.True(t, renewed.RegistrationComplete)
	assert.Equal(t, provisional.ID, renewed.UserID)

	// the old provisional token cannot complete twice
	f.users.EXPECT().FindByID(gomock.Any(), provisional.ID).Return(session.User, nil)
	_, err = f.svc.CompleteGoogleRegistration(ctx, p, CompleteRegistrationInput{
		Name: "An", Phone: "0901234567", Password: "secret2",
	})
	appErr = requireKind(t, err, apperror.Validation)
	assert.Equal(t, "Tài khoản đã tồn tại và đã được kích hoạt", appErr.Message)
}

func TestAccountService_CompleteGoogleRegistrationOnlyTouchesCaller(t *testing.T) {
	f := setupAccountService(t)
	ctx := context.Background()
	in := CompleteRegistrationInput{Name: "Kẻ lạ", Phone: "0900000000", Password: "attacker1"}

	// no store calls are expected for these two callers
	_, err := f.svc.CompleteGoogleRegistration(ctx, auth.Principal{}, in)
	requireKind(t, err, apperror.Unauthorized)

	completed := auth.Principal{UserID: primitive.NewObjectID(), Role: models.RoleUser, RegistrationComplete: true}
	_, err = f.svc.CompleteGoogleRegistration(ctx, completed, in)
	appErr := requireKind(t, err, apperror.Validation)
	assert.Equal(t, "Tài khoản đã tồn tại và đã được kích hoạt", appErr.Message)

	// a provisional caller can only ever activate its own account
	caller := &models.User{ID: primitive.NewObjectID(), Email: "other@gmail.com", Role: models.RoleUser}
	f.users.EXPECT().FindByID(gomock.Any(), caller.ID).Return(caller, nil)
	f.users.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		assert.Equal(t, caller.ID, u.ID)
		assert.Equal(t, "other@gmail.com", u.Email)
		return nil
	})
	f.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Times(0)

	_, err = f.svc.CompleteGoogleRegistration(ctx, auth.PrincipalFor(caller), in)
	require.NoError(t, err)
}

func TestAccountService_Profile(t *testing.T) {
	f := setupAccountService(t)
	user := &models.User{ID: primitive.NewObjectID(), Name: "An"}
	p := auth.PrincipalFor(user)

	f.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
	f.orders.EXPECT().Stats(gomock.Any(), user.ID).Return(3, int64(2550000), nil)

	profile, err := f.svc.Profile(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, profile.Stats.OrderCount)
	assert.Equal(t, int64(2550000), profile.Stats.TotalSpent)
	assert.Equal(t, int64(25), profile.Stats.Points)

	_, err = f.svc.Profile(context.Background(), auth.Principal{})
	requireKind(t, err, apperror.Unauthorized)
}

func TestAccountService_UpdateProfile(t *testing.T) {
	f := setupAccountService(t)
	user := &models.User{ID: primitive.NewObjectID(), Name: "An", Phone: "1"}

	f.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
	f.users.EXPECT().Update(gomock.Any(), user).Return(nil)

	got, err := f.svc.UpdateProfile(context.Background(), auth.PrincipalFor(user), ProfileUpdate{Name: " ", Phone: " 0909 ", Address: "Hà Nội"})
	require.NoError(t, err)
	assert.Equal(t, "An", got.Name)
	assert.Equal(t, "0909", got.Phone)
	assert.Equal(t, "Hà Nội", got.Address)
}
