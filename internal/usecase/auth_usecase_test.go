package usecase_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

func TestAuthUsecase_Register_PasswordTooShort(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(userRepo, testSecret, time.Hour)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "short",
	})
	assertErrContains(t, err, "password too short")
}

func TestAuthUsecase_Register_InvalidEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(userRepo, testSecret, time.Hour)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name:     "Taro",
		Email:    "not-an-email",
		Password: "password123",
	})
	assertErrContains(t, err, "invalid email")
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(UserRepoMock)

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{ID: 1}, true, nil)

	uc := usecase.NewAuthUsecase(userRepo, testSecret, time.Hour)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "email already used")

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_Success_AlwaysUserRole(t *testing.T) {
	userRepo := new(UserRepoMock)

	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{}, false, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		// roleは入力に関係なくUSER、パスワードは平文で保存しない
		return u.Role == model.RoleUser && u.PasswordHash != "password123"
	})).Return(model.User{ID: 1, Name: "Taro", Email: "taro@example.com", Role: model.RoleUser}, nil)

	uc := usecase.NewAuthUsecase(userRepo, testSecret, time.Hour)

	out, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "USER", out.Role)

	userRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	userRepo := new(UserRepoMock)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userRepo.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{
		ID:           1,
		Email:        "taro@example.com",
		PasswordHash: string(hash),
	}, true, nil)

	uc := usecase.NewAuthUsecase(userRepo, testSecret, time.Hour)

	_, err := uc.Login(context.Background(), "taro@example.com", "wrong-password")
	assertErrContains(t, err, "invalid credentials")
}

// 未登録emailも同じエラー（存在有無は漏らさない）
func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	userRepo := new(UserRepoMock)

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, false, nil)

	uc := usecase.NewAuthUsecase(userRepo, testSecret, time.Hour)

	_, err := uc.Login(context.Background(), "nobody@example.com", "password123")
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_Success_TokenClaims(t *testing.T) {
	userRepo := new(UserRepoMock)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(model.User{
		ID:           9,
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}, true, nil)

	uc := usecase.NewAuthUsecase(userRepo, testSecret, time.Hour)

	out, err := uc.Login(context.Background(), "admin@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	token, err := jwt.Parse(out.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	assert.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "9", claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
}
