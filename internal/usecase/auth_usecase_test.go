package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newTestJWT() *service.JWTService {
	return service.NewJWTService("auth-usecase-test-secret", "app", time.Hour)
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName: "Taro",
		LastName:  "Yamada",
		Username:  "taro",
		Email:     "taro@example.com",
		Password:  "password123",
		Phone:     "090-1234-5678",
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 1, Email: "taro@example.com"}, nil)

	u := NewAuthUsecase(users, newTestJWT())

	resp, err := u.Register(context.Background(), validRegisterInput())

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusConflict, "User with this email already exists")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repo.ErrNotFound)
	users.On("FindByUsername", mock.Anything, "taro").
		Return(&model.User{ID: 2, Username: "taro"}, nil)

	u := NewAuthUsecase(users, newTestJWT())

	resp, err := u.Register(context.Background(), validRegisterInput())

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusConflict, "User with this username already exists")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterHashesPasswordAndIssuesToken(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repo.ErrNotFound)
	users.On("FindByUsername", mock.Anything, "taro").Return(nil, repo.ErrNotFound)

	var created *model.User
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
			created.ID = 1
		}).
		Return(nil)

	jwtSvc := newTestJWT()
	u := NewAuthUsecase(users, jwtSvc)

	resp, err := u.Register(context.Background(), validRegisterInput())

	assert.NoError(t, err)
	if !assert.NotNil(t, resp) {
		return
	}

	// 平文は保存されない
	assert.NotEqual(t, "password123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))

	// 新規ユーザーは必ずcustomer
	assert.Equal(t, model.RoleCustomer, created.Role)

	// tokenは即使える
	identity, err := jwtSvc.ValidateToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, "taro@example.com", identity.Email)
}

// チェック後のINSERTで一意制約に当たった場合も409
func TestRegisterConflictOnInsert(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repo.ErrNotFound)
	users.On("FindByUsername", mock.Anything, "taro").Return(nil, repo.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrConflict)

	u := NewAuthUsecase(users, newTestJWT())

	resp, err := u.Register(context.Background(), validRegisterInput())

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusConflict, "User already exists")
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, repo.ErrNotFound)

	u := NewAuthUsecase(users, newTestJWT())

	resp, err := u.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "x"})

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusUnauthorized, "Invalid credentials")
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID:       1,
		Email:    "taro@example.com",
		Password: hashPassword(t, "correct-password"),
	}, nil)

	u := NewAuthUsecase(users, newTestJWT())

	resp, err := u.Login(context.Background(), LoginInput{Email: "taro@example.com", Password: "wrong"})

	assert.Nil(t, resp)
	// メッセージはemail違いの場合と同じ
	assertHTTPError(t, err, http.StatusUnauthorized, "Invalid credentials")
	users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
}

func TestLoginSuccess(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID:       1,
		Email:    "taro@example.com",
		Role:     model.RoleCustomer,
		Password: hashPassword(t, "password123"),
	}, nil)
	users.On("UpdateLastLogin", mock.Anything, int64(1)).Return(nil)

	jwtSvc := newTestJWT()
	u := NewAuthUsecase(users, jwtSvc)

	resp, err := u.Login(context.Background(), LoginInput{Email: "taro@example.com", Password: "password123"})

	assert.NoError(t, err)
	if !assert.NotNil(t, resp) {
		return
	}

	identity, err := jwtSvc.ValidateToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, model.RoleCustomer, identity.Role)

	users.AssertCalled(t, "UpdateLastLogin", mock.Anything, int64(1))
}

// last_login更新失敗でもログインは通る
func TestLoginSucceedsWhenLastLoginUpdateFails(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID:       1,
		Email:    "taro@example.com",
		Password: hashPassword(t, "password123"),
	}, nil)
	users.On("UpdateLastLogin", mock.Anything, int64(1)).Return(assert.AnError)

	u := NewAuthUsecase(users, newTestJWT())

	resp, err := u.Login(context.Background(), LoginInput{Email: "taro@example.com", Password: "password123"})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestProfileNotFound(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, int64(404)).Return(nil, repo.ErrNotFound)

	u := NewAuthUsecase(users, newTestJWT())

	user, err := u.Profile(context.Background(), 404)

	assert.Nil(t, user)
	assertHTTPError(t, err, http.StatusNotFound, "User not found")
}

// 他人が使っているusernameへは変更できない
func TestUpdateProfileUsernameTakenByAnother(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, int64(1)).
		Return(&model.User{ID: 1, Username: "taro", Email: "taro@example.com"}, nil)
	users.On("FindByUsername", mock.Anything, "hanako").
		Return(&model.User{ID: 2, Username: "hanako"}, nil)

	u := NewAuthUsecase(users, newTestJWT())

	newName := "hanako"
	user, err := u.UpdateProfile(context.Background(), 1, UpdateProfileInput{Username: &newName})

	assert.Nil(t, user)
	assertHTTPError(t, err, http.StatusConflict, "User with this username already exists")
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// 自分のusernameをそのまま送るのは衝突にならない
func TestUpdateProfileKeepingOwnUsername(t *testing.T) {
	me := &model.User{ID: 1, Username: "taro", Email: "taro@example.com", FirstName: "Taro"}

	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, int64(1)).Return(me, nil)
	users.On("FindByUsername", mock.Anything, "taro").Return(me, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	u := NewAuthUsecase(users, newTestJWT())

	sameName := "taro"
	user, err := u.UpdateProfile(context.Background(), 1, UpdateProfileInput{Username: &sameName})

	assert.NoError(t, err)
	assert.NotNil(t, user)
}

// 指定したフィールドだけが書き換わる
func TestUpdateProfilePartialUpdate(t *testing.T) {
	me := &model.User{ID: 1, Username: "taro", Email: "taro@example.com", FirstName: "Taro", LastName: "Yamada"}

	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, int64(1)).Return(me, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	u := NewAuthUsecase(users, newTestJWT())

	newFirst := "Jiro"
	user, err := u.UpdateProfile(context.Background(), 1, UpdateProfileInput{FirstName: &newFirst})

	assert.NoError(t, err)
	assert.Equal(t, "Jiro", user.FirstName)
	assert.Equal(t, "Yamada", user.LastName)
	assert.Equal(t, "taro", user.Username)
}
