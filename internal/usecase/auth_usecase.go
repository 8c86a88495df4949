package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/service"

	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	users repo.UserRepository
	jwt   *service.JWTService
}

// DI
func NewAuthUsecase(users repo.UserRepository, jwt *service.JWTService) *AuthUsecase {
	return &AuthUsecase{users: users, jwt: jwt}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Phone     string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
	Phone     *string
}

// user + token のペア
type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	//email・usernameの重複は409
	if existing, err := u.users.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, NewHTTPError(http.StatusConflict, "User with this email already exists")
	}
	if existing, err := u.users.FindByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, NewHTTPError(http.StatusConflict, "User with this username already exists")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	user := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(pwHash),
		Phone:     in.Phone,
		Role:      model.RoleCustomer,
	}

	if err := u.users.Create(ctx, user); err != nil {
		//チェックとINSERTの間に他リクエストが滑り込んだ場合もここで409になる
		if errors.Is(err, repo.ErrConflict) {
			return nil, NewHTTPError(http.StatusConflict, "User already exists")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	token, err := u.jwt.GenerateToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	return &AuthResponse{User: user, Token: token}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil || user == nil {
		//存在しないのかパスワード違いかは教えない
		return nil, NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	//last_login更新は失敗してもログインは通す
	_ = u.users.UpdateLastLogin(ctx, user.ID)

	token, err := u.jwt.GenerateToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	return &AuthResponse{User: user, Token: token}, nil
}

func (u *AuthUsecase) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人が使っているusername/emailへは変更できない
	if in.Username != nil {
		other, err := u.users.FindByUsername(ctx, *in.Username)
		if err == nil && other != nil && other.ID != userID {
			return nil, NewHTTPError(http.StatusConflict, "User with this username already exists")
		}
		user.Username = *in.Username
	}
	if in.Email != nil {
		other, err := u.users.FindByEmail(ctx, *in.Email)
		if err == nil && other != nil && other.ID != userID {
			return nil, NewHTTPError(http.StatusConflict, "User with this email already exists")
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}

	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, NewHTTPError(http.StatusConflict, "User already exists")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "Update failed")
	}

	updated, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}
