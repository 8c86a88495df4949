package service

import (
	"errors"
	"strconv"
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// 失敗理由は外に出さない（署名不正・期限切れ・壊れたtokenを区別しない）
var ErrInvalidToken = errors.New("invalid or expired token")

// tokenから取り出した本人情報
type Identity struct {
	UserID int64
	Email  string
	Role   model.Role
}

// HMAC-SHA256でアクセストークンを発行・検証する。
type JWTService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewJWTService(secret string, issuer string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		expiry: expiry,
	}
}

// jwt発行
func (s *JWTService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss":     s.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(s.expiry).Unix(),
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// 署名と期限を検証してIdentityを返す。失敗はすべてErrInvalidToken。
func (s *JWTService) ValidateToken(rawToken string) (*Identity, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, err := parseInt64Claim(claims["user_id"])
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: userID,
		Email:  email,
		Role:   model.Role(role),
	}, nil
}

// JSON経由だと数値はfloat64で来る
func parseInt64Claim(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid claim")
	}
}
