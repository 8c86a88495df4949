package middleware

import (
	"net/http"
	"strings"

	"app/internal/service"

	"github.com/labstack/echo/v4"
)

// 本人情報はbodyではなく専用のcontextキーに入れる
const (
	CtxUserIDKey    = "auth_user_id"    // int64
	CtxUserEmailKey = "auth_user_email" // string
	CtxUserRoleKey  = "auth_user_role"  // string
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(jwtService *service.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Access token required"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("Access token required"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Access token required"))
			}

			//検証失敗の理由は出し分けない
			identity, err := jwtService.ValidateToken(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid or expired token"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, identity.UserID)
			c.Set(CtxUserEmailKey, identity.Email)
			c.Set(CtxUserRoleKey, string(identity.Role))

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
