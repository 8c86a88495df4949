package handler

import (
	"net/http"
	"strconv"
	"strings"

	"app/internal/middleware"
	"app/internal/router"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
}

// AuthJWTが入れた本人情報を取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// bodyをmapで受ける（validatorがmapを見るため）。空bodyは空map。
func bindJSON(c echo.Context) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	if err := c.Bind(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func validationFailed(c echo.Context, errs []string) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error: "Validation failed: " + strings.Join(errs, ", "),
	})
}

// パスの{id}をint64で取り出す
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(router.Param(c, "id"), 10, 64)
}

// 値があるときだけ*stringを返す
func strPtr(data map[string]interface{}, key string) *string {
	v, ok := data[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
