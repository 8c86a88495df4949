package server

import (
	"net/http"

	appmw "app/internal/middleware"
	"app/internal/router"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// New はechoエンジンを組み立てる。
// ルーティングは登録順マッチのRouterに全部任せる（echoのルートは使わない）。
func New(rt *router.Router, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	//panicや想定外エラーはスタックトレースを出さずに500固定
	e.Use(echomw.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		log.Error("unhandled error", zap.String("path", c.Request().URL.Path), zap.Error(err))
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	e.Use(appmw.CORS())

	e.Any("/*", rt.Dispatch)
	e.Any("/", rt.Dispatch)

	return e
}
