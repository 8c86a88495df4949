package router

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

const ctxParamsKey = "route_params"

// {name} は1セグメント（/を跨がない）にだけマッチする
var placeholderRe = regexp.MustCompile(`\{([^/}]+)\}`)

type route struct {
	method  string
	pattern string
	re      *regexp.Regexp
	handler echo.HandlerFunc
}

// 登録順の線形スキャンでディスパッチするルーター。
// 同じパスに複数マッチする場合は先に登録した方が勝つ。
type Router struct {
	routes []route
}

func New() *Router {
	return &Router{}
}

// ルート登録。mwは左から順に実行される。
func (r *Router) Add(method string, pattern string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	//middlewareを内側から巻く
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}

	r.routes = append(r.routes, route{
		method:  strings.ToUpper(method),
		pattern: pattern,
		re:      compilePattern(pattern),
		handler: h,
	})
}

func (r *Router) GET(pattern string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.Add(http.MethodGet, pattern, h, mw...)
}

func (r *Router) POST(pattern string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.Add(http.MethodPost, pattern, h, mw...)
}

func (r *Router) PUT(pattern string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.Add(http.MethodPut, pattern, h, mw...)
}

func (r *Router) DELETE(pattern string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	r.Add(http.MethodDelete, pattern, h, mw...)
}

// method+pathで最初にマッチしたルートを実行。マッチ無しは404。
func (r *Router) Dispatch(c echo.Context) error {
	method := c.Request().Method
	path := normalizePath(c.Request().URL.Path)

	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}

		m := rt.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}

		//名前付きキャプチャをcontextへ
		params := make(map[string]string)
		for i, name := range rt.re.SubexpNames() {
			if i > 0 && name != "" {
				params[name] = m[i]
			}
		}
		c.Set(ctxParamsKey, params)

		return rt.handler(c)
	}

	return c.JSON(http.StatusNotFound, map[string]string{"error": "Route not found"})
}

// 末尾スラッシュは無視する（/api/cart/ と /api/cart は同じ）
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// {name} を (?P<name>[^/]+) に置き換えて全体をアンカーする。
func compilePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")

	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(pattern, -1) {
		b.WriteString(regexp.QuoteMeta(pattern[last:m[0]]))
		name := pattern[m[2]:m[3]]
		b.WriteString("(?P<" + name + ">[^/]+)")
		last = m[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteString("$")

	return regexp.MustCompile(b.String())
}

// Paramはマッチしたパスパラメータを返す。無ければ空文字。
func Param(c echo.Context, name string) string {
	return Params(c)[name]
}

func Params(c echo.Context) map[string]string {
	if m, ok := c.Get(ctxParamsKey).(map[string]string); ok {
		return m
	}
	return map[string]string{}
}
