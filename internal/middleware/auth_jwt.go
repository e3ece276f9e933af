package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/config"
	"storefront/internal/session"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionKey      = "session"       // session.Session
	CtxTokenVersionKey = "token_version" // int
)

var errNoToken = errors.New("no token")

// bearerAuth用のJWT検証ミドルウェア。トークン無しは401。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return authJWT(cfg, false)
}

// トークン無しは未ログインとして通す（不正なトークンは401）。
func OptionalAuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return authJWT(cfg, true)
}

func authJWT(cfg config.Config, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, tv, err := parseBearer(c.Request().Header.Get("Authorization"), cfg.JWTSecret)
			if errors.Is(err, errNoToken) && optional {
				c.Set(CtxSessionKey, session.Anonymous())
				return next(c)
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxSessionKey, sess)
			c.Set(CtxTokenVersionKey, tv)

			return next(c)
		}
	}
}

// SessionFrom はミドルウェアが入れたセッションを返す（無ければ未ログイン）。
func SessionFrom(c echo.Context) session.Session {
	if s, ok := c.Get(CtxSessionKey).(session.Session); ok {
		return s
	}
	return session.Anonymous()
}

func parseBearer(authz string, secret string) (session.Session, int, error) {
	if authz == "" {
		return session.Session{}, 0, errNoToken
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return session.Session{}, 0, errors.New("invalid authorization header")
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return session.Session{}, 0, errors.New("empty token")
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return session.Session{}, 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session.Session{}, 0, errors.New("invalid claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return session.Session{}, 0, errors.New("invalid sub")
	}
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["adm"].(bool)

	//token_versionを取り出す
	tvf, ok := claims["tv"].(float64)
	if !ok || tvf < 0 {
		return session.Session{}, 0, errors.New("invalid tv")
	}

	return session.New(userID, email, isAdmin), int(tvf), nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
