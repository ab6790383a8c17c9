package http

import (
	"log/slog"
	"net/http"
	"strings"

	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/transport/http/dto/request"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName   = "session"
	sessionUserID = "user_id"
	ctxUserID     = "user_id"
)

// Authenticate определяет пользователя по Bearer-токену или cookie-сессии.
// Анонимный запрос проходит дальше без пользователя.
func (r *Routers) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := r.identify(c); id != uuid.Nil {
			c.Set(ctxUserID, id)
		}
		return next(c)
	}
}

func (r *Routers) identify(c echo.Context) uuid.UUID {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		id, err := r.AuthService.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			r.log.Debug("bearer token rejected", sl.Err(err))
			return uuid.Nil
		}
		return id
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		return uuid.Nil
	}

	raw, ok := sess.Values[sessionUserID].(string)
	if !ok || raw == "" {
		return uuid.Nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}

	return id
}

// CurrentUserID возвращает uuid.Nil для анонимного запроса
func CurrentUserID(c echo.Context) uuid.UUID {
	id, _ := c.Get(ctxUserID).(uuid.UUID)
	return id
}

func (r *Routers) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUserID(c) == uuid.Nil {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}
		return next(c)
	}
}

func (r *Routers) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := CurrentUserID(c)
		if userID == uuid.Nil {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}

		isAdmin, err := r.UserService.IsAdmin(c.Request().Context(), userID)
		if err != nil {
			return fail(c, r.log.With(slog.String("op", "http.routers.RequireAdmin")), err)
		}
		if !isAdmin {
			return c.JSON(http.StatusForbidden, response.ErrAdminRequired)
		}

		return next(c)
	}
}

// Login godoc
// @Summary Вход владельца
// @Description Вход по email и паролю. Возвращает пару JWT и устанавливает cookie-сессию.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=models.TokenPair} "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Неверный email или пароль"
// @Router /api/v1/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	user, tokens, err := r.UserService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status, _ := errorBody(err)
		if status == http.StatusUnauthorized {
			log.Warn("login failed", slog.String("email", req.Email))
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		return fail(c, log, err)
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		log.Error("failed to get session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	sess.Values[sessionUserID] = user.ID.String()
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Refresh godoc
// @Summary Обновление пары токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh-токен"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse "Токен недействителен или отозван"
// @Router /api/v1/auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	tokens, err := r.AuthService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Logout godoc
// @Summary Выход
// @Description Отзывает все refresh-токены пользователя и очищает сессию
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	userID := CurrentUserID(c)

	if err := r.AuthService.Logout(c.Request().Context(), userID); err != nil {
		return fail(c, log, err)
	}

	if sess, err := session.Get(sessionName, c); err == nil {
		delete(sess.Values, sessionUserID)
		sess.Options.MaxAge = -1
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to clear session", sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "logged out",
	})
}

// CurrentUser godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/auth/user [get]
func (r *Routers) CurrentUser(c echo.Context) error {
	const op = "http.routers.CurrentUser"

	log := r.log.With(
		slog.String("op", op),
	)

	user, err := r.UserService.GetUserById(c.Request().Context(), CurrentUserID(c))
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(user))
}

// ChangePassword godoc
// @Summary Смена пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.ChangePasswordRequest true "Старый и новый пароль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse "Старый пароль неверен"
// @Security ApiKeyAuth
// @Router /api/v1/auth/password [post]
func (r *Routers) ChangePassword(c echo.Context) error {
	const op = "http.routers.ChangePassword"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	if err := r.UserService.ChangePassword(c.Request().Context(), CurrentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "password changed",
	})
}
