package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/tandemio/lingua/internal/error_values"
	"github.com/tandemio/lingua/internal/service"
	"github.com/tandemio/lingua/pkg/entity"
	"github.com/tandemio/lingua/pkg/httputil"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RecordActivityRequest struct {
	Language     string `json:"language"`
	ActivityType string `json:"activity_type"`
	Minutes      int    `json:"minutes"`
}

type SetLanguageLevelRequest struct {
	Level string `json:"level"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type RecordActivityResponse struct {
	Streak        entity.UserStreak `json:"streak"`
	Points        int64             `json:"points"`
	PointsAwarded int64             `json:"points_awarded"`
	Progress      *entity.Progress  `json:"progress"`
}

type ListLanguagesResponse struct {
	UserID    string                      `json:"uid"`
	Languages []entity.LanguagePreference `json:"languages"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserExists):
			logger.Error("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such name already exists", nil)
		case errors.Is(err, errorvalues.ErrInvalidInput):
			logger.Error("registering error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid credentials format", err)
		default:
			logger.Error("registering error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("login error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("login error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid username or password", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":   user.ID.String(),
		"token": token,
	})
	logger.Info("successful login")
}

func (s *Server) RecordActivity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record activity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req RecordActivityRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("record activity error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.progressService.RecordActivity(ctx, uid, &service.RecordActivityRequest{
		Language:     req.Language,
		ActivityType: req.ActivityType,
		Minutes:      req.Minutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidInput):
			logger.Error("record activity error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity payload", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("record activity error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't record activity: user doesn't exists", nil)
		default:
			logger.Error("record activity error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while recording activity", nil)
		}
		return
	}
	status := http.StatusOK
	if result.CreatedProgress {
		status = http.StatusCreated
	}
	httputil.WriteJSONResponse(w, status, RecordActivityResponse{
		Streak:        result.Streak,
		Points:        result.Points,
		PointsAwarded: result.PointsAwarded,
		Progress:      result.Progress,
	})
	logger.Info("activity recorded", slog.String("language", req.Language), slog.String("activity_type", req.ActivityType))
}

func (s *Server) GetStreakView(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("streak view error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	view, err := s.progressService.GetStreakView(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("streak view error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exists", nil)
			return
		}
		logger.Error("streak view error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while building streak view", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, view)
	logger.Info("streak view provided")
}

func (s *Server) GetLanguageProgress(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get progress error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	language := r.PathValue("language")
	if language == "" {
		logger.Error("get progress error: missing language in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "missing language in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	progress, err := s.progressService.GetLanguageProgress(ctx, uid, language)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProgressNotFound) {
			logger.Error("get progress error: no progress for language")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no progress for this language", nil)
			return
		}
		logger.Error("get progress error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting progress", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, progress)
	logger.Info("progress provided", slog.String("language", language))
}

func (s *Server) SetLanguageLevel(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("set language error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	language := r.PathValue("language")
	var req SetLanguageLevelRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("set language error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.SetLanguageLevel(ctx, uid, &service.SetLanguageRequest{
		Language: language,
		Level:    req.Level,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidInput):
			logger.Error("set language error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid language or level", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("set language error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exists", nil)
		default:
			logger.Error("set language error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while setting language", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"language": language,
		"level":    req.Level,
	})
	logger.Info("language level set", slog.String("language", language))
}

func (s *Server) ListLanguages(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list languages error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	prefs, err := s.userService.ListLanguages(ctx, uid)
	if err != nil {
		logger.Error("list languages error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while listing languages", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListLanguagesResponse{
		UserID:    uid.String(),
		Languages: prefs,
	})
	logger.Info("languages provided")
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("account deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req DeleteAccountRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("account deletion error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.DeleteAccount(ctx, uid, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("account deletion error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exists", nil)
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("account deletion error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "wrong password", nil)
		default:
			logger.Error("account deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting account", nil)
		}
		return
	}
	logger.Info("account deleted")
}
