package controllers

import (
	"errors"
	"minedash/internal/providers"
	"minedash/internal/services"
	"minedash/internal/structures"
	"net/http"
	"strings"
)

const (
	StateCookie   = "minedash_state"
	SessionCookie = "minedash_session"
)

type AuthController struct {
	logger  providers.Logger
	service services.AuthServiceInterface
	secure  bool
}

func NewAuthController(conf *structures.Config, logger providers.Logger, service services.AuthServiceInterface) *AuthController {
	return &AuthController{
		logger:  logger,
		service: service,
		secure:  strings.HasPrefix(conf.Esi.CallbackUrl, "https://"),
	}
}

func (ac *AuthController) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ac.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	state, redirectURL, err := ac.service.BeginLogin(r.Context())
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "sso login: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, ac.cookie(StateCookie, state, int(services.StateTTL.Seconds())))
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cookieState := ""
	if c, err := r.Cookie(StateCookie); err == nil {
		cookieState = c.Value
	}
	http.SetCookie(w, ac.cookie(StateCookie, "", -1))

	sessionID, character, err := ac.service.CompleteLogin(r.Context(), query.Get("code"), query.Get("state"), cookieState)
	if errors.Is(err, services.ErrLoginFailed) {
		ac.logger.Warnf(providers.TypeGet, "sso callback: %s", err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "sso callback: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.logger.Debugf(providers.TypeGet, "session opened for %d", character.CharacterID)
	http.SetCookie(w, ac.cookie(SessionCookie, sessionID, int(ac.service.SessionTTL().Seconds())))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		sessionID = c.Value
	}

	err := ac.service.Logout(r.Context(), sessionID)
	if errors.Is(err, services.ErrNoSession) {
		http.Redirect(w, r, "/sso/login", http.StatusFound)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "sso logout: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, ac.cookie(SessionCookie, "", -1))
	http.Redirect(w, r, "/", http.StatusFound)
}
