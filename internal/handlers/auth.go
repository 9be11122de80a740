package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"codecanvas-backend/internal/models"
	"codecanvas-backend/internal/services"
	"codecanvas-backend/internal/session"
	"codecanvas-backend/internal/views"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
}

type AuthHandler struct {
	authService authService
	sessions    *session.Manager
}

func NewAuthHandler(authService authService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

type authPageData struct {
	Message string
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, "register.html", authPageData{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		views.Render(w, "register.html", authPageData{Message: "Invalid form submission."})
		return
	}

	req := models.RegisterRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Email:    r.PostFormValue("email"),
	}

	_, err := h.authService.Register(r.Context(), req)
	if err != nil {
		var validationErr *services.ValidationError
		var dupErr *services.DuplicateUsernameError
		switch {
		case errors.As(err, &validationErr):
			views.Render(w, "register.html", authPageData{Message: "All fields are required."})
		case errors.As(err, &dupErr):
			views.Render(w, "register.html", authPageData{Message: "Username already exists."})
		default:
			log.Printf("register: %v", err)
			views.Render(w, "register.html", authPageData{Message: "Something went wrong. Please try again."})
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, "login.html", authPageData{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		views.Render(w, "login.html", authPageData{Message: "Invalid form submission."})
		return
	}

	req := models.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		var credErr *services.InvalidCredentialsError
		if errors.As(err, &credErr) {
			views.Render(w, "login.html", authPageData{Message: "Invalid username or password."})
			return
		}
		log.Printf("login: %v", err)
		views.Render(w, "login.html", authPageData{Message: "Something went wrong. Please try again."})
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		log.Printf("session issue: %v", err)
		views.Render(w, "login.html", authPageData{Message: "Something went wrong. Please try again."})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// Logout clears the session. Safe to call without one.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			log.Printf("logout: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
