package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
)

const maxAvatarBytes = 10 << 20

var avatarNamePattern = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Currency  string `json:"currency"`
	Locale    string `json:"locale"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Currency:  u.Currency,
		Locale:    u.Locale,
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	var avatarURL string

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
		req.Currency = r.FormValue("currency")
		req.Locale = r.FormValue("locale")

		if file, header, err := r.FormFile("avatar"); err == nil {
			defer file.Close()
			url, saveErr := s.saveAvatar(file, header)
			if saveErr != nil {
				s.logger.Error("avatar upload failed", "error", saveErr)
				WriteError(w, http.StatusInternalServerError, "Server error")
				return
			}
			avatarURL = url
		}
	} else {
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Locale == "" {
		req.Locale = "en-US"
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    avatarURL,
		Currency:     req.Currency,
		Locale:       req.Locale,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			WriteError(w, http.StatusConflict, "Email already registered")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}

	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), UserID(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

// saveAvatar stores the uploaded file under the uploads directory with a
// sanitized, collision-free name and returns its public URL path.
func (s *Server) saveAvatar(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(header.Filename)
	base := strings.TrimSuffix(filepath.Base(header.Filename), ext)
	base = avatarNamePattern.ReplaceAllString(base, "")
	if base == "" {
		base = "avatar"
	}

	name := fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxAvatarBytes)); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return "/uploads/" + name, nil
}
