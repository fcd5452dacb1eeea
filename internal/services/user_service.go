package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is assigned when a user is created without one.
const DefaultPassword = "123456"

// UserInput is the create/update payload; Password is never echoed back.
type UserInput struct {
	models.User
	Password string `json:"contrasena"`
}

type UserService struct {
	Users     repositories.UserRepository
	RequestID string
}

func (s UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Users.List(ctx)
}

func (s UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	u, err := normalizeUser(in.User)
	if err != nil {
		return models.User{}, err
	}
	pw := in.Password
	if strings.TrimSpace(pw) == "" {
		pw = DefaultPassword
	}
	if u.PasswordHash, err = hashPassword(pw); err != nil {
		return models.User{}, err
	}
	out, err := s.Users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "user", "create", fmt.Sprintf("id=%d", out.ID))
	out.PasswordHash = ""
	return out, nil
}

// Update keeps the stored password unless a new one is given.
func (s UserService) Update(ctx context.Context, in UserInput) (models.User, error) {
	u, err := normalizeUser(in.User)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = ""
	if strings.TrimSpace(in.Password) != "" {
		if u.PasswordHash, err = hashPassword(in.Password); err != nil {
			return models.User{}, err
		}
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "user", "update", fmt.Sprintf("id=%d password_changed=%t", u.ID, u.PasswordHash != ""))
	u.PasswordHash = ""
	return u, nil
}

func (s UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "user", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func hashPassword(pw string) (string, error) {
	if len(pw) < 6 {
		return "", domain.ValidationError{Field: "contrasena", Msg: "mínimo 6 caracteres"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.ValidationError{Field: "contrasena", Msg: "no se pudo procesar", Err: err}
	}
	return string(hash), nil
}

// PasswordMatches compares a plain password with a stored bcrypt hash.
func PasswordMatches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func normalizeUser(u models.User) (models.User, error) {
	u.Name = utils.NormalizeSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.DocumentNumber = strings.TrimSpace(u.DocumentNumber)
	u.Phone = strings.TrimSpace(u.Phone)
	if u.Name == "" {
		return u, domain.ValidationError{Field: "nombre", Msg: "requerido"}
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return u, domain.ValidationError{Field: "correo", Msg: "correo inválido", Err: err}
	}
	return u, nil
}
