package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vpetrenko/todo-service/internal/models"
	"github.com/vpetrenko/todo-service/internal/repository"
	"github.com/vpetrenko/todo-service/internal/token"
	"github.com/vpetrenko/todo-service/internal/utils/email"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on login for an unknown email and a
// wrong password alike, so the response never reveals which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	tokens *token.Manager
	mail   *email.Sender // nil when SMTP is not configured
	log    *logrus.Logger
}

// NewService initializes a new service
func NewService(repo *repository.Repository, tokens *token.Manager, mail *email.Sender, log *logrus.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, mail: mail, log: log}
}

// Ping verifies the persistence store is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, emailAddr, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        emailAddr,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.mail != nil {
		// Best effort; registration has already succeeded.
		go func(to string) {
			if err := s.mail.SendWelcome(to); err != nil {
				s.log.Errorf("Failed to send welcome email to %s: %v", to, err)
			}
		}(user.Email)
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a signed bearer token
func (s *Service) Login(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, emailAddr)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// Profile retrieves the user behind an authenticated request
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.ErrNotFound
	}
	// The hash stays behind this boundary.
	user.PasswordHash = ""
	return user, nil
}

// ListTodos retrieves all todos owned by userID
func (s *Service) ListTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	return s.repo.ListTodosByOwner(ctx, userID)
}

// CreateTodo creates a new todo for userID
func (s *Service) CreateTodo(ctx context.Context, userID int64, title, description string) (*models.Todo, error) {
	todo := &models.Todo{
		Title:       title,
		Description: description,
		UserID:      userID,
	}
	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	s.log.Infof("Todo %d created for user %d", todo.ID, userID)
	return todo, nil
}

// UpdateTodo applies a partial update to a todo owned by userID and
// returns its current state
func (s *Service) UpdateTodo(ctx context.Context, id, userID int64, upd repository.TodoUpdate) (*models.Todo, error) {
	return s.repo.UpdateTodo(ctx, id, userID, upd)
}

// DeleteTodo removes a todo owned by userID
func (s *Service) DeleteTodo(ctx context.Context, id, userID int64) error {
	if err := s.repo.DeleteTodo(ctx, id, userID); err != nil {
		return err
	}
	s.log.Infof("Todo %d deleted for user %d", id, userID)
	return nil
}
