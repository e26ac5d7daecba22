package services

import (
	"fmt"
	"strings"
	"teamchat/auth"
	"teamchat/errors"
	"teamchat/repositories"
)

type IAuthService interface {
	Login(email, password string) (Session, error)
	Register(email, displayName, password string) (Session, error)
}

// Session is what a client keeps after signing in.
type Session struct {
	Token       string
	UserID      string
	DisplayName string
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, tokens auth.TokenManager) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(email, displayName, password string) (Session, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	valReq := auth.RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	}

	// 1. Validate business rules (email format, password complexity)
	// before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return Session{}, err
	}

	// 2. Hash the password using Argon2id
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist the user, ErrUserAlreadyExists when the email is taken
	user, err := s.userRepository.CreateUser(email, displayName, hashedPassword)
	if err != nil {
		return Session{}, err
	}

	// 4. Issue the initial session token
	return s.session(user.ID, user.DisplayName, user.Roles)
}

func (s *AuthService) Login(email, password string) (Session, error) {
	// 1. Retrieve user by email
	user, err := s.userRepository.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		// Generic error to prevent user enumeration
		return Session{}, errors.ErrInvalidCredentials
	}

	// 2. Compare the provided password with the stored hash
	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	// 3. Issue the token
	return s.session(user.ID, user.DisplayName, user.Roles)
}

func (s *AuthService) session(userID, displayName string, roles []string) (Session, error) {
	token, err := s.tokens.GenerateToken(auth.Identity{UserID: userID, DisplayName: displayName, Roles: roles})
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}
	return Session{Token: token, UserID: userID, DisplayName: displayName}, nil
}
