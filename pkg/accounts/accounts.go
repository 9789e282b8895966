// Package accounts implements admin-account management and its authorization rules.
package accounts

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"video-portfolio/pkg/auth"
	"video-portfolio/pkg/models"
	"video-portfolio/pkg/repository"
)

// RootUsername is the only account allowed to create other accounts.
const RootUsername = "admin"

const MinPasswordLength = 6

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrMissingPasswords   = errors.New("current and new password are required")
	ErrForbiddenCreate    = errors.New("only the admin account can create users")
	ErrForbiddenDelete    = errors.New("you can only delete your own account")
	ErrLastAdmin          = errors.New("cannot delete the last admin account")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotFound           = errors.New("user not found")
)

type Store interface {
	ByUsername(username string) (*models.Admin, error)
	ByID(id string) (*models.Admin, error)
	List() ([]models.Admin, error)
	Count() (int, error)
	Create(username, passwordHash string) (*models.Admin, error)
	UpdatePassword(id, passwordHash string) error
	Delete(id string) error
}

// Actor is the authenticated caller.
type Actor struct {
	ID       string
	Username string
}

type Session struct {
	Token string
	Admin *models.Admin
}

type Service struct {
	store  Store
	issuer *auth.Issuer
	log    logrus.FieldLogger
}

func NewService(store Store, issuer *auth.Issuer, log logrus.FieldLogger) *Service {
	return &Service{store: store, issuer: issuer, log: log.WithField("component", "accounts")}
}

func (s *Service) Login(username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	admin, err := s.store.ByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateJWT(admin.ID, admin.Username)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	s.log.WithField("username", username).Info("login succeeded")
	return &Session{Token: token, Admin: admin}, nil
}

func (s *Service) Profile(actor Actor) (*models.Admin, error) {
	admin, err := s.store.ByID(actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return admin, err
}

func (s *Service) List() ([]models.Admin, error) {
	admins, err := s.store.List()
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []models.Admin{}
	}
	return admins, nil
}

func (s *Service) Create(actor Actor, username, password string) (*models.Admin, error) {
	if actor.Username != RootUsername {
		s.log.WithField("actor", actor.Username).Warn("user creation refused")
		return nil, ErrForbiddenCreate
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	admin, err := s.store.Create(username, hash)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"username": username, "by": actor.Username}).Info("admin account created")
	return admin, nil
}

// Delete removes the caller's own account. The count and the delete are not atomic, so two
// accounts deleting themselves at the same moment can both pass the check.
func (s *Service) Delete(actor Actor, id string) error {
	if id != actor.ID {
		return ErrForbiddenDelete
	}
	n, err := s.store.Count()
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}

	err = s.store.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.log.WithField("username", actor.Username).Info("admin account deleted by its owner")
	return nil
}

func (s *Service) ChangePassword(actor Actor, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingPasswords
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}

	admin, err := s.store.ByID(actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !auth.CheckPassword(admin.PasswordHash, current) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	if err := s.store.UpdatePassword(admin.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.WithField("username", admin.Username).Info("password changed")
	return nil
}

func (s *Service) HasRoot() (bool, error) {
	_, err := s.store.ByUsername(RootUsername)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// EnsureRoot creates the root account when it does not exist yet. It reports whether it
// created one.
func (s *Service) EnsureRoot(password string) (bool, error) {
	_, err := s.store.ByUsername(RootUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if len(password) < MinPasswordLength {
		return false, ErrWeakPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, errors.Wrap(err, "hash password")
	}
	if _, err := s.store.Create(RootUsername, hash); err != nil {
		return false, err
	}
	s.log.Info("root admin account created")
	return true, nil
}
