package service

import (
	"errors"
	"fmt"

	"warbler/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrPasswordRequired is returned by Signup before anything is
	// written when the password is empty.
	ErrPasswordRequired = errors.New("password is required")

	// ErrInvalidCredentials covers both unknown username and wrong
	// password; callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// dummyHash is a bcrypt hash of a throwaway value. Authenticate compares
// against it when the username does not exist so both failure paths cost
// one bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	db *gorm.DB

	// Applied at signup when the corresponding field is blank.
	DefaultImageURL       string
	DefaultHeaderImageURL string
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Signup registers a new user with a hashed password. Uniqueness of
// username and email is enforced by the database at create time; on any
// failure no user row is left behind.
func (s *UserService) Signup(username, email, password, imageURL string) (*model.User, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if imageURL == "" {
		imageURL = s.DefaultImageURL
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		ImageURL:       imageURL,
		HeaderImageURL: s.DefaultHeaderImageURL,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate looks the user up by username and verifies the password
// against the stored hash.
func (s *UserService) Authenticate(username, password string) (*model.User, error) {
	var user model.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Burn a comparison anyway, see dummyHash.
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users, optionally filtered by a username substring.
func (s *UserService) List(q string) ([]model.User, error) {
	var users []model.User
	tx := s.db.Order("id")
	if q != "" {
		tx = tx.Where("username LIKE ?", "%"+q+"%")
	}
	if err := tx.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update persists profile edits. Username/email uniqueness conflicts
// surface as gorm.ErrDuplicatedKey.
func (s *UserService) Update(user *model.User) error {
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the user; messages, follow edges and likes go with it
// via ON DELETE CASCADE.
func (s *UserService) Delete(id uint) error {
	if err := s.db.Delete(&model.User{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
