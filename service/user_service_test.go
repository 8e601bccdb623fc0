package service_test

import (
	"testing"

	"warbler/model"
	"warbler/service"
	"warbler/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*service.UserService, *gorm.DB) {
	db := testutil.OpenDB(t)
	svc := service.NewUserService(db)
	svc.DefaultImageURL = "/static/images/default-pic.png"
	svc.DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
	return svc, db
}

func seedPair(t *testing.T, svc *service.UserService) (*model.User, *model.User) {
	t.Helper()
	u1, err := svc.Signup("u1", "u1@email.com", "password", "")
	require.NoError(t, err)
	u2, err := svc.Signup("u2", "u2@email.com", "password", "")
	require.NoError(t, err)
	return u1, u2
}

func userCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	return count
}

func TestSignup(t *testing.T) {
	svc, db := newUserService(t)

	user, err := svc.Signup("test_user", "test_user@email.com", "password", "")
	require.NoError(t, err)

	found, err := svc.GetByUsername("test_user")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "test_user@email.com", found.Email)
	assert.Equal(t, "/static/images/default-pic.png", found.ImageURL)

	// Stored hash must verify against the password and never equal it.
	assert.NotEqual(t, "password", found.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte("password")))

	assert.EqualValues(t, 1, userCount(t, db))
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc, db := newUserService(t)
	seedPair(t, svc)

	_, err := svc.Signup("u1", "someone_else@email.com", "password", "")
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.EqualValues(t, 2, userCount(t, db), "failed signup must not leave a row")
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, db := newUserService(t)
	seedPair(t, svc)

	_, err := svc.Signup("u3", "u1@email.com", "password", "")
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.EqualValues(t, 2, userCount(t, db))
}

func TestSignupNoPassword(t *testing.T) {
	svc, db := newUserService(t)
	seedPair(t, svc)

	_, err := svc.Signup("u3", "u3@email.com", "", "")
	require.ErrorIs(t, err, service.ErrPasswordRequired)
	assert.EqualValues(t, 2, userCount(t, db))
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserService(t)
	u1, _ := seedPair(t, svc)

	user, err := svc.Authenticate("u1", "password")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _ := newUserService(t)
	seedPair(t, svc)

	_, err := svc.Authenticate("u1", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUsername(t *testing.T) {
	svc, _ := newUserService(t)
	seedPair(t, svc)

	// Same error as a wrong password; callers cannot distinguish.
	_, err := svc.Authenticate("nobody", "password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestNewUserIsEmpty(t *testing.T) {
	svc, db := newUserService(t)
	u1, _ := seedPair(t, svc)

	msgs, err := service.NewMessageService(db).ForUser(u1.ID, 100)
	require.NoError(t, err)
	assert.Len(t, msgs, 0)

	followers, err := service.NewFollowService(db).Followers(u1.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 0)
}

func TestUpdateDuplicateUsername(t *testing.T) {
	svc, _ := newUserService(t)
	_, u2 := seedPair(t, svc)

	u2.Username = "u1"
	err := svc.Update(u2)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDeleteCascades(t *testing.T) {
	svc, db := newUserService(t)
	u1, u2 := seedPair(t, svc)

	msgSvc := service.NewMessageService(db)
	followSvc := service.NewFollowService(db)

	msg, err := msgSvc.Create(u1.ID, "about to disappear")
	require.NoError(t, err)
	require.NoError(t, followSvc.Follow(u2.ID, u1.ID))
	require.NoError(t, msgSvc.Like(u2.ID, msg.ID))

	require.NoError(t, svc.Delete(u1.ID))

	var msgCount, followCount, likeCount int64
	require.NoError(t, db.Model(&model.Message{}).Count(&msgCount).Error)
	require.NoError(t, db.Model(&model.Follow{}).Count(&followCount).Error)
	require.NoError(t, db.Model(&model.Like{}).Count(&likeCount).Error)
	assert.EqualValues(t, 0, msgCount)
	assert.EqualValues(t, 0, followCount)
	assert.EqualValues(t, 0, likeCount)
}
