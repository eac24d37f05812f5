package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"pitchly_backend/internal/imageprocessor"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/internal/storage"
	"pitchly_backend/internal/testutil"
	"pitchly_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (UserService, *gorm.DB, *models.User) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "locale@test.com")

	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: t.TempDir(),
		BaseURL:  "/files",
	})
	require.NoError(t, err)

	svc := NewUserService(
		repositories.NewUserRepository(),
		store,
		imageprocessor.NewProcessor(85),
		64,
		[]string{"image/png", "image/jpeg"},
	)
	return svc, db, user
}

func TestSetRegionFollowsDefaultLanguage(t *testing.T) {
	svc, db, user := newUserService(t)

	got, err := svc.SetRegion(db, user.ID, "de")
	require.NoError(t, err)
	assert.Equal(t, "de", got.Region)
	assert.Equal(t, "de", got.Language)

	// Another region switch keeps following the default.
	got, err = svc.SetRegion(db, user.ID, "br")
	require.NoError(t, err)
	assert.Equal(t, "pt", got.Language)
}

func TestExplicitLanguageSurvivesRegionChange(t *testing.T) {
	svc, db, user := newUserService(t)

	_, err := svc.SetLanguage(db, user.ID, "fr")
	require.NoError(t, err)

	// The explicit choice pins the language.
	got, err := svc.SetRegion(db, user.ID, "jp")
	require.NoError(t, err)
	assert.Equal(t, "jp", got.Region)
	assert.Equal(t, "fr", got.Language)

	var check models.User
	require.NoError(t, db.First(&check, "id = ?", user.ID).Error)
	assert.Equal(t, "fr", check.Language)
	assert.True(t, check.LanguageSet)
}

func TestSetRegionUnsupported(t *testing.T) {
	svc, db, user := newUserService(t)

	_, err := svc.SetRegion(db, user.ID, "xx")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)

	_, err = svc.SetLanguage(db, user.ID, "zz")
	require.Error(t, err)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, db, user := newUserService(t)

	company := "Blake Studio"
	got, err := svc.UpdateProfile(db, user.ID, &models.UpdateProfileRequest{CompanyName: &company})
	require.NoError(t, err)
	assert.Equal(t, "Blake Studio", got.CompanyName)
	// Untouched fields keep their values.
	assert.Equal(t, user.Name, got.Name)
}

func TestUploadAvatar(t *testing.T) {
	svc, db, user := newUserService(t)

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	url, err := svc.UploadAvatar(context.Background(), db, user.ID, &buf, "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "/files/avatars/"+user.ID)

	var check models.User
	require.NoError(t, db.First(&check, "id = ?", user.ID).Error)
	assert.NotEmpty(t, check.AvatarPath)
}

func TestUploadAvatarRejectsUnknownType(t *testing.T) {
	svc, db, user := newUserService(t)

	_, err := svc.UploadAvatar(context.Background(), db, user.ID, bytes.NewReader([]byte("GIF89a")), "image/gif")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}
