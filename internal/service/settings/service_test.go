package settings

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
	"github.com/biopulse/attendance-backend-go/internal/pkg/storage"
	"github.com/biopulse/attendance-backend-go/internal/repository/sqlite"
	"github.com/biopulse/attendance-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestSettingsService(t *testing.T) *SettingsServiceImpl {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return NewSettingsService(sqlite.NewSettingsRepository(newTestDB(t), sse.NopPublisher{}), file.NewFileService(store))
}

func boolPtr(b bool) *bool     { return &b }
func strPtr(s string) *string { return &s }

func TestCompanySettings(t *testing.T) {
	svc := newTestSettingsService(t)
	ctx := context.Background()

	defaults, err := svc.GetCompany(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultCompanyName, defaults.CompanyName)
	assert.Nil(t, defaults.UpdatedAt)

	updated, err := svc.UpdateCompany(ctx, settings.UpdateCompanySettingsRequest{CompanyName: strPtr("  Sunrise Clinic ")})
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Clinic", updated.CompanyName)
	require.NotNil(t, updated.BrandColor)
	assert.Equal(t, settings.DefaultBrandColor, *updated.BrandColor)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = svc.UpdateCompany(ctx, settings.UpdateCompanySettingsRequest{BrandColor: strPtr("teal")})
	assert.Error(t, err)

	_, err = svc.UpdateCompany(ctx, settings.UpdateCompanySettingsRequest{})
	assert.ErrorIs(t, err, settings.ErrNothingToUpdate)
}

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func TestUploadLogo(t *testing.T) {
	svc := newTestSettingsService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))))

	resp, err := svc.UploadLogo(ctx, settings.UploadLogoRequest{
		File:       memoryFile{bytes.NewReader(buf.Bytes())},
		FileHeader: &multipart.FileHeader{Filename: "logo.png", Size: int64(buf.Len())},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.LogoURL)
	assert.True(t, strings.HasPrefix(*resp.LogoURL, "http://localhost:8080/uploads/logos/"))
	assert.Equal(t, settings.DefaultCompanyName, resp.CompanyName)
}

func TestVerificationSettings(t *testing.T) {
	svc := newTestSettingsService(t)
	ctx := context.Background()

	defaults, err := svc.GetVerification(ctx)
	require.NoError(t, err)
	assert.True(t, defaults.RequireCode)
	assert.False(t, defaults.RequireSelfie)
	assert.Nil(t, defaults.UpdatedAt)

	resp, err := svc.UpdateVerification(ctx, settings.UpdateVerificationSettingsRequest{
		RequireSelfie:      boolPtr(true),
		DefaultClockInTime: strPtr("08:30:00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.RequireCode)
	assert.True(t, resp.RequireSelfie)
	require.NotNil(t, resp.DefaultClockInTime)
	assert.Equal(t, "08:30", *resp.DefaultClockInTime)

	resp, err = svc.UpdateVerification(ctx, settings.UpdateVerificationSettingsRequest{RequireCode: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, resp.RequireCode)
	assert.True(t, resp.RequireSelfie)

	_, err = svc.UpdateVerification(ctx, settings.UpdateVerificationSettingsRequest{RequireSelfie: boolPtr(false)})
	assert.ErrorIs(t, err, settings.ErrNoMethodEnabled)

	current, err := svc.GetVerification(ctx)
	require.NoError(t, err)
	assert.True(t, current.RequireSelfie)

	_, err = svc.UpdateVerification(ctx, settings.UpdateVerificationSettingsRequest{DefaultClockInTime: strPtr("8.30")})
	assert.Error(t, err)
}
