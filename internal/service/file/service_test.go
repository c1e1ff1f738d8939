package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256)), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T) (*fileServiceImpl, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewFileService(store).(*fileServiceImpl)
	svc.now = func() time.Time { return time.Unix(1744262400, 0) }
	return svc, store
}

func TestUploadSelfie_CompressesAndStoresByDate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	raw := noisePNG(t, 900, 700)
	require.Greater(t, len(raw), selfieMaxBytes)

	key, err := svc.UploadSelfie(ctx, "emp-1", "2025-04-10", raw, "selfie.png")
	require.NoError(t, err)
	assert.Equal(t, "selfies/2025-04-10/emp-1-1744262400000000000.jpg", key)

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	assert.Less(t, buf.Len(), len(raw))

	_, err = jpeg.Decode(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
}

func TestUploadSelfie_RejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UploadSelfie(context.Background(), "emp-1", "2025-04-10", []byte("GIF89a"), "selfie.gif")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadAvatar_Downscales(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	key, err := svc.UploadAvatar(ctx, "emp-1", bytes.NewReader(noisePNG(t, 1024, 256)), "avatar.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/emp-1/"))

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	cfg, err := jpeg.DecodeConfig(rc)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestUploadAvatar_NotAnImage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UploadAvatar(context.Background(), "emp-1", strings.NewReader("plain text"), "avatar.jpg")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadCompanyLogo_KeepsPNG(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	key, err := svc.UploadCompanyLogo(ctx, bytes.NewReader(noisePNG(t, 64, 64)), "Logo.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "logos/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	url, err := svc.GetFileURL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/"+key, url)

	require.NoError(t, svc.DeleteFile(ctx, key))
}

func TestCompressImage_InRangeUntouched(t *testing.T) {
	data := bytes.Repeat([]byte{1}, 60*1024)
	out, err := compressImage(data, selfieMaxBytes, selfieMinBytes)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}
