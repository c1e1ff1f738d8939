package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var ErrInvalidFileType = errors.New("invalid file type: only jpg, jpeg, png allowed")

const (
	selfieMaxBytes = 150 * 1024
	selfieMinBytes = 50 * 1024
	avatarMaxSide  = 512
)

type FileService interface {
	// UploadAvatar stores an employee avatar, downscaled to at most 512px, and returns its key
	UploadAvatar(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)

	// UploadSelfie stores a verification selfie under the clocking date and returns its key
	UploadSelfie(ctx context.Context, employeeID string, date string, image []byte, filename string) (string, error)

	// UploadCompanyLogo stores the tenant logo and returns its key
	UploadCompanyLogo(ctx context.Context, file io.Reader, filename string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

func imageExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return ext, nil
	}
	return "", ErrInvalidFileType
}

// UploadAvatar implements FileService.
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	if _, err := imageExt(filename); err != nil {
		return "", err
	}

	encoded, err := fitImage(file, avatarMaxSide)
	if err != nil {
		return "", err
	}

	key := path.Join("avatars", employeeID, uuid.NewString()+".jpg")
	if _, err := s.storage.Upload(ctx, bytes.NewReader(encoded), key, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return key, nil
}

// UploadSelfie implements FileService.
// Compresses the image to between 50KB and 150KB.
func (s *fileServiceImpl) UploadSelfie(ctx context.Context, employeeID string, date string, img []byte, filename string) (string, error) {
	if _, err := imageExt(filename); err != nil {
		return "", err
	}

	compressed, err := compressImage(img, selfieMaxBytes, selfieMinBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compress selfie: %w", err)
	}

	// selfies/{date}/{employeeID}-{timestamp}.jpg, always JPEG after compression
	key := path.Join("selfies", date, fmt.Sprintf("%s-%d.jpg", employeeID, s.now().UnixNano()))
	if _, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload selfie: %w", err)
	}

	return key, nil
}

// UploadCompanyLogo implements FileService.
func (s *fileServiceImpl) UploadCompanyLogo(ctx context.Context, file io.Reader, filename string) (string, error) {
	ext, err := imageExt(filename)
	if err != nil {
		return "", err
	}

	// Logos keep PNG transparency, so they are stored as uploaded.
	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}

	key := path.Join("logos", uuid.NewString()+ext)
	if _, err := s.storage.Upload(ctx, io.LimitReader(file, 2<<20), key, contentType); err != nil {
		return "", fmt.Errorf("failed to upload company logo: %w", err)
	}

	return key, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL returns the public URL of a stored file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string) (string, error) {
	return s.storage.GetURL(ctx, key, 0)
}

// ==================== HELPER FUNCTIONS ====================

// fitImage decodes r and re-encodes it as JPEG no larger than maxSide on either axis.
func fitImage(r io.Reader, maxSide int) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileType, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxSide || bounds.Dy() > maxSide {
		scale := float64(maxSide) / math.Max(float64(bounds.Dx()), float64(bounds.Dy()))
		img = resizeImage(img, scaled(bounds.Dx(), scale), scaled(bounds.Dy(), scale))
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// compressImage brings an image into [minSize, maxSize] bytes where it can, lowering
// JPEG quality first and then resizing.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	if len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize {
			// Small images stay small; there is nothing to gain from padding them.
			return compressed, nil
		}
	}

	// Still too large: scale down towards the middle of the range, keeping the aspect ratio.
	target := float64(minSize+maxSize) / 2
	scale := math.Sqrt(target / float64(len(compressed)))
	bounds := img.Bounds()
	resized := resizeImage(img, scaled(bounds.Dx(), scale), scaled(bounds.Dy(), scale))

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

func scaled(n int, scale float64) int {
	return max(1, int(float64(n)*scale))
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
