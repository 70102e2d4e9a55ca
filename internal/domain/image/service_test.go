package image_test

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jujinjujeen/fuga/internal/apperrors"
	"github.com/jujinjujeen/fuga/internal/domain/image"
)

type fakeStorage struct {
	readFn    func(ctx context.Context, key string) ([]byte, error)
	promoteFn func(ctx context.Context, key string) error

	promoteCalls []string
}

func (f *fakeStorage) Read(ctx context.Context, key string) ([]byte, error) {
	return f.readFn(ctx, key)
}

func (f *fakeStorage) Promote(ctx context.Context, key string) error {
	f.promoteCalls = append(f.promoteCalls, key)
	if f.promoteFn != nil {
		return f.promoteFn(ctx, key)
	}
	return nil
}

func encode(t *testing.T, format string, width, height int) []byte {
	t.Helper()

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("unknown test format %q", format)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func newService(data []byte) (*image.Service, *fakeStorage) {
	storage := &fakeStorage{
		readFn: func(context.Context, string) ([]byte, error) { return data, nil },
	}
	return image.NewService(storage, zerolog.Nop()), storage
}

func TestGetMetadata(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		svc, _ := newService(encode(t, "png", 3, 2))

		meta, err := svc.GetMetadata(context.Background(), "k/cover.png")
		require.NoError(t, err)
		assert.Equal(t, &image.Metadata{Width: 3, Height: 2, Format: image.FormatPNG}, meta)
	})

	t.Run("jpeg", func(t *testing.T) {
		svc, _ := newService(encode(t, "jpeg", 8, 8))

		meta, err := svc.GetMetadata(context.Background(), "k/cover.jpg")
		require.NoError(t, err)
		assert.Equal(t, image.FormatJPEG, meta.Format)
		assert.Equal(t, 8, meta.Width)
	})

	t.Run("unsupported image format names the format", func(t *testing.T) {
		svc, _ := newService(encode(t, "gif", 2, 2))

		_, err := svc.GetMetadata(context.Background(), "k/cover.gif")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.EqualError(t, err, "Unsupported image format: gif")
	})

	t.Run("undecodable bytes", func(t *testing.T) {
		svc, _ := newService([]byte("definitely not an image"))

		_, err := svc.GetMetadata(context.Background(), "k/cover.png")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.EqualError(t, err, "Invalid image metadata")
	})

	t.Run("truncated png header", func(t *testing.T) {
		svc, _ := newService(encode(t, "png", 3, 2)[:12])

		_, err := svc.GetMetadata(context.Background(), "k/cover.png")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("storage read failure passes through", func(t *testing.T) {
		readErr := apperrors.NewNotFound("Object not found in storage: %s", "k/cover.png")
		storage := &fakeStorage{
			readFn: func(context.Context, string) ([]byte, error) { return nil, readErr },
		}
		svc := image.NewService(storage, zerolog.Nop())

		_, err := svc.GetMetadata(context.Background(), "k/cover.png")
		assert.ErrorIs(t, err, readErr)
		assert.False(t, apperrors.IsValidation(err))
	})
}

func TestPrepare(t *testing.T) {
	t.Run("promotes after validation", func(t *testing.T) {
		svc, storage := newService(encode(t, "png", 4, 6))

		prepared, err := svc.Prepare(context.Background(), "k/cover.png")
		require.NoError(t, err)
		assert.Equal(t, []string{"k/cover.png"}, storage.promoteCalls)
		assert.Equal(t, &image.Prepared{
			StorageKey: "k/cover.png",
			Width:      4,
			Height:     6,
			Format:     image.FormatPNG,
		}, prepared)
	})

	t.Run("invalid image never reaches promotion", func(t *testing.T) {
		svc, storage := newService([]byte("junk"))

		_, err := svc.Prepare(context.Background(), "k/cover.png")
		require.Error(t, err)
		assert.Empty(t, storage.promoteCalls)
	})

	t.Run("promotion failure propagates untouched", func(t *testing.T) {
		promoteErr := errors.New("copy failed")
		svc, storage := newService(encode(t, "png", 2, 2))
		storage.promoteFn = func(context.Context, string) error { return promoteErr }

		_, err := svc.Prepare(context.Background(), "k/cover.png")
		assert.ErrorIs(t, err, promoteErr)
		assert.False(t, apperrors.IsValidation(err))
	})
}
