package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatching(t *testing.T) {
	cause := errors.New("permission revoked")
	err := error(&Error{Service: "camera", Kind: KindAccessDenied, Err: cause})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.NotErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "services: camera: access denied: permission revoked", err.Error())

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "camera", se.Service)
}

func TestFeedCamera(t *testing.T) {
	cam := NewFeedCamera()
	_, err := cam.Frame()
	assert.ErrorIs(t, err, ErrNotReady)

	// Capture APIs deliver YCbCr planes.
	src := image.NewYCbCr(image.Rect(10, 10, 18, 14), image.YCbCrSubsampleRatio420)
	for i := range src.Y {
		src.Y[i] = 255
	}
	for i := range src.Cb {
		src.Cb[i] = 128
		src.Cr[i] = 128
	}
	cam.Push(src)

	frame, err := cam.Frame()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), frame.Bounds())
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, frame.RGBAAt(3, 2))

	frame.SetRGBA(0, 0, color.RGBA{})
	again, err := cam.Frame()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), again.RGBAAt(0, 0).R, "Frame returns a copy")

	cam.Deny()
	_, err = cam.Frame()
	assert.ErrorIs(t, err, ErrAccessDenied)
	cam.Push(src)
	_, err = cam.Frame()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), cam.Frames())
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	assert.Equal(t, image.Rect(0, 0, 100, 50), Thumbnail(src, 100, 100).Bounds())
	assert.Equal(t, image.Rect(0, 0, 400, 200), Thumbnail(src, 1000, 1000).Bounds())
	assert.Same(t, src, ToRGBA(src))
}

func TestUnavailableServices(t *testing.T) {
	_, err := NoClipboard{}.Get()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, NoHaptics{}.Trigger(HapticSelection), ErrUnavailable)

	var clip MemoryClipboard
	require.NoError(t, clip.Set("hello"))
	text, err := clip.Get()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	var rec HapticsRecorder
	require.NoError(t, rec.Trigger(HapticImpactHeavy))
	require.NoError(t, rec.Trigger(HapticNotificationSuccess))
	assert.Equal(t, []HapticStyle{HapticImpactHeavy, HapticNotificationSuccess}, rec.Played())
}

func TestCloudKV(t *testing.T) {
	ctx := context.Background()
	cloud := NewCloudKV(nil)
	require.NoError(t, cloud.Set(ctx, "a", []byte("1")))
	require.NoError(t, cloud.Set(ctx, "b", []byte("2")))

	snap, err := Snapshot(ctx, cloud)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, snap)

	snap, err = Snapshot(ctx, cloud, "b", "missing")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"b": []byte("2")}, snap)

	cloud.SetOnline(false)
	assert.False(t, cloud.Online())
	_, err = Snapshot(ctx, cloud)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, cloud.Set(ctx, "c", nil), ErrUnavailable)

	cloud.SetOnline(true)
	_, ok, err := cloud.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetWithDefaults(t *testing.T) {
	insets := FixedSafeArea{Top: 44, Bottom: 34}
	s := Set{SafeArea: insets}.WithDefaults()
	assert.NotNil(t, s.Camera)
	assert.NotNil(t, s.Clipboard)
	assert.NotNil(t, s.Haptics)
	assert.NotNil(t, s.Cloud)
	assert.Equal(t, Insets{Top: 44, Bottom: 34}, s.SafeArea.Insets())

	pad := s.SafeArea.Insets().Padding()
	assert.Equal(t, float32(44), pad.Top)
	assert.Equal(t, float32(34), pad.Bottom)
	assert.True(t, Insets{}.IsZero())
}
