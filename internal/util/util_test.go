package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coursehub_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError_StatusMapping(t *testing.T) {
	cases := map[string]struct {
		err  error
		code int
	}{
		"record not found": {gorm.ErrRecordNotFound, http.StatusNotFound},
		"domain not found": {ErrQuizNotFound, http.StatusNotFound},
		"validation":       {Validationf("title is required"), http.StatusBadRequest},
		"duplicate key":    {gorm.ErrDuplicatedKey, http.StatusConflict},
		"already enrolled": {ErrAlreadyEnrolled, http.StatusConflict},
		"wrapped conflict": {fmt.Errorf("enroll: %w", ErrAlreadyEnrolled), http.StatusConflict},
		"not enrolled":     {ErrNotEnrolled, http.StatusForbidden},
		"not owner":        {ErrNotOwner, http.StatusForbidden},
		"bad credentials":  {ErrInvalidCredentials, http.StatusUnauthorized},
		"unknown":          {errors.New("boom"), http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tc.err)

			assert.Equal(t, tc.code, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestSentinelMessagesShareFamilyPrefix(t *testing.T) {
	sentinels := map[error]error{
		ErrUserNotFound:       ErrNotFound,
		ErrInstructorNotFound: ErrNotFound,
		ErrCourseNotFound:     ErrNotFound,
		ErrEmailRegistered:    ErrConflict,
		ErrAlreadyEnrolled:    ErrConflict,
		ErrCategoryInUse:      ErrConflict,
		ErrNotEnrolled:        ErrPermissionDenied,
		ErrNotOwner:           ErrPermissionDenied,
	}
	for err, family := range sentinels {
		msg := err.Error()
		assert.True(t, strings.HasPrefix(msg, family.Error()+": "), msg)
		for _, r := range msg {
			assert.Less(t, r, rune(128), msg)
		}
	}

	assert.Equal(t, "resource not found: user", ErrUserNotFound.Error())
	assert.Equal(t, "conflict: email already registered", ErrEmailRegistered.Error())
}

func TestParseProbeOutput(t *testing.T) {
	out := `{"streams":[{"codec_type":"audio"},{"codec_type":"video","width":1280,"height":720}],` +
		`"format":{"duration":"12.5","size":"2048","format_name":"mov,mp4,m4a"}}`

	info, err := parseProbeOutput(out, 99)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, info.Duration, 0.0001)
	assert.Equal(t, 1280, info.Width)
	assert.Equal(t, 720, info.Height)
	assert.Equal(t, "mov", info.Format)
	assert.EqualValues(t, 2048, info.Size)

	info, err = parseProbeOutput(`{"streams":[],"format":{}}`, 99)
	require.NoError(t, err)
	assert.Equal(t, "unknown", info.Format)
	assert.EqualValues(t, 99, info.Size)
	assert.Zero(t, info.Duration)

	_, err = parseProbeOutput("not json", 0)
	assert.Error(t, err)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResizeThumbnail(t *testing.T) {
	out, err := ResizeThumbnail(bytes.NewReader(encodePNG(t, 1600, 400)), ThumbnailWidth)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, ThumbnailWidth, cfg.Width)
	assert.Equal(t, 160, cfg.Height)

	// 小图不放大
	out, err = ResizeThumbnail(bytes.NewReader(encodePNG(t, 200, 100)), ThumbnailWidth)
	require.NoError(t, err)
	cfg, _, err = image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)

	_, err = ResizeThumbnail(strings.NewReader("garbage"), ThumbnailWidth)
	assert.Error(t, err)
}

func TestFileChecks(t *testing.T) {
	assert.True(t, HasAllowedExtension("Cover.PNG", AllowedImageExtensions))
	assert.False(t, HasAllowedExtension("cover.exe", AllowedImageExtensions))
	assert.True(t, HasAllowedExtension("lesson.mp4", AllowedVideoExtensions))

	mime, err := ValidateMimeType(bytes.NewReader(encodePNG(t, 4, 4)), []string{MimeImage})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = ValidateMimeType(strings.NewReader("just some text"), []string{MimeImage})
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "ada@example.com", Role: model.Instructor}
	user.ID = 42

	token, err := GenerateJWT(user, "k1", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "k1")
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)
	assert.False(t, claims.IsAdmin())

	_, err = ParseJWT(token, "other-key")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "k1", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "k1")
	assert.Error(t, err)
}
