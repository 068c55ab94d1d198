package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	svc := NewAuthService(repository.NewUserRepository(db), cfg)

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1", Role: "instructor"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, model.Instructor, user.Role)
	assert.NotEqual(t, "secret1", user.Password)

	var profiles int64
	db.Model(&model.InstructorProfile{}).Where("user_id = ?", user.ID).Count(&profiles)
	assert.EqualValues(t, 1, profiles)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada2", Email: "ada@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = svc.Register(ctx, RegisterInput{Name: "Root", Email: "root@example.com", Password: "secret1", Role: "admin"})
	assert.ErrorIs(t, err, util.ErrValidation)

	res, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	claims, err := util.ParseJWT(res.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestNoteService_SaveTwiceKeepsOneRow(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := NewNoteService(repository.NewNoteRepository(db), repository.NewLectureRepository(db))

	student := testutil.SeedUser(t, db, "note-svc@example.com", model.Student)
	_, inst := testutil.SeedInstructor(t, db, "note-svc-inst@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Go", "0")
	lecture := testutil.SeedLecture(t, db, course.ID, "Intro", 1, false)

	note, created, err := svc.SaveNote(ctx, student.ID, SaveNoteInput{LectureID: lecture.ID, Content: "v1"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.SaveNote(ctx, student.ID, SaveNoteInput{LectureID: lecture.ID, Content: "v2"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, note.ID, again.ID)

	got, err := svc.GetNote(ctx, student.ID, lecture.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)

	_, _, err = svc.SaveNote(ctx, student.ID, SaveNoteInput{LectureID: 9999, Content: "x"})
	assert.ErrorIs(t, err, util.ErrLectureNotFound)

	_, _, err = svc.SaveNote(ctx, student.ID, SaveNoteInput{LectureID: lecture.ID, Content: strings.Repeat("a", util.MaxNoteLength+1)})
	assert.ErrorIs(t, err, util.ErrValidation)

	// 按字符计数，多字节内容在上限内可保存
	_, _, err = svc.SaveNote(ctx, student.ID, SaveNoteInput{LectureID: lecture.ID, Content: strings.Repeat("笔", util.MaxNoteLength)})
	require.NoError(t, err)
	_, _, err = svc.SaveNote(ctx, student.ID, SaveNoteInput{LectureID: lecture.ID, Content: strings.Repeat("笔", util.MaxNoteLength+1)})
	assert.ErrorIs(t, err, util.ErrValidation)

	require.NoError(t, svc.DeleteNote(ctx, student.ID, lecture.ID))
	_, err = svc.GetNote(ctx, student.ID, lecture.ID)
	assert.ErrorIs(t, err, util.ErrNoteNotFound)
}

func TestReviewService_AverageAndOwnership(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	courses := repository.NewCourseRepository(db)
	svc := NewReviewService(repository.NewReviewRepository(db), courses)

	_, inst := testutil.SeedInstructor(t, db, "rev-inst@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Go", "0")
	alice := testutil.SeedUser(t, db, "alice@example.com", model.Student)
	bob := testutil.SeedUser(t, db, "bob@example.com", model.Student)

	ra, err := svc.Create(ctx, alice.ID, ReviewInput{CourseID: course.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob.ID, ReviewInput{CourseID: course.ID, Rating: 3})
	require.NoError(t, err)

	c, err := courses.FindBrief(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, c.AverageRating)
	assert.InDelta(t, 4.0, *c.AverageRating, 0.001)

	_, err = svc.Create(ctx, alice.ID, ReviewInput{CourseID: course.ID, Rating: 4})
	assert.ErrorIs(t, err, util.ErrAlreadyReviewed)

	_, err = svc.Create(ctx, alice.ID, ReviewInput{CourseID: course.ID, Rating: 6})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.Update(ctx, Viewer{UserID: bob.ID, Role: model.Student}, ra.ID, ReviewInput{Rating: 1})
	assert.ErrorIs(t, err, util.ErrNotOwner)

	_, err = svc.Update(ctx, Viewer{UserID: alice.ID, Role: model.Student}, ra.ID, ReviewInput{Rating: 1})
	require.NoError(t, err)
	c, _ = courses.FindBrief(ctx, course.ID)
	assert.InDelta(t, 2.0, *c.AverageRating, 0.001)

	require.NoError(t, svc.Delete(ctx, Viewer{UserID: 1, Role: model.Admin}, ra.ID))
	c, _ = courses.FindBrief(ctx, course.ID)
	assert.InDelta(t, 3.0, *c.AverageRating, 0.001)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	assert.Equal(t, bob.ID, all[0].User.ID)

	got, err := svc.Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Rating)

	_, err = svc.Get(ctx, ra.ID)
	assert.ErrorIs(t, err, util.ErrReviewNotFound)
}

func TestCategoryService_Conflicts(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	cat, err := svc.Create(ctx, CategoryInput{Name: "  Data  "})
	require.NoError(t, err)
	assert.Equal(t, "Data", cat.Name)

	_, err = svc.Create(ctx, CategoryInput{Name: "Data"})
	assert.ErrorIs(t, err, util.ErrConflict)

	_, err = svc.Update(ctx, cat.ID, CategoryInput{Name: "Programming"})
	assert.ErrorIs(t, err, util.ErrCategoryExists)

	_, err = svc.Update(ctx, cat.ID, CategoryInput{Name: "Data"})
	assert.NoError(t, err)

	_, inst := testutil.SeedInstructor(t, db, "cat-svc@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Go", "0")
	assert.ErrorIs(t, svc.Delete(ctx, course.CategoryID), util.ErrCategoryInUse)

	require.NoError(t, svc.Delete(ctx, cat.ID))
	assert.ErrorIs(t, svc.Delete(ctx, cat.ID), util.ErrCategoryNotFound)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCourseService_CreateAndThumbnail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := t.TempDir()

	courseRepo := repository.NewCourseRepository(env.db)
	svc := NewCourseService(
		courseRepo,
		repository.NewCategoryRepository(env.db),
		repository.NewInstructorRepository(env.db),
		env.access,
		NewStorageService(ctx, &config.StorageConfig{Type: util.StorageLocal, LocalPath: root}),
		env.quizzes,
	)

	owner, inst := testutil.SeedInstructor(t, env.db, "thumb@example.com")
	stranger, _ := testutil.SeedInstructor(t, env.db, "thumb-other@example.com")
	ownerView := Viewer{UserID: owner.ID, Role: model.Instructor}

	var cat model.Category
	require.NoError(t, env.db.First(&cat).Error)

	course, err := svc.Create(ctx, ownerView, CourseInput{Title: "Images", Price: decimal.RequireFromString("9.99"), CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, inst.ID, course.InstructorID)

	_, err = svc.Create(ctx, ownerView, CourseInput{Title: "Bad", CategoryID: 9999})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.UploadThumbnail(ctx, Viewer{UserID: stranger.ID, Role: model.Instructor}, course.ID, "a.png", bytes.NewReader(pngBytes(t, 10, 10)))
	assert.ErrorIs(t, err, util.ErrNotOwner)

	_, err = svc.UploadThumbnail(ctx, ownerView, course.ID, "a.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.UploadThumbnail(ctx, ownerView, course.ID, "fake.png", strings.NewReader("plain text, not an image"))
	assert.ErrorIs(t, err, util.ErrValidation)

	url, err := svc.UploadThumbnail(ctx, ownerView, course.ID, "cover.png", bytes.NewReader(pngBytes(t, 1280, 720)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/courses/"))

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/"))))
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, util.ThumbnailWidth, cfg.Width)
	assert.Equal(t, 360, cfg.Height)

	reloaded, err := courseRepo.FindBrief(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, url, reloaded.ImageURL)

	// 删除课程同时清掉测验列表缓存
	_, err = env.quizzes.CreateQuiz(ctx, ownerView, sampleQuizInput(course.ID, "Q", 1))
	require.NoError(t, err)
	_, err = env.quizzes.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.True(t, env.mr.Exists(quizListKey(course.ID)))

	require.NoError(t, svc.Delete(ctx, ownerView, course.ID))
	assert.False(t, env.mr.Exists(quizListKey(course.ID)))
	_, err = svc.Get(ctx, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
