package service

import (
	"context"
	"testing"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLectureService_PlayerAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewLectureService(repository.NewLectureRepository(env.db), env.access, nil)

	owner, inst := testutil.SeedInstructor(t, env.db, "lec-owner@example.com")
	course := testutil.SeedCourse(t, env.db, inst.ID, "Go", "0")
	preview := testutil.SeedLecture(t, env.db, course.ID, "Trailer", 1, true)
	locked := testutil.SeedLecture(t, env.db, course.ID, "Deep dive", 2, false)
	student := testutil.SeedUser(t, env.db, "lec-student@example.com", model.Student)

	_, err := svc.GetForPlayer(ctx, Viewer{}, preview.ID)
	assert.NoError(t, err)

	_, err = svc.GetForPlayer(ctx, Viewer{}, locked.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = svc.GetForPlayer(ctx, Viewer{UserID: owner.ID, Role: model.Instructor}, locked.ID)
	assert.NoError(t, err)

	testutil.SeedEnrollment(t, env.db, student.ID, course.ID, "0")
	_, err = svc.GetForPlayer(ctx, Viewer{UserID: student.ID, Role: model.Student}, locked.ID)
	assert.NoError(t, err)

	_, err = svc.GetForPlayer(ctx, Viewer{}, 9999)
	assert.ErrorIs(t, err, util.ErrLectureNotFound)
}

func TestLectureService_OwnerOnlyWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewLectureService(repository.NewLectureRepository(env.db), env.access, nil)

	owner, inst := testutil.SeedInstructor(t, env.db, "lec-w@example.com")
	other, _ := testutil.SeedInstructor(t, env.db, "lec-w-other@example.com")
	course := testutil.SeedCourse(t, env.db, inst.ID, "Go", "0")
	ownerView := Viewer{UserID: owner.ID, Role: model.Instructor}

	lecture, err := svc.Create(ctx, ownerView, LectureInput{CourseID: course.ID, Title: " Setup ", Order: 1})
	require.NoError(t, err)
	assert.Equal(t, "Setup", lecture.Title)

	_, err = svc.Create(ctx, Viewer{UserID: other.ID, Role: model.Instructor}, LectureInput{CourseID: course.ID, Title: "X", Order: 2})
	assert.ErrorIs(t, err, util.ErrNotOwner)

	_, err = svc.Create(ctx, ownerView, LectureInput{CourseID: course.ID, Title: "X", Order: 0})
	assert.ErrorIs(t, err, util.ErrValidation)

	updated, err := svc.Update(ctx, ownerView, lecture.ID, LectureInput{CourseID: 12345, Title: "Setup v2", Order: 3})
	require.NoError(t, err)
	assert.Equal(t, course.ID, updated.CourseID)
	assert.Equal(t, 3, updated.Order)

	require.NoError(t, svc.Delete(ctx, ownerView, lecture.ID))
	assert.ErrorIs(t, svc.Delete(ctx, ownerView, lecture.ID), util.ErrLectureNotFound)
}

func TestUserService_ProfileAndPassword(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s", ExpireTime: time.Hour}}
	auth := NewAuthService(users, cfg)
	svc := NewUserService(users)

	u, err := auth.Register(ctx, RegisterInput{Name: "Lin", Email: "lin@example.com", Password: "first-pass"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: "Lin W"})
	require.NoError(t, err)
	assert.Equal(t, "Lin W", updated.Name)

	err = svc.ChangePassword(ctx, u.ID, ChangePasswordInput{OldPassword: "wrong", NewPassword: "second-pass"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, ChangePasswordInput{OldPassword: "first-pass", NewPassword: "second-pass"}))
	_, err = auth.Login(ctx, "lin@example.com", "first-pass")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "lin@example.com", "second-pass")
	assert.NoError(t, err)

	_, err = svc.GetProfile(ctx, 9999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestInstructorService_Update(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := NewInstructorService(repository.NewInstructorRepository(db))

	owner, profile := testutil.SeedInstructor(t, db, "bio@example.com")
	stranger := testutil.SeedUser(t, db, "bio-stranger@example.com", model.Student)

	_, err := svc.Update(ctx, Viewer{UserID: stranger.ID, Role: model.Student}, profile.ID, UpdateInstructorInput{Bio: "x"})
	assert.ErrorIs(t, err, util.ErrNotOwner)

	p, err := svc.Update(ctx, Viewer{UserID: owner.ID, Role: model.Instructor}, profile.ID, UpdateInstructorInput{Bio: "Gopher", ExperienceYears: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, p.ExperienceYears)

	mine, err := svc.GetByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gopher", mine.Bio)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, util.ErrInstructorNotFound)
}

func TestInstructorService_AdminPromoteAndRemove(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := NewInstructorService(repository.NewInstructorRepository(db))
	users := NewUserService(repository.NewUserRepository(db))

	student := testutil.SeedUser(t, db, "promote@example.com", model.Student)

	_, err := svc.Create(ctx, CreateInstructorInput{UserID: 9999})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	_, err = svc.Create(ctx, CreateInstructorInput{UserID: student.ID, ExperienceYears: -1})
	assert.ErrorIs(t, err, util.ErrValidation)

	p, err := svc.Create(ctx, CreateInstructorInput{UserID: student.ID, Bio: "New", ExperienceYears: 2})
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	require.NotNil(t, p.User)
	assert.Equal(t, model.Instructor, p.User.Role)

	_, err = svc.Create(ctx, CreateInstructorInput{UserID: student.ID})
	assert.ErrorIs(t, err, util.ErrAlreadyInstructor)

	course := testutil.SeedCourse(t, db, p.ID, "Taught", "0")
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), util.ErrInstructorInUse)

	require.NoError(t, db.Delete(&model.Course{}, course.ID).Error)
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, util.ErrInstructorNotFound)
	u, err := users.GetProfile(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Student, u.Role)
	assert.Nil(t, u.InstructorProfile)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), util.ErrInstructorNotFound)
}

func TestUserService_List(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := NewUserService(repository.NewUserRepository(db))

	a := testutil.SeedUser(t, db, "list-a@example.com", model.Student)
	b, _ := testutil.SeedInstructor(t, db, "list-b@example.com")

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
	assert.Nil(t, users[0].InstructorProfile)
	assert.Equal(t, b.ID, users[1].ID)
	assert.NotNil(t, users[1].InstructorProfile)
}

func TestLectureService_ListAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewLectureService(repository.NewLectureRepository(env.db), env.access, nil)

	_, inst := testutil.SeedInstructor(t, env.db, "all-lec@example.com")
	first := testutil.SeedCourse(t, env.db, inst.ID, "First", "0")
	second := testutil.SeedCourse(t, env.db, inst.ID, "Second", "0")
	testutil.SeedLecture(t, env.db, second.ID, "B1", 1, false)
	testutil.SeedLecture(t, env.db, first.ID, "A2", 2, false)
	testutil.SeedLecture(t, env.db, first.ID, "A1", 1, true)

	lectures, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, lectures, 3)
	assert.Equal(t, []string{"A1", "A2", "B1"}, []string{lectures[0].Title, lectures[1].Title, lectures[2].Title})
}

func TestContactService(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := NewContactService(repository.NewContactRepository(db))

	_, err := svc.Create(ctx, ContactInput{Name: "A", Email: "not-an-email", Message: "hi"})
	assert.ErrorIs(t, err, util.ErrValidation)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, ContactInput{Name: " A ", Email: "a@example.com", Message: " hello "})
		require.NoError(t, err)
	}

	rows, total, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 2)
	assert.Equal(t, "hello", rows[0].Message)
}

func TestRatingJob(t *testing.T) {
	db := testutil.DB(t)
	job := NewRatingJob(repository.NewCourseRepository(db), "not a schedule")
	assert.Error(t, job.Start())

	select {
	case <-job.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("stop did not return a finished context")
	}

	job = NewRatingJob(repository.NewCourseRepository(db), "@every 1h")
	require.NoError(t, job.Start())
	job.Run()
	<-job.Stop().Done()
}
