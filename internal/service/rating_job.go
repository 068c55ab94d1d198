package service

import (
	"context"
	"coursehub_backend/internal/repository"
	"coursehub_backend/pkg/logger"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RatingJob 定期按评价表重算所有课程均分，修正并发写入可能留下的偏差
type RatingJob struct {
	CourseRepo *repository.CourseRepository
	schedule   string
	cron       *cron.Cron
}

func NewRatingJob(courseRepo *repository.CourseRepository, schedule string) *RatingJob {
	return &RatingJob{
		CourseRepo: courseRepo,
		schedule:   schedule,
	}
}

func (j *RatingJob) Start() error {
	j.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	logger.Log.Info("Rating recompute job scheduled", zap.String("schedule", j.schedule))
	return nil
}

// Stop 返回的 ctx 在正在运行的任务结束后关闭
func (j *RatingJob) Stop() context.Context {
	if j.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return j.cron.Stop()
}

func (j *RatingJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	n, err := j.CourseRepo.RecomputeAllRatings(ctx)
	if err != nil {
		logger.Log.Error("Rating recompute failed", zap.Error(err))
		return
	}
	logger.Log.Info("Rating recompute finished",
		zap.Int64("courses", n),
		zap.Duration("took", time.Since(start)),
	)
}
