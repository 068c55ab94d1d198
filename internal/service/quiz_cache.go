package service

import (
	"context"
	"coursehub_backend/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const quizListKeyPrefix = "coursehub:quizzes:course:"

// QuizCache 课程测验列表缓存；client 为 nil 时所有操作都是空操作
type QuizCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuizCache(client *redis.Client, ttl time.Duration) *QuizCache {
	return &QuizCache{client: client, ttl: ttl}
}

func quizListKey(courseID uint) string {
	return fmt.Sprintf("%s%d", quizListKeyPrefix, courseID)
}

// quizGenKey 每次失效递增，用于拒绝失效前读出的旧列表回写
func quizGenKey(courseID uint) string {
	return quizListKey(courseID) + ":gen"
}

func (c *QuizCache) Enabled() bool {
	return c != nil && c.client != nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGen(ctx context.Context, cmd stringGetter, courseID uint) (int64, error) {
	gen, err := cmd.Get(ctx, quizGenKey(courseID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get 返回缓存列表、读取时的代数以及是否命中
func (c *QuizCache) Get(ctx context.Context, courseID uint) ([]model.QuizSummary, int64, bool, error) {
	if !c.Enabled() {
		return nil, 0, false, nil
	}
	gen, err := readGen(ctx, c.client, courseID)
	if err != nil {
		return nil, 0, false, err
	}
	data, err := c.client.Get(ctx, quizListKey(courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var rows []model.QuizSummary
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, false, err
	}
	return rows, gen, true, nil
}

// Set 仅当代数仍等于 gen 时写入，否则静默放弃
func (c *QuizCache) Set(ctx context.Context, courseID uint, gen int64, rows []model.QuizSummary) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	genKey := quizGenKey(courseID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGen(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, quizListKey(courseID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *QuizCache) Invalidate(ctx context.Context, courseID uint) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, quizGenKey(courseID))
		pipe.Del(ctx, quizListKey(courseID))
		return nil
	})
	return err
}
