// Package queue hands finalize requests to an asynq (redis) queue and runs
// the worker that drains it.
package queue

import (
	"crypto/tls"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskFinalizeLead carries a verbatim copy of a finalize webhook body.
const TaskFinalizeLead = "lead.finalize"

// SecretHeader authenticates calls to the worker endpoint.
const SecretHeader = "X-Worker-Secret"

// ErrNotConfigured is returned when no redis URL is set.
var ErrNotConfigured = errors.New("queue not configured")

// NewFinalizeTask wraps body without re-encoding it.
func NewFinalizeTask(body []byte) *asynq.Task {
	return asynq.NewTask(TaskFinalizeLead, append([]byte(nil), body...))
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		tlsConfig = opt.TLSConfig.Clone()
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
