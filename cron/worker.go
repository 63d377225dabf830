// Package cron hosts the background halves of the engine: the async chat
// worker that runs the agent pipeline off the webhook path, and the expired
// lock sweeper.
package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"bookwala/config"
	"bookwala/services/agent"
	"bookwala/services/whatsapp"
	"bookwala/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeChatProcess = "chat:process"

// ChatPayload is the queued form of one accepted inbound message.
type ChatPayload struct {
	Phone     string `json:"phone"`
	Text      string `json:"text"`
	MessageID string `json:"message_id"`
}

func queueOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewChatEnqueuer builds the client the webhook handler enqueues through.
func NewChatEnqueuer() *asynq.Client {
	return asynq.NewClient(queueOpts())
}

// NewChatTask wraps an inbound message for the queue.
func NewChatTask(p ChatPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeChatProcess, data), nil
}

// InitChatWorker runs the async chat worker in background.
func InitChatWorker(ag *agent.Agent, sender whatsapp.Sender) {
	srv := asynq.NewServer(
		queueOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeChatProcess, handleChatTask(ag, sender))

	go func() {
		log.Println("[ChatWorker] starting async worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ChatWorker] attempt %d/%d failed: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[ChatWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleChatTask(ag *agent.Agent, sender whatsapp.Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ChatPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("chat task payload invalid", zap.Error(err))
			return err
		}

		reply, err := ag.HandleMessage(ctx, p.Phone, p.Text)
		if err != nil {
			utils.GetLogger().Error("chat turn failed",
				zap.String("phone", p.Phone), zap.String("messageId", p.MessageID), zap.Error(err))
			return err
		}
		if reply == "" {
			return nil
		}

		// Dispatch means the provider accepted the send; a failed send is
		// logged inside the client and not retried here, since re-running the
		// whole turn could double-book.
		if err := sender.Send(ctx, p.Phone, reply); err != nil {
			utils.GetLogger().Warn("reply dispatch failed",
				zap.String("phone", p.Phone), zap.Error(err))
		}
		return nil
	}
}
