package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func (q *QueueService) StartWorker(ctx context.Context, workerID int) error {
	msgs, err := q.channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Worker started", zap.Int("worker_id", workerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
					return
				}

				q.processMessage(ctx, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *QueueService) processMessage(ctx context.Context, msg amqp.Delivery, workerID int) {
	var job models.ConversionJob
	if err := json.Unmarshal(msg.Body, &job); err != nil || job.ID == "" {
		q.logger.Error("Failed to unmarshal job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // Don't requeue malformed messages
		return
	}

	q.logger.Info("Processing job",
		zap.String("job_id", job.ID),
		zap.Int("worker_id", workerID))

	job.SetStatus(models.StatusProcessing)
	q.storeJob(ctx, &job)

	results, err := q.processJob(ctx, &job)
	if err != nil {
		job.Error = err.Error()
		job.SetStatus(models.StatusFailed)
		q.logger.Error("Job processing failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	} else {
		job.Results = results
		job.SetStatus(models.StatusCompleted)
		q.logger.Info("Job completed successfully",
			zap.String("job_id", job.ID),
			zap.Int("results", len(results)))
	}

	q.storeJob(ctx, &job)

	if err := msg.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

func (q *QueueService) storeJob(ctx context.Context, job *models.ConversionJob) {
	if err := q.storage.SaveJob(ctx, job); err != nil {
		q.logger.Warn("Failed to store job",
			zap.String("job_id", job.ID),
			zap.String("status", job.Status),
			zap.Error(err))
	}
}
