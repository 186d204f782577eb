package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func (q *QueueService) PublishJob(ctx context.Context, job *models.ConversionJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         jobBytes,
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published to queue", zap.String("job_id", job.ID), zap.Int("inputs", len(job.Inputs)))
	return nil
}
