package queue

import (
	"context"
	"fmt"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/internal/services/processor"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	inputPrefix  = "uploads"
	outputPrefix = "converted"
)

// JobStore persists job records and the files a job reads and writes.
type JobStore interface {
	SaveJob(ctx context.Context, job *models.ConversionJob) error
	GetJob(ctx context.Context, id string) (*models.ConversionJob, error)
	Upload(ctx context.Context, data []byte, prefix, filename string) (*models.StoredObject, error)
	UploadMultiple(ctx context.Context, prefix string, files []models.UploadedFile) ([]models.StoredObject, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

type QueueService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
	converter *processor.Converter
	storage   JobStore
}

func NewQueueService(
	rabbitmqURL string,
	queueName string,
	prefetch int,
	converter *processor.Converter,
	storage JobStore,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if prefetch > 0 {
		if err := channel.Qos(prefetch, 0, false); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to set prefetch: %w", err)
		}
	}

	return &QueueService{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: queueName,
		converter: converter,
		storage:   storage,
	}, nil
}

// Submit stores the uploaded files, records a pending job and enqueues it.
func (q *QueueService) Submit(ctx context.Context, files []models.UploadedFile, format models.Format, quality int) (*models.ConversionJob, error) {
	if len(files) == 0 {
		return nil, processor.ErrNoFiles
	}

	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", processor.ErrInvalidFormat, format)
	}

	job := models.NewConversionJob(format, quality)

	stored, err := q.storage.UploadMultiple(ctx, inputPrefix+"/"+job.ID, files)
	if err != nil {
		if len(stored) == 0 {
			return nil, fmt.Errorf("failed to store job inputs: %w", err)
		}
		q.logger.Warn("Some job inputs were not stored", zap.String("job_id", job.ID), zap.Error(err))
	}

	for _, obj := range stored {
		job.Inputs = append(job.Inputs, models.JobInput{Filename: obj.Name, Key: obj.Key})
	}

	if err := q.storage.SaveJob(ctx, job); err != nil {
		return nil, err
	}

	if err := q.PublishJob(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// GetJob returns nil, nil for an unknown id.
func (q *QueueService) GetJob(ctx context.Context, id string) (*models.ConversionJob, error) {
	return q.storage.GetJob(ctx, id)
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}
