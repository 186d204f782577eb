package queue

import (
	"context"
	"errors"

	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/internal/services/archive"
	"github.com/phambaophuc/webp-converter/pkg/utils"
	"go.uber.org/zap"
)

var errNoInputs = errors.New("no job inputs could be downloaded")

// processJob converts the job's stored inputs and uploads each result. Inputs
// that fail to download, convert or upload are skipped, matching the
// synchronous endpoint.
func (q *QueueService) processJob(ctx context.Context, job *models.ConversionJob) ([]models.JobResult, error) {
	files := make([]models.UploadedFile, 0, len(job.Inputs))
	inputKeys := make([]string, 0, len(job.Inputs))

	for _, input := range job.Inputs {
		inputKeys = append(inputKeys, input.Key)

		data, err := q.storage.Download(ctx, input.Key)
		if err != nil {
			q.logger.Warn("Failed to download job input",
				zap.String("job_id", job.ID),
				zap.String("key", input.Key),
				zap.Error(err))
			continue
		}
		files = append(files, models.UploadedFile{Filename: input.Filename, Data: data})
	}

	if len(files) == 0 {
		return nil, errNoInputs
	}

	images, err := q.converter.ConvertBatch(ctx, &models.ConversionRequest{
		Files:   files,
		Format:  job.Format,
		Quality: job.Quality,
	})
	if err != nil {
		return nil, err
	}

	results := make([]models.JobResult, 0, len(images))
	for _, img := range images {
		data, _, err := utils.DecodeDataURI(img.ConvertedURL)
		if err != nil {
			q.logger.Warn("Failed to decode converted image", zap.String("file", img.OriginalName), zap.Error(err))
			continue
		}

		obj, err := q.storage.Upload(ctx, data, outputPrefix+"/"+job.ID, archive.EntryName(img.OriginalName, img.Format))
		if err != nil {
			q.logger.Warn("Failed to upload converted image", zap.String("file", img.OriginalName), zap.Error(err))
			continue
		}

		results = append(results, models.JobResult{
			OriginalName: img.OriginalName,
			URL:          obj.URL,
			Key:          obj.Key,
			Format:       img.Format,
			Size:         img.Size,
		})
	}

	if err := q.storage.Delete(ctx, inputKeys...); err != nil {
		q.logger.Warn("Failed to remove job inputs", zap.String("job_id", job.ID), zap.Error(err))
	}

	return results, nil
}
