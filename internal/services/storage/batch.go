package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/phambaophuc/webp-converter/internal/models"
)

const uploadWorkers = 5

// UploadMultiple uploads files concurrently. On partial failure it returns the
// objects that were stored, in input order, together with an error listing the rest.
func (s *StorageService) UploadMultiple(ctx context.Context, prefix string, files []models.UploadedFile) ([]models.StoredObject, error) {
	if len(files) == 0 {
		return []models.StoredObject{}, nil
	}

	objects := make([]*models.StoredObject, len(files))
	errs := make([]error, len(files))

	numWorkers := uploadWorkers
	if len(files) < numWorkers {
		numWorkers = len(files)
	}

	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				objects[i], errs[i] = s.Upload(ctx, files[i].Data, prefix, files[i].Filename)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	var failedUploads []string
	stored := make([]models.StoredObject, 0, len(files))

	for i, err := range errs {
		if err != nil {
			failedUploads = append(failedUploads, fmt.Sprintf("%s: %v", files[i].Filename, err))
			continue
		}
		stored = append(stored, *objects[i])
	}

	if len(failedUploads) > 0 {
		return stored, fmt.Errorf("failed to upload %d files: %s",
			len(failedUploads), strings.Join(failedUploads, "; "))
	}

	return stored, nil
}
