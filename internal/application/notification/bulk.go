package notification

import (
	"context"
	"log"

	"github.com/go-notify-api/internal/domain"
)

type bulkOutcome struct {
	created bool
	err     error
}

// CreateBulk fans the template out to every user in fixed-size batches. Users
// within a batch run concurrently (batch size caps the parallelism); batches
// run sequentially. One user's failure never aborts its siblings: it counts
// as skipped, as does settings suppression, so Created+Skipped always equals
// len(UserIDs).
func (s *service) CreateBulk(ctx context.Context, req domain.CreateBulkRequest) (*domain.BulkResult, error) {
	result := &domain.BulkResult{}

	for start := 0; start < len(req.UserIDs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(req.UserIDs) {
			end = len(req.UserIDs)
		}
		batch := req.UserIDs[start:end]

		outcomes := make(chan bulkOutcome, len(batch))
		for _, userID := range batch {
			go func(userID string) {
				n, err := s.Create(ctx, domain.CreateNotificationRequest{
					UserID:    userID,
					Type:      req.Template.Type,
					Title:     req.Template.Title,
					Message:   req.Template.Message,
					Priority:  req.Template.Priority,
					Metadata:  req.Template.Metadata,
					Channels:  req.Template.Channels,
					ExpiresAt: req.Template.ExpiresAt,
				})
				if err != nil {
					log.Printf("WARN: bulk notification for user %s: %v", userID, err)
					outcomes <- bulkOutcome{err: err}
					return
				}
				outcomes <- bulkOutcome{created: n != nil}
			}(userID)
		}

		for range batch {
			out := <-outcomes
			switch {
			case out.err != nil:
				result.Skipped++
				result.Failed++
			case out.created:
				result.Created++
			default:
				result.Skipped++
			}
		}
	}

	return result, nil
}
