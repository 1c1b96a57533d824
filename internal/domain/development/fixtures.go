package development

import (
	"context"
	"time"
)

// SeedMemory loads the sample development plan the in-memory backend starts
// with. IDs match the directory fixtures.
func SeedMemory(ctx context.Context, store *MemoryStore) error {
	now := time.Now().UTC()

	goals := []Goal{
		{
			ID:          "g-cert-cloud",
			OwnerID:     "u-ana",
			Title:       "Obtain cloud architecture certification",
			Description: "Complete the certification track and pass the associate exam.",
			Category:    CategoryTechnical,
			Status:      StatusInProgress,
			Priority:    PriorityHigh,
			DueDate:     now.AddDate(0, 4, 0),
			Progress:    40,
			CreatedAt:   now.AddDate(0, -2, 0),
			Comments: []Comment{
				{
					ID:         "c-cert-1",
					AuthorID:   "u-joao",
					AuthorName: "Joao Santos",
					Text:       "Good pace. Let's review the mock exam results in our next 1:1.",
					CreatedAt:  now.AddDate(0, 0, -7),
				},
			},
		},
		{
			ID:          "g-presentations",
			OwnerID:     "u-ana",
			Title:       "Improve presentation skills",
			Description: "Present at least two tech talks to the engineering guild.",
			Category:    CategoryBehavioral,
			Status:      StatusPlanned,
			Priority:    PriorityMedium,
			DueDate:     now.AddDate(0, 6, 0),
			Progress:    0,
			CreatedAt:   now.AddDate(0, -1, 0),
			Comments:    []Comment{},
		},
	}

	for _, goal := range goals {
		if err := store.Insert(ctx, goal); err != nil {
			return err
		}
	}
	return nil
}
