package directory

import (
	"context"

	"thrive/internal/domain/auth"
)

// Fixtures returns the development users loaded into the in-memory backend.
// IDs are fixed so the sample goals and meetings can reference them.
func Fixtures(password string) ([]Record, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return []Record{
		{
			User: User{
				ID:         "u-ana",
				Name:       "Ana Oliveira",
				Email:      "ana@example.com",
				Role:       auth.RoleEmployee,
				Department: "Engineering",
				Position:   "Software Engineer",
				ManagerID:  "u-joao",
			},
			PasswordHash: hash,
		},
		{
			User: User{
				ID:         "u-maria",
				Name:       "Maria Silva",
				Email:      "maria@example.com",
				Role:       auth.RoleEmployee,
				Department: "Engineering",
				Position:   "QA Analyst",
				ManagerID:  "u-joao",
			},
			PasswordHash: hash,
		},
		{
			User: User{
				ID:            "u-joao",
				Name:          "Joao Santos",
				Email:         "joao@example.com",
				Role:          auth.RoleManager,
				Department:    "Engineering",
				Position:      "Engineering Manager",
				TeamMemberIDs: []string{"u-ana", "u-maria"},
			},
			PasswordHash: hash,
		},
		{
			User: User{
				ID:         "u-carla",
				Name:       "Carla Mendes",
				Email:      "carla@example.com",
				Role:       auth.RoleAdmin,
				Department: "People",
				Position:   "Head of People",
			},
			PasswordHash: hash,
		},
	}, nil
}

func SeedMemory(ctx context.Context, store *MemoryStore, password string) error {
	records, err := Fixtures(password)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := store.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
