package directory

import "context"

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	return rec.User, nil
}

func (s *Service) GetRecordByEmail(ctx context.Context, email string) (Record, error) {
	return s.store.GetByEmail(ctx, email)
}

func (s *Service) GetRecord(ctx context.Context, id string) (Record, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.User)
	}
	return out, nil
}

// IsManagerOf reports whether managerID directly manages userID.
func (s *Service) IsManagerOf(ctx context.Context, managerID, userID string) (bool, error) {
	rec, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return rec.ManagerID == managerID, nil
}

// ManagerID resolves the direct manager of a user, "" when there is none.
func (s *Service) ManagerID(ctx context.Context, userID string) (string, error) {
	rec, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return rec.ManagerID, nil
}

func (s *Service) DirectReports(ctx context.Context, managerID string) ([]User, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []User
	for _, rec := range records {
		if rec.ManagerID == managerID {
			out = append(out, rec.User)
		}
	}
	return out, nil
}

func (s *Service) SetMFASecret(ctx context.Context, userID string, secretEnc []byte) error {
	return s.store.SetMFASecret(ctx, userID, secretEnc)
}

func (s *Service) SetMFAEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.store.SetMFAEnabled(ctx, userID, enabled)
}
