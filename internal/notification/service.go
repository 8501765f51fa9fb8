package notification

import "time"

// Service stores notifications and turns hub events into notification rows.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListenTo writes a notification for every event published on the hub.
// Returns the unsubscribe function.
func (s *Service) ListenTo(hub *Hub) func() {
	return hub.Subscribe(func(e Event) {
		if e.UserID == "" {
			return
		}
		// event delivery is best-effort, a failed insert is dropped
		_, _ = s.Create(Notification{
			UserID:  e.UserID,
			Title:   e.Title,
			Message: e.Message,
			Type:    e.Kind,
		})
	})
}

func (s *Service) ListByUser(userID string) ([]Notification, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) UnreadCount(userID string) (int, error) {
	all, err := s.repo.ListByUser(userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range all {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Service) Create(n Notification) (Notification, error) {
	if n.Type == "" {
		n.Type = KindInfo
	}
	if n.CreatedAt == "" {
		n.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return s.repo.Create(n)
}

func (s *Service) MarkRead(userID, id string) error {
	return s.repo.MarkRead(userID, id)
}

func (s *Service) MarkAllRead(userID string) error {
	return s.repo.MarkAllRead(userID)
}

func (s *Service) Delete(userID, id string) error {
	return s.repo.Delete(userID, id)
}
