package product

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the active catalog as vendors browse it.
func (s *Service) List() []Product {
	all := s.repo.List()
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) ListBySupplier(supplierID string) []Product {
	return s.repo.ListBySupplier(supplierID)
}

func (s *Service) GetByID(id string) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByIDs(ids []string) ([]Product, error) {
	return s.repo.GetByIDs(ids)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

func (s *Service) Update(id string, p Product) (Product, error) {
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}

func (s *Service) AdjustStock(id string, delta int) error {
	return s.repo.AdjustStock(id, delta)
}
