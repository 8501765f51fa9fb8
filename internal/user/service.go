package user

import "golang.org/x/crypto/bcrypt"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id string) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

// UpdateProfile replaces the profile fields of an existing account. The
// profileCompleted flag flips once name, phone, business name and address are
// all present; it never flips back.
func (s *Service) UpdateProfile(id string, u User) (User, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}

	existing.FullName = u.FullName
	existing.Phone = u.Phone
	existing.BusinessName = u.BusinessName
	existing.Address = u.Address
	existing.City = u.City
	existing.Pincode = u.Pincode
	existing.UpdatedAt = u.UpdatedAt

	if existing.FullName != "" && existing.Phone != "" && existing.BusinessName != "" && existing.Address != "" {
		existing.ProfileCompleted = true
	}

	return s.repo.Update(id, existing)
}
