package user

import (
	"database/sql"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `id, email, password, role, full_name, phone, business_name, address, city, pincode, profile_completed, created_at, updated_at`

func (r *PostgresRepository) GetByID(id string) (User, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) Create(u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`INSERT INTO profiles (id, email, password, role, full_name, phone, business_name, address, city, pincode, profile_completed, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		u.ID, u.Email, u.Password, u.Role, u.FullName, u.Phone, u.BusinessName, u.Address, u.City, u.Pincode, u.ProfileCompleted, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id string, u User) (User, error) {
	res, err := r.db.Exec(`UPDATE profiles SET full_name = $1, phone = $2, business_name = $3, address = $4, city = $5, pincode = $6, profile_completed = $7, updated_at = $8 WHERE id = $9`,
		u.FullName, u.Phone, u.BusinessName, u.Address, u.City, u.Pincode, u.ProfileCompleted, u.UpdatedAt, id)
	if err != nil {
		return User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return User{}, ErrNotFound
	}
	u.ID = id
	return u, nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var businessName, address, city, pincode sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.FullName, &u.Phone,
		&businessName, &address, &city, &pincode, &u.ProfileCompleted, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.BusinessName = businessName.String
	u.Address = address.String
	u.City = city.String
	u.Pincode = pincode.String
	return u, nil
}
