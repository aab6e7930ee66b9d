package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shashibhushan21/Chat-App32/internal/apperr"
	"github.com/shashibhushan21/Chat-App32/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// UserStore handles account and contact persistence.
type UserStore struct {
	db *pgxpool.Pool
}

// NewUserStore creates a user store on the given pool
func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, full_name, password_hash, contact_number, profile_pics, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var pics []byte
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.Password,
		&user.ContactNumber, &pics, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(pics) > 0 {
		if err := json.Unmarshal(pics, &user.ProfilePics); err != nil {
			return nil, fmt.Errorf("decode profile pics: %w", err)
		}
	}
	return &user, nil
}

// Create inserts a new user. Email and contact number are globally unique;
// violations surface as Conflict.
func (s *UserStore) Create(ctx context.Context, email, fullName, passwordHash, contactNumber string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, contact_number, profile_pics, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '[]', $6, $6)
		RETURNING `+userColumns,
		uuid.New().String(), email, fullName, passwordHash, contactNumber, now)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Conflict("email or contact number already registered")
		}
		return nil, classify("create user", err)
	}
	return user, nil
}

// GetByID returns a user by id
func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getBy(ctx, "id", id)
}

// GetByEmail returns a user by email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, "email", email)
}

// GetByContactNumber returns a user by contact number
func (s *UserStore) GetByContactNumber(ctx context.Context, number string) (*models.User, error) {
	return s.getBy(ctx, "contact_number", number)
}

func (s *UserStore) getBy(ctx context.Context, column, value string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, classify("get user", err)
	}
	return user, nil
}

// AddContact links a contact to a user. Adding yourself is rejected; adding
// the same contact twice is a no-op.
func (s *UserStore) AddContact(ctx context.Context, userID, contactID string) error {
	if userID == contactID {
		return apperr.Authorization("cannot add yourself as a contact")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.db.Exec(ctx, `
		INSERT INTO contacts (user_id, contact_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, contact_id) DO NOTHING
	`, userID, contactID, time.Now())
	if err != nil {
		return classify("add contact", err)
	}
	return nil
}

// ListContacts returns the user's contacts, most recently added first.
func (s *UserStore) ListContacts(ctx context.Context, userID string) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.email, u.full_name, u.password_hash, u.contact_number, u.profile_pics, u.created_at, u.updated_at
		FROM contacts c
		INNER JOIN users u ON u.id = c.contact_id
		WHERE c.user_id = $1
		ORDER BY c.added_at DESC
	`, userID)
	if err != nil {
		return nil, classify("list contacts", err)
	}
	defer rows.Close()

	contacts := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list contacts", err)
	}

	return contacts, nil
}

// AddProfilePic prepends a new profile picture, keeping the history with the
// most recent first, and returns the updated user.
func (s *UserStore) AddProfilePic(ctx context.Context, userID, url string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pic, err := json.Marshal([]models.ProfilePic{{URL: url, CreatedAt: time.Now()}})
	if err != nil {
		return nil, fmt.Errorf("encode profile pic: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET profile_pics = $1::jsonb || profile_pics, updated_at = $2
		WHERE id = $3
		RETURNING `+userColumns,
		pic, time.Now(), userID)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, classify("add profile pic", err)
	}
	return user, nil
}
