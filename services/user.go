package services

import (
	"context"
	"database/sql"

	"budget-tracker/models"
	"budget-tracker/utils"
)

type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// List returns every user's public shape. The directory is how owners find
// visitors to share budgets with.
func (s *UserService) List(ctx context.Context) ([]models.UserResponse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var user models.UserResponse
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, err
		}
		user.URL = userURL(user.ID)
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.UserResponse, error) {
	var user models.UserResponse
	err := s.db.QueryRowContext(ctx, `SELECT id, username FROM users WHERE id = $1`, userID).Scan(&user.ID, &user.Username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.URL = userURL(user.ID)
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, req.Username).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{Field: "username", Message: "A user with that username already exists."}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: req.Username, PasswordHash: passwordHash}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, req.Username, passwordHash).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, &ConflictError{Field: "username", Message: "A user with that username already exists."}
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Update changes the actor's own username and, optionally, password.
// Editing anyone else is an ownership violation.
func (s *UserService) Update(ctx context.Context, actorID, userID string, req models.UpdateUserRequest) (*models.UserResponse, error) {
	if userID != actorID {
		return nil, &PermissionError{Message: msgNotYourAccount}
	}

	if req.Password != "" {
		passwordHash, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		_, err = s.db.ExecContext(ctx, `
			UPDATE users SET username = $1, password_hash = $2, updated_at = NOW() WHERE id = $3
		`, req.Username, passwordHash, userID)
		if isUniqueViolation(err) {
			return nil, &ConflictError{Field: "username", Message: "A user with that username already exists."}
		}
		if err != nil {
			return nil, err
		}
	} else {
		_, err := s.db.ExecContext(ctx, `
			UPDATE users SET username = $1, updated_at = NOW() WHERE id = $2
		`, req.Username, userID)
		if isUniqueViolation(err) {
			return nil, &ConflictError{Field: "username", Message: "A user with that username already exists."}
		}
		if err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, userID)
}

// Delete removes the actor's own account. Budgets cascade away with it.
func (s *UserService) Delete(ctx context.Context, actorID, userID string) error {
	if userID != actorID {
		return &PermissionError{Message: msgNotYourAccount}
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}
