package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/storage"
)

// Get возвращает пользователя по email.
func (s *Storage) Get(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.repository.Get"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, name, plan_kind, expires_at, sub_updated_at, created_at
			  FROM users
			  WHERE email = $1`
	row := s.DB.QueryRowContext(ctx, query, email)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// CreateIfAbsent атомарно создает запись, если пользователя еще нет.
// Используется единственный INSERT с ON CONFLICT DO NOTHING: одновременные
// первые входы не перетирают пробный период друг друга, проигравший
// запрос просто читает уже сохраненную запись.
func (s *Storage) CreateIfAbsent(ctx context.Context, user models.User) (*models.User, bool, error) {
	const op = "storage.repository.CreateIfAbsent"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, name, plan_kind, expires_at, sub_updated_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (email) DO NOTHING`
	var updatedAt sql.NullTime
	if user.Subscription.UpdatedAt != nil {
		updatedAt = sql.NullTime{Time: *user.Subscription.UpdatedAt, Valid: true}
	}
	res, err := s.DB.ExecContext(ctx, query,
		user.Email, user.Name, user.Subscription.PlanKind, user.Subscription.ExpiresAt,
		updatedAt, user.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if inserted > 0 {
		return &user, true, nil
	}

	existing, err := s.Get(ctx, user.Email)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return existing, false, nil
}

// SetSubscription заменяет подписку существующего пользователя.
// Возвращает storage.ErrUserNotFound, если записи нет: учетные записи
// административным путем не создаются.
func (s *Storage) SetSubscription(ctx context.Context, email string, sub models.Subscription) error {
	const op = "storage.repository.SetSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET plan_kind = $1,
			      expires_at = $2,
			      sub_updated_at = $3
			  WHERE email = $4`
	var updatedAt sql.NullTime
	if sub.UpdatedAt != nil {
		updatedAt = sql.NullTime{Time: *sub.UpdatedAt, Valid: true}
	}
	res, err := s.DB.ExecContext(ctx, query, sub.PlanKind, sub.ExpiresAt, updatedAt, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}

// ListAll возвращает всех пользователей, отсортированных по email.
func (s *Storage) ListAll(ctx context.Context) ([]*models.User, error) {
	const op = "storage.repository.ListAll"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, name, plan_kind, expires_at, sub_updated_at, created_at
			  FROM users
			  ORDER BY email`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Count возвращает количество пользователей.
func (s *Storage) Count(ctx context.Context) (int, error) {
	const op = "storage.repository.Count"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var updatedAt sql.NullTime
	if err := row.Scan(&u.Email, &u.Name, &u.Subscription.PlanKind,
		&u.Subscription.ExpiresAt, &updatedAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		u.Subscription.UpdatedAt = &updatedAt.Time
	}
	return u, nil
}
