// File: internal/repository/user.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"account-service/internal/database"
	"account-service/internal/model"
	"account-service/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultListLimit = 100

// UserStore 是使用者資料層對外的操作集合
type UserStore interface {
	Create(ctx context.Context, name, email, password string) (model.User, error)
	GetByID(ctx context.Context, id int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Update(ctx context.Context, id int, params UpdateUserParams) (model.User, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	SearchByName(ctx context.Context, name string, limit, offset int) ([]model.User, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
}

// UpdateUserParams 的 nil 欄位表示維持原值
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
}

// Repository 實作 UserStore，所有操作都包在 database.WithTx 裡執行
type Repository struct {
	db     database.DB
	log    *zap.Logger
	hasher service.PasswordHasher
	policy service.Policy
}

func New(db database.DB, log *zap.Logger, hasher service.PasswordHasher, policy service.Policy) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{db: db, log: log, hasher: hasher, policy: policy}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) hashPassword(password string) (string, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is too long", model.ErrInvalidInput)
		}
		r.log.Error("password hashing failed", zap.Error(err))
		return "", errors.Join(model.ErrStorage, err)
	}
	return hash, nil
}

// Create 驗證並正規化輸入後新增使用者。
// email 撞到唯一索引回傳 ErrUserAlreadyExists，靠 constraint 擋競爭寫入，
// 不做先查再寫。
func (r *Repository) Create(ctx context.Context, name, email, password string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = service.NormalizeEmail(email)
	if err := r.policy.ValidateName(name); err != nil {
		return model.User{}, err
	}
	if err := r.policy.ValidateEmail(email); err != nil {
		return model.User{}, err
	}
	if err := r.policy.ValidatePassword(password); err != nil {
		return model.User{}, err
	}

	hash, err := r.hashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{Name: name, Email: email, PasswordHash: hash}
	err = database.WithTx(ctx, r.db, func(tx database.Querier) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO users (name, email, password_hash)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at, updated_at`,
			u.Name, u.Email, u.PasswordHash,
		)
		return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("attempt to create user with existing email", zap.String("email", email))
			return model.User{}, model.ErrUserAlreadyExists
		}
		r.log.Error("create user failed", zap.Error(err))
		return model.User{}, errors.Join(model.ErrStorage, err)
	}

	r.log.Info("created user", zap.Int("id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (model.User, error) {
	var u model.User
	err := database.WithTx(ctx, r.db, func(tx database.Querier) error {
		var scanErr error
		u, scanErr = scanUser(tx.QueryRow(ctx,
			`SELECT id, name, email, password_hash, created_at, updated_at
			 FROM users WHERE id = $1`,
			id,
		))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		r.log.Error("get user by id failed", zap.Int("id", id), zap.Error(err))
		return model.User{}, errors.Join(model.ErrStorage, err)
	}
	return u, nil
}

// GetByEmail 查詢前先正規化 email。回傳值含 password_hash，僅供認證流程使用
func (r *Repository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = service.NormalizeEmail(email)
	var u model.User
	err := database.WithTx(ctx, r.db, func(tx database.Querier) error {
		var scanErr error
		u, scanErr = scanUser(tx.QueryRow(ctx,
			`SELECT id, name, email, password_hash, created_at, updated_at
			 FROM users WHERE email = $1`,
			email,
		))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		r.log.Error("get user by email failed", zap.Error(err))
		return model.User{}, errors.Join(model.ErrStorage, err)
	}
	return u, nil
}

// Update 只更動有帶值的欄位。在同一筆交易內以 FOR UPDATE 鎖住現有列，
// 合併欄位後執行固定的 UPDATE；updated_at 由資料庫 trigger 更新
func (r *Repository) Update(ctx context.Context, id int, params UpdateUserParams) (model.User, error) {
	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		if err := r.policy.ValidateName(trimmed); err != nil {
			return model.User{}, err
		}
		params.Name = &trimmed
	}
	if params.Email != nil {
		normalized := service.NormalizeEmail(*params.Email)
		if err := r.policy.ValidateEmail(normalized); err != nil {
			return model.User{}, err
		}
		params.Email = &normalized
	}
	var newHash *string
	if params.Password != nil {
		if err := r.policy.ValidatePassword(*params.Password); err != nil {
			return model.User{}, err
		}
		hash, err := r.hashPassword(*params.Password)
		if err != nil {
			return model.User{}, err
		}
		newHash = &hash
	}

	var u model.User
	err := database.WithTx(ctx, r.db, func(tx database.Querier) error {
		cur, err := scanUser(tx.QueryRow(ctx,
			`SELECT id, name, email, password_hash, created_at, updated_at
			 FROM users WHERE id = $1 FOR UPDATE`,
			id,
		))
		if err != nil {
			return err
		}

		if params.Name != nil {
			cur.Name = *params.Name
		}
		if params.Email != nil {
			cur.Email = *params.Email
		}
		if newHash != nil {
			cur.PasswordHash = *newHash
		}

		row := tx.QueryRow(ctx,
			`UPDATE users SET name = $1, email = $2, password_hash = $3
			 WHERE id = $4
			 RETURNING updated_at`,
			cur.Name, cur.Email, cur.PasswordHash, id,
		)
		if err := row.Scan(&cur.UpdatedAt); err != nil {
			return err
		}
		u = cur
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return model.User{}, model.ErrUserNotFound
		case isUniqueViolation(err):
			r.log.Warn("attempt to update user to existing email", zap.Int("id", id))
			return model.User{}, model.ErrUserAlreadyExists
		}
		r.log.Error("update user failed", zap.Int("id", id), zap.Error(err))
		return model.User{}, errors.Join(model.ErrStorage, err)
	}

	r.log.Info("updated user", zap.Int("id", id))
	return u, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	err := database.WithTx(ctx, r.db, func(tx database.Querier) error {
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.ErrUserNotFound
		}
		r.log.Error("delete user failed", zap.Int("id", id), zap.Error(err))
		return errors.Join(model.ErrStorage, err)
	}

	r.log.Info("deleted user", zap.Int("id", id))
	return nil
}

// List 依 id 遞增回傳一頁使用者，投影不含 password_hash
func (r *Repository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var users []model.User
	err := database.WithTx(ctx, r.db, func(tx database.Querier) error {
		rows, err := tx.Query(ctx,
			`SELECT id, name, email, created_at, updated_at
			 FROM users ORDER BY id LIMIT $1 OFFSET $2`,
			limit, offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u model.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("list users failed", zap.Error(err))
		return nil, errors.Join(model.ErrStorage, err)
	}
	return users, nil
}

// SearchByName 以不分大小寫的子字串比對姓名，依姓名排序
func (r *Repository) SearchByName(ctx context.Context, name string, limit, offset int) ([]model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var users []model.User
	err := database.WithTx(ctx, r.db, func(tx database.Querier) error {
		rows, err := tx.Query(ctx,
			`SELECT id, name, email, created_at, updated_at
			 FROM users WHERE name ILIKE $1
			 ORDER BY name, id LIMIT $2 OFFSET $3`,
			"%"+name+"%", limit, offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u model.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("search users failed", zap.Error(err))
		return nil, errors.Join(model.ErrStorage, err)
	}
	return users, nil
}

// Authenticate 查無帳號與密碼不符都回傳 ErrAuthenticationFailed，
// 避免外部探測帳號是否存在；實際原因只進 debug log
func (r *Repository) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			r.log.Debug("authentication failed: unknown email", zap.String("email", service.NormalizeEmail(email)))
			return model.User{}, model.ErrAuthenticationFailed
		}
		return model.User{}, err
	}

	if !r.hasher.Verify(u.PasswordHash, password) {
		r.log.Debug("authentication failed: password mismatch", zap.Int("id", u.ID))
		return model.User{}, model.ErrAuthenticationFailed
	}
	return u, nil
}
