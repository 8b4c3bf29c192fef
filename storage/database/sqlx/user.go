package sqlxrepos

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kidlearn/core/user"
)

const pqUniqueViolation = "23505"

type userRow struct {
	ID           int64       `db:"id"`
	Email        string      `db:"email"`
	Name         string      `db:"name"`
	Role         string      `db:"role"`
	Avatar       null.String `db:"avatar"`
	PasswordHash []byte      `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:           strconv.FormatInt(r.ID, 10),
		Email:        r.Email,
		Name:         r.Name,
		Role:         r.Role,
		Avatar:       r.Avatar.String,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(email string) error {
	const q = `SELECT EXISTS (SELECT 1 FROM "user" WHERE email = $1)`

	var exists bool
	if err := repo.db.Get(&exists, q, email); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	const q = `
	INSERT INTO "user" (email, name, role, avatar, password_hash, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`

	avatar := null.NewString(usr.Avatar, usr.Avatar != "")
	var id int64
	err := repo.db.Get(&id, q, usr.Email, usr.Name, usr.Role, avatar, usr.PasswordHash, usr.CreatedAt)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.ID = strconv.FormatInt(id, 10)
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	const q = `
	SELECT id, email, name, role, avatar, password_hash, created_at
	FROM "user"
	ORDER BY id`

	var rows []userRow
	if err := repo.db.Select(&rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.unpack())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	pk, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	const q = `
	SELECT id, email, name, role, avatar, password_hash, created_at
	FROM "user"
	WHERE id = $1`

	var row userRow
	if err = repo.db.Get(&row, q, pk); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user by id")
	}
	return row.unpack(), nil
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	const q = `
	SELECT id, email, name, role, avatar, password_hash, created_at
	FROM "user"
	WHERE email = $1`

	var row userRow
	if err := repo.db.Get(&row, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user by email")
	}
	return row.unpack(), nil
}

func (repo *userRepository) CountUsers() (int, error) {
	const q = `SELECT COUNT(*) FROM "user"`

	var count int
	if err := repo.db.Get(&count, q); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return count, nil
}
