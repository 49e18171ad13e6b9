package repositories

import (
	"database/sql"
	"errors"

	"goblog/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByMobile(mobile string) (*models.User, error)
	UpdatePassword(userID int, passwordHash string) error
	UpdateProfile(user *models.User) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO tb_users (mobile, username, password_hash, email, avatar, user_desc, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Mobile,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Avatar,
		user.UserDesc,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, mobile, username, password_hash,
		       COALESCE(email,''), COALESCE(avatar,''), COALESCE(user_desc,''), created_at
		FROM tb_users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

// GetByMobile возвращает (nil, nil), если пользователя нет — вызывающий
// различает "не найден" и ошибку БД.
func (r *userRepository) GetByMobile(mobile string) (*models.User, error) {
	const q = `
		SELECT id, mobile, username, password_hash,
		       COALESCE(email,''), COALESCE(avatar,''), COALESCE(user_desc,''), created_at
		FROM tb_users
		WHERE mobile = $1
	`
	u, err := r.scanOne(r.DB.QueryRow(q, mobile))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	const q = `UPDATE tb_users SET password_hash=$1 WHERE id=$2`
	_, err := r.DB.Exec(q, passwordHash, userID)
	return err
}

func (r *userRepository) UpdateProfile(user *models.User) error {
	const q = `
		UPDATE tb_users
		SET username=$1, user_desc=$2, avatar=$3, email=$4
		WHERE id=$5
	`
	_, err := r.DB.Exec(q, user.Username, user.UserDesc, user.Avatar, user.Email, user.ID)
	return err
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Mobile, &u.Username, &u.PasswordHash,
		&u.Email, &u.Avatar, &u.UserDesc, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}
