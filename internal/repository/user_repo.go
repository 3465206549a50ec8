package repository

import (
	"go-fleet-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindAll() ([]model.User, error)
	Create(user *model.User) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role").Preload("Privileges").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrap(err, "find user %s", email)
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role").Preload("Privileges").First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "find user %s", id)
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Preload("Role").Preload("Privileges").Order("email ASC").Find(&users).Error; err != nil {
		return nil, wrap(err, "list users")
	}
	return users, nil
}

func (r *userRepo) Create(user *model.User) error {
	return wrap(r.db.Omit("Role").Create(user).Error, "create user %s", user.Email)
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	err := r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
	return wrap(err, "update password of user %s", userID)
}

func (r *userRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	err := r.db.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
	return wrap(err, "update token version of user %s", userID)
}
