package repository

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"video-portfolio/pkg/models"
)

var ErrDuplicate = errors.New("record already exists")

type AdminsRepository struct {
	log logrus.FieldLogger
	db  *gorm.DB
}

func NewAdmins(log logrus.FieldLogger, db *gorm.DB) *AdminsRepository {
	return &AdminsRepository{
		log: log.WithField("repo", "admins"),
		db:  db,
	}
}

func (r *AdminsRepository) ByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("username = ?", username).First(&admin).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find admin %q", username)
	}
	return &admin, nil
}

func (r *AdminsRepository) ByID(id string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("id = ?", id).First(&admin).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find admin %s", id)
	}
	return &admin, nil
}

func (r *AdminsRepository) List() ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.Order("created_at asc").Find(&admins).Error; err != nil {
		return nil, errors.Wrap(err, "list admins")
	}
	return admins, nil
}

func (r *AdminsRepository) Count() (int, error) {
	var n int
	if err := r.db.Model(&models.Admin{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count admins")
	}
	return n, nil
}

// Create inserts a new account. The username check and the insert are two statements;
// the unique index catches the rare race between them.
func (r *AdminsRepository) Create(username, passwordHash string) (*models.Admin, error) {
	if _, err := r.ByUsername(username); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	admin := &models.Admin{Username: username, PasswordHash: passwordHash}
	if err := r.db.Create(admin).Error; err != nil {
		return nil, errors.Wrapf(err, "create admin %q", username)
	}
	r.log.WithField("username", username).Info("admin created")
	return admin, nil
}

func (r *AdminsRepository) UpdatePassword(id, passwordHash string) error {
	res := r.db.Model(&models.Admin{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update password of admin %s", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminsRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Admin{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete admin %s", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
