package repository

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"video-portfolio/pkg/models"
)

var ErrNotFound = errors.New("record not found")

type VideosRepository struct {
	log logrus.FieldLogger
	db  *gorm.DB
}

func NewVideos(log logrus.FieldLogger, db *gorm.DB) *VideosRepository {
	return &VideosRepository{
		log: log.WithField("repo", "videos"),
		db:  db,
	}
}

func (r *VideosRepository) List() ([]models.Video, error) {
	var videos []models.Video
	if err := r.db.Order("sort_order asc").Find(&videos).Error; err != nil {
		return nil, errors.Wrap(err, "list videos")
	}
	return videos, nil
}

func (r *VideosRepository) ListVisible() ([]models.Video, error) {
	var videos []models.Video
	if err := r.db.Where("visible = ?", true).Order("sort_order asc").Find(&videos).Error; err != nil {
		return nil, errors.Wrap(err, "list visible videos")
	}
	return videos, nil
}

func (r *VideosRepository) Get(id string) (*models.Video, error) {
	var video models.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get video %s", id)
	}
	return &video, nil
}

// MaxOrder returns the highest order in use, 0 for an empty list.
func (r *VideosRepository) MaxOrder() (int, error) {
	var video models.Video
	err := r.db.Select("sort_order").Order("sort_order desc").First(&video).Error
	if gorm.IsRecordNotFoundError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "max order")
	}
	return video.Order, nil
}

func (r *VideosRepository) Create(video *models.Video) error {
	if err := r.db.Create(video).Error; err != nil {
		return errors.Wrap(err, "create video")
	}
	return nil
}

func (r *VideosRepository) Update(id string, patch models.VideoPatch) (*models.Video, error) {
	if patch.Empty() {
		return r.Get(id)
	}
	res := r.db.Model(&models.Video{}).Where("id = ?", id).Updates(patch.Columns())
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "update video %s", id)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(id)
}

func (r *VideosRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Video{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete video %s", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOrder writes a single order value and reports how many rows changed.
// An unknown id is not an error: it simply changes nothing.
func (r *VideosRepository) SetOrder(id string, order int) (int64, error) {
	res := r.db.Model(&models.Video{}).Where("id = ?", id).UpdateColumn("sort_order", order)
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "set order of video %s", id)
	}
	r.log.WithFields(logrus.Fields{"id": id, "order": order, "rows": res.RowsAffected}).Debug("order updated")
	return res.RowsAffected, nil
}
