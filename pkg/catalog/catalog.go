// Package catalog implements the video use cases shared by the public site and the admin panel.
package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"video-portfolio/pkg/models"
	"video-portfolio/pkg/ordering"
	"video-portfolio/pkg/repository"
	"video-portfolio/pkg/youtube"
)

var (
	ErrNotFound         = errors.New("video not found")
	ErrMissingFields    = errors.New("youtube id and title are required")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidYoutubeID = errors.New("invalid youtube video id or url")
)

type Store interface {
	List() ([]models.Video, error)
	ListVisible() ([]models.Video, error)
	Get(id string) (*models.Video, error)
	MaxOrder() (int, error)
	Create(video *models.Video) error
	Update(id string, patch models.VideoPatch) (*models.Video, error)
	Delete(id string) error
	SetOrder(id string, order int) (int64, error)
}

type Publisher interface {
	Publish(ctx context.Context, videos []models.PublicVideo) (string, error)
}

type Service struct {
	store       Store
	mirror      Publisher
	log         logrus.FieldLogger
	concurrency int
}

// NewService wires the catalog. mirror may be nil when no bucket is configured.
func NewService(store Store, mirror Publisher, log logrus.FieldLogger) *Service {
	return &Service{
		store:       store,
		mirror:      mirror,
		log:         log.WithField("component", "catalog"),
		concurrency: ordering.DefaultConcurrency,
	}
}

// SetConcurrency bounds the number of order updates a reorder runs at once.
func (s *Service) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

type NewVideo struct {
	YoutubeID   string `json:"youtubeId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Service) Public(ctx context.Context) ([]models.PublicVideo, error) {
	videos, err := s.store.ListVisible()
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.Public())
	}
	return out, nil
}

func (s *Service) All(ctx context.Context) ([]models.Video, error) {
	videos, err := s.store.List()
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

// Add appends a visible video at the end of the list. The max-order read and the insert
// are separate statements, so two concurrent adds can share an order value.
func (s *Service) Add(ctx context.Context, in NewVideo) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	if strings.TrimSpace(in.YoutubeID) == "" || title == "" {
		return nil, ErrMissingFields
	}
	id, ok := youtube.ExtractID(in.YoutubeID)
	if !ok {
		return nil, ErrInvalidYoutubeID
	}

	last, err := s.store.MaxOrder()
	if err != nil {
		return nil, err
	}
	video := &models.Video{
		YoutubeID:   id,
		Title:       title,
		Description: in.Description,
		Order:       last + 1,
		Visible:     true,
	}
	if err := s.store.Create(video); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"id": video.ID, "youtubeId": id, "order": video.Order}).Info("video added")
	s.publish(ctx)
	return video, nil
}

func (s *Service) Update(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error) {
	if patch.YoutubeID != nil {
		yt, ok := youtube.ExtractID(*patch.YoutubeID)
		if !ok {
			return nil, ErrInvalidYoutubeID
		}
		patch.YoutubeID = &yt
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		patch.Title = &title
	}

	video, err := s.store.Update(id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !patch.Empty() {
		s.log.WithField("id", id).Info("video updated")
		s.publish(ctx)
	}
	return video, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.log.WithField("id", id).Info("video deleted")
	s.publish(ctx)
	return nil
}

// Reorder assigns 1-based positions following ids. Validation errors come from the ordering
// package; store failures are reported inside the result, not as an error.
func (s *Service) Reorder(ctx context.Context, ids []string) (ordering.Result, error) {
	res, err := ordering.Apply(ctx, s.store, ids, s.concurrency)
	if err != nil {
		return res, err
	}

	entry := s.log.WithFields(logrus.Fields{"requested": res.Requested, "updated": res.Updated})
	if len(res.Failures) > 0 {
		entry.WithField("failures", res.Messages()).Error("reorder partially failed")
	} else {
		entry.Info("videos reordered")
	}
	if res.Updated > 0 {
		s.publish(ctx)
	}
	return res, nil
}

func (s *Service) publish(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	videos, err := s.Public(ctx)
	if err != nil {
		s.log.WithError(err).Warn("catalog mirror skipped")
		return
	}
	loc, err := s.mirror.Publish(ctx, videos)
	if err != nil {
		s.log.WithError(err).Warn("catalog mirror failed")
		return
	}
	s.log.WithField("location", loc).Debug("catalog mirrored")
}
