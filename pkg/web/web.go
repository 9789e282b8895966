// Package web serves the landing page and the admin panel assets.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"video-portfolio/pkg/keyseq"
	"video-portfolio/pkg/models"
	"video-portfolio/pkg/motion"
	"video-portfolio/pkg/youtube"
)

//go:embed templates/*.tmpl static
var assets embed.FS

type VideoSource interface {
	Public(ctx context.Context) ([]models.PublicVideo, error)
}

type Site struct {
	videos VideoSource
	scenes []motion.Scene
	seq    keyseq.Sequence
	log    logrus.FieldLogger

	tmpl   *template.Template
	portal []byte
	public fs.FS
	admin  fs.FS
}

func New(videos VideoSource, log logrus.FieldLogger) (*Site, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"embedURL":     youtube.EmbedURL,
		"thumbnailURL": youtube.ThumbnailURL,
	}).ParseFS(assets, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	portal, err := assets.ReadFile("static/admin/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "read admin page")
	}
	public, err := fs.Sub(assets, "static/public")
	if err != nil {
		return nil, err
	}
	admin, err := fs.Sub(assets, "static/admin")
	if err != nil {
		return nil, err
	}

	return &Site{
		videos: videos,
		scenes: motion.DefaultScenes(),
		seq:    keyseq.Konami(),
		log:    log.WithField("component", "web"),
		tmpl:   tmpl,
		portal: portal,
		public: public,
		admin:  admin,
	}, nil
}

func (s *Site) Register(r *gin.Engine) {
	r.SetHTMLTemplate(s.tmpl)
	r.GET("/", s.Landing)
	r.GET("/portal", s.Portal)
	r.StaticFS("/static", http.FS(s.public))
	r.StaticFS("/portal/assets", http.FS(s.admin))
}

type sceneView struct {
	motion.Scene
	Styles map[string]template.CSS
}

// pageConfig is handed to the browser engine as JSON.
type pageConfig struct {
	Scenes   []motion.Scene  `json:"scenes"`
	Sequence keyseq.Sequence `json:"sequence"`
	Anchor   float64         `json:"anchor"`
}

// navAnchor is the viewport fraction used for nav highlighting.
const navAnchor = 0.4

// Landing renders the public page with every layer at its scroll = 0 position.
func (s *Site) Landing(c *gin.Context) {
	videos, err := s.videos.Public(c.Request.Context())
	loadErr := false
	if err != nil {
		s.log.WithError(err).Error("landing page: loading videos failed")
		videos, loadErr = nil, true
	}

	views := make([]sceneView, 0, len(s.scenes))
	byID := make(map[string]sceneView, len(s.scenes))
	for _, sc := range s.scenes {
		styles := make(map[string]template.CSS, len(sc.Layers))
		for name, css := range sc.Styles(0) {
			// generated from numeric layer values only
			styles[name] = template.CSS(css)
		}
		v := sceneView{Scene: sc, Styles: styles}
		views = append(views, v)
		byID[sc.ID] = v
	}

	c.HTML(http.StatusOK, "index.html.tmpl", gin.H{
		"Videos":    videos,
		"LoadError": loadErr,
		"Scenes":    views,
		"Scene":     byID,
		"Config":    pageConfig{Scenes: s.scenes, Sequence: s.seq, Anchor: navAnchor},
	})
}

func (s *Site) Portal(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.portal)
}
