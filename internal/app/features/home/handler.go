package home

import (
	"context"
	"net/http"

	poststore "github.com/dalemusser/leaguehub/internal/app/store/posts"
	projectstore "github.com/dalemusser/leaguehub/internal/app/store/projects"
	settingsstore "github.com/dalemusser/leaguehub/internal/app/store/settings"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RecentPosts is how many posts the landing shows.
const RecentPosts = 3

// League names the league on the landing.
type League struct {
	Name       string `json:"name"`
	Acronym    string `json:"acronym"`
	University string `json:"university"`
}

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	League   League
	Posts    *poststore.Store
	Projects *projectstore.Store
	Settings *settingsstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, league League, logger *zap.Logger) *Handler {
	return &Handler{
		League:   league,
		Posts:    poststore.New(db),
		Projects: projectstore.New(db),
		Settings: settingsstore.New(db),
		Log:      logger,
	}
}

// Landing is the payload of GET /.
type Landing struct {
	League   League           `json:"league"`
	LogoURL  string           `json:"logo_url,omitempty"`
	Posts    []models.Post    `json:"posts"`
	Projects []models.Project `json:"projects"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	posts, err := h.Posts.ListAll(ctx)
	if err != nil {
		h.Log.Error("home posts load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if len(posts) > RecentPosts {
		posts = posts[:RecentPosts]
	}
	projects, err := h.Projects.ListAll(ctx)
	if err != nil {
		h.Log.Error("home projects load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	// A missing logo only hides the image.
	app, err := h.Settings.GetApp(ctx)
	if err != nil {
		h.Log.Warn("home settings load failed", zap.Error(err))
	}

	respond.OK(w, Landing{
		League:   h.League,
		LogoURL:  app.LogoURL,
		Posts:    posts,
		Projects: projects,
	})
}
