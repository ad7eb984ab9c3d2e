package livesync

import (
	"context"
	"time"

	activitystore "github.com/dalemusser/leaguehub/internal/app/store/activities"
	attendancestore "github.com/dalemusser/leaguehub/internal/app/store/attendance"
	enrollmentstore "github.com/dalemusser/leaguehub/internal/app/store/enrollments"
	eventstore "github.com/dalemusser/leaguehub/internal/app/store/events"
	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	messagestore "github.com/dalemusser/leaguehub/internal/app/store/messages"
	poststore "github.com/dalemusser/leaguehub/internal/app/store/posts"
	projectstore "github.com/dalemusser/leaguehub/internal/app/store/projects"
	settingsstore "github.com/dalemusser/leaguehub/internal/app/store/settings"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Hub owns one feed per live collection. Every live client session shares
// the same feeds.
type Hub struct {
	Posts       *Feed[models.Post]
	Activities  *Feed[models.Activity]
	Events      *Feed[models.Event]
	Projects    *Feed[models.Project]
	Attendance  *Feed[models.Attendance]
	Enrollments *Feed[models.Enrollment]
	Roster      *Feed[models.Member]
	Messages    *Feed[models.Message]
	App         *Feed[models.AppSettings]

	log *zap.Logger
}

type starter interface {
	Name() string
	Start(ctx context.Context) error
	Stop()
}

// NewHub builds the feeds over db. poll is the fallback interval for
// deployments without change streams.
func NewHub(db *mongo.Database, poll time.Duration, log *zap.Logger) *Hub {
	posts := poststore.New(db)
	acts := activitystore.New(db)
	evs := eventstore.New(db)
	projs := projectstore.New(db)
	att := attendancestore.New(db)
	enr := enrollmentstore.New(db)
	roster := memberstore.New(db)
	msgs := messagestore.New(db)
	settings := settingsstore.New(db)

	return &Hub{
		Posts:       NewFeed("posts", posts.Collection(), posts.ListAll, poll, log),
		Activities:  NewFeed("activities", acts.Collection(), acts.ListAll, poll, log),
		Events:      NewFeed("cronograma", evs.Collection(), evs.ListAll, poll, log),
		Projects:    NewFeed("projetos", projs.Collection(), projs.ListAll, poll, log),
		Attendance:  NewFeed("presencas", att.Collection(), att.ListAll, poll, log),
		Enrollments: NewFeed("enrollments", enr.Collection(), enr.ListAll, poll, log),
		Roster:      NewFeed("membros", roster.Collection(), roster.ListAll, poll, log),
		Messages:    NewFeed("chat_messages", msgs.Collection(), msgs.ListAll, poll, log),
		App: NewFeed("configuracoes", settings.AppCollection(), func(ctx context.Context) ([]models.AppSettings, error) {
			a, err := settings.GetApp(ctx)
			if err != nil {
				return nil, err
			}
			return []models.AppSettings{a}, nil
		}, poll, log),
		log: log,
	}
}

func (h *Hub) all() []starter {
	return []starter{h.Posts, h.Activities, h.Events, h.Projects, h.Attendance, h.Enrollments, h.Roster, h.Messages, h.App}
}

// Start loads and begins watching every feed. On error the feeds already
// started are stopped again.
func (h *Hub) Start(ctx context.Context) error {
	started := make([]starter, 0, len(h.all()))
	for _, f := range h.all() {
		if err := f.Start(ctx); err != nil {
			h.log.Error("live feed failed to start", zap.String("feed", f.Name()), zap.Error(err))
			for _, s := range started {
				s.Stop()
			}
			return err
		}
		started = append(started, f)
	}
	return nil
}

// Stop stops every feed.
func (h *Hub) Stop() {
	for _, f := range h.all() {
		f.Stop()
	}
}
