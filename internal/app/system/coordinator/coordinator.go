// Package coordinator holds the live state of one client session: who is
// signed in, what role they resolve to, which view they are on, and the
// latest snapshot of every collection the views read.
//
// State changes only through feed callbacks and the exported actions.
// Views receive copies through Render.
package coordinator

import (
	"context"
	"errors"
	"sync"

	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/gates"
	"github.com/dalemusser/leaguehub/internal/app/system/livesync"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Phase is the session establishment state.
type Phase string

const (
	Initializing    Phase = "initializing"
	Unauthenticated Phase = "unauthenticated"
	ResolvingRole   Phase = "resolving_role"
	Authenticated   Phase = "authenticated"
)

// ErrInactive is returned when the profile has been deactivated.
var ErrInactive = errors.New("profile is inactive")

// Account is the signed-in identity handed over by the auth layer.
type Account struct {
	ID          primitive.ObjectID
	Email       string
	DisplayName string
	PhotoURL    string
}

// Profiles fetches or creates the profile behind an account.
type Profiles interface {
	EnsureProfile(ctx context.Context, p userstore.NewProfile) (models.User, bool, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
}

// Feed is a live collection a coordinator can watch.
type Feed[T any] interface {
	Subscribe(fn func([]T)) (unsubscribe func())
}

// Sources are the feeds a coordinator reads.
type Sources struct {
	Roster      Feed[models.Member]
	Posts       Feed[models.Post]
	Activities  Feed[models.Activity]
	Events      Feed[models.Event]
	Projects    Feed[models.Project]
	Attendance  Feed[models.Attendance]
	Enrollments Feed[models.Enrollment]
	Messages    Feed[models.Message]
}

// SourcesFromHub wires the shared hub feeds.
func SourcesFromHub(h *livesync.Hub) Sources {
	return Sources{
		Roster:      h.Roster,
		Posts:       h.Posts,
		Activities:  h.Activities,
		Events:      h.Events,
		Projects:    h.Projects,
		Attendance:  h.Attendance,
		Enrollments: h.Enrollments,
		Messages:    h.Messages,
	}
}

// Config builds a Coordinator. OnChange, if set, is called after every
// state change, outside the coordinator's lock, possibly on a feed goroutine.
type Config struct {
	Resolver roles.Resolver
	Profiles Profiles
	Sources  Sources
	Log      *zap.Logger
	OnChange func()
}

// Coordinator is the per-session state owner. It is safe for concurrent use.
type Coordinator struct {
	cfg Config
	log *zap.Logger

	mu      sync.Mutex
	phase   Phase
	role    models.Role
	account *Account
	profile *models.User
	view    gates.View
	pending gates.View // requested before the phase settled
	gen     uint64 // bumps on every sign-in/out so stale callbacks are dropped

	posts       []models.Post
	activities  []models.Activity
	events      []models.Event
	projects    []models.Project
	attendance  []models.Attendance
	enrollments []models.Enrollment
	roster      []models.Member
	messages    []models.Message

	mounted     []func()
	sessionSubs []func()
}

// New returns a coordinator in the Initializing phase.
func New(cfg Config) *Coordinator {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{cfg: cfg, log: log, phase: Initializing, view: gates.Home}
}

// Mount subscribes to the collections every view shares. With no account
// the session settles in Unauthenticated; otherwise SignIn runs.
func (c *Coordinator) Mount(ctx context.Context, acct *Account) error {
	s := c.cfg.Sources
	c.mounted = []func(){
		subscribe(s.Posts, c, func(rows []models.Post) { c.posts = rows }),
		subscribe(s.Activities, c, func(rows []models.Activity) { c.activities = rows }),
		subscribe(s.Events, c, func(rows []models.Event) { c.events = rows }),
		subscribe(s.Projects, c, func(rows []models.Project) { c.projects = rows }),
		subscribe(s.Attendance, c, func(rows []models.Attendance) { c.attendance = rows }),
		subscribe(s.Enrollments, c, func(rows []models.Enrollment) { c.enrollments = rows }),
		subscribe(s.Roster, c, func(rows []models.Member) { c.roster = rows }),
	}
	if acct == nil {
		c.mu.Lock()
		c.phase = Unauthenticated
		c.settleView("", false)
		c.mu.Unlock()
		c.changed()
		return nil
	}
	return c.SignIn(ctx, *acct)
}

// subscribe registers apply on feed; apply runs under the coordinator lock.
func subscribe[T any](feed Feed[T], c *Coordinator, apply func([]T)) func() {
	if feed == nil {
		return func() {}
	}
	return feed.Subscribe(func(rows []T) {
		c.mu.Lock()
		apply(rows)
		c.mu.Unlock()
		c.changed()
	})
}

// SignIn resolves acct's role and profile. The administrator email resolves
// at once; anyone else waits for the roster and is re-resolved on every
// later roster snapshot. Any failure leaves the session Unauthenticated.
func (c *Coordinator) SignIn(ctx context.Context, acct Account) error {
	c.dropSession()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.phase = ResolvingRole
	c.account = &acct
	c.role = ""
	c.mu.Unlock()
	c.changed()

	role := models.RoleAdmin
	if !c.cfg.Resolver.IsAdmin(acct.Email) {
		resolved := make(chan models.Role, 1)
		unsub := c.cfg.Sources.Roster.Subscribe(func(rows []models.Member) {
			r, _ := c.cfg.Resolver.Resolve(acct.Email, roles.InRoster(acct.Email, rows), "")
			select {
			case resolved <- r:
			default:
			}
			c.onRoster(gen, r)
		})
		c.addSessionSub(gen, unsub)

		select {
		case role = <-resolved:
		case <-ctx.Done():
			return c.fail(gen, ctx.Err())
		}
	}

	name := acct.DisplayName
	if name == "" && role == models.RoleAdmin {
		name = models.DefaultAdminName
	}
	pctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	u, _, err := c.cfg.Profiles.EnsureProfile(pctx, userstore.NewProfile{
		ID:       acct.ID,
		Email:    acct.Email,
		FullName: name,
		PhotoURL: acct.PhotoURL,
		Role:     role,
	})
	if err != nil {
		return c.fail(gen, err)
	}
	if normalize.Status(u.Status) == models.StatusInactive {
		return c.fail(gen, ErrInactive)
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	// A roster snapshot may have landed while the profile was loading.
	if c.role != "" {
		role = c.role
	}
	c.role = role
	c.profile = &u
	c.phase = Authenticated
	c.settleView(c.role, true)
	c.mu.Unlock()

	c.syncStoredRole(u, role)

	if c.cfg.Sources.Messages != nil {
		me := acct.ID.Hex()
		unsub := c.cfg.Sources.Messages.Subscribe(func(rows []models.Message) {
			mine := participantMessages(rows, me)
			c.mu.Lock()
			if c.gen == gen {
				c.messages = mine
			}
			c.mu.Unlock()
			c.changed()
		})
		c.addSessionSub(gen, unsub)
	}

	c.log.Info("session authenticated", zap.String("email", acct.Email), zap.String("role", string(role)))
	c.changed()
	return nil
}

func (c *Coordinator) onRoster(gen uint64, role models.Role) {
	c.mu.Lock()
	if c.gen != gen || c.role == role {
		c.mu.Unlock()
		return
	}
	prev := c.role
	c.role = role
	var profile models.User
	if c.profile != nil {
		c.profile.Role = role
		profile = *c.profile
	}
	if c.phase == Authenticated {
		c.view = gates.Resolve(c.view, role, true)
	}
	c.mu.Unlock()

	if prev != "" && profile.ID != primitive.NilObjectID {
		c.syncStoredRole(models.User{ID: profile.ID, Email: profile.Email, Role: prev}, role)
	}
	c.changed()
}

// syncStoredRole rewrites the cached role on the profile when it differs.
func (c *Coordinator) syncStoredRole(u models.User, role models.Role) {
	if u.Role == role || c.cfg.Profiles == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer cancel()
		if err := c.cfg.Profiles.SetRole(ctx, u.ID, role); err != nil {
			c.log.Warn("role cache update failed", zap.String("email", u.Email), zap.Error(err))
		}
	}()
}

func (c *Coordinator) fail(gen uint64, err error) error {
	c.log.Warn("session resolution failed", zap.Error(err))
	c.mu.Lock()
	stale := c.gen != gen
	c.mu.Unlock()
	if !stale {
		c.SignOut()
	}
	return err
}

// SignOut returns to Unauthenticated and drops role-derived data.
func (c *Coordinator) SignOut() {
	c.dropSession()
	c.mu.Lock()
	c.gen++
	c.phase = Unauthenticated
	c.role = ""
	c.account = nil
	c.profile = nil
	c.messages = nil
	c.settleView("", false)
	c.mu.Unlock()
	c.changed()
}

func (c *Coordinator) addSessionSub(gen uint64, unsub func()) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		unsub()
		return
	}
	c.sessionSubs = append(c.sessionSubs, unsub)
	c.mu.Unlock()
}

func (c *Coordinator) dropSession() {
	c.mu.Lock()
	subs := c.sessionSubs
	c.sessionSubs = nil
	c.mu.Unlock()
	for _, u := range subs {
		u()
	}
}

// Navigate moves to v if the current role may see it and to home if not.
// While the session is still Initializing or ResolvingRole the request is
// held and decided once the phase settles. It returns the view shown now.
func (c *Coordinator) Navigate(v gates.View) gates.View {
	c.mu.Lock()
	if c.phase == Initializing || c.phase == ResolvingRole {
		c.pending = v
	} else {
		c.view = gates.Resolve(v, c.role, c.phase == Authenticated)
	}
	got := c.view
	c.mu.Unlock()
	c.changed()
	return got
}

// settleView applies a held navigation request, or re-checks the current
// view, against the settled role. Callers hold c.mu.
func (c *Coordinator) settleView(role models.Role, signedIn bool) {
	want := c.view
	if c.pending != "" {
		want = c.pending
		c.pending = ""
	}
	c.view = gates.Resolve(want, role, signedIn)
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Role returns the resolved role, empty when not authenticated.
func (c *Coordinator) Role() models.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Authenticated {
		return ""
	}
	return c.role
}

// Close unsubscribes from every feed.
func (c *Coordinator) Close() {
	c.dropSession()
	c.mu.Lock()
	c.gen++
	mounted := c.mounted
	c.mounted = nil
	c.mu.Unlock()
	for _, u := range mounted {
		u()
	}
}

func (c *Coordinator) changed() {
	if c.cfg.OnChange != nil {
		c.cfg.OnChange()
	}
}

func participantMessages(all []models.Message, me string) []models.Message {
	out := make([]models.Message, 0)
	for _, m := range all {
		if m.SenderID == me || m.ReceiverID == me {
			out = append(out, m)
		}
	}
	return out
}
