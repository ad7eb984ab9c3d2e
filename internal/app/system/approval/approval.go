// Package approval merges the two candidacy collections into one queue and
// applies an admin's decision to the collection a candidate came from.
package approval

import (
	"context"
	"errors"
	"fmt"
	"sort"

	applicationstore "github.com/dalemusser/leaguehub/internal/app/store/applications"
	enrollmentstore "github.com/dalemusser/leaguehub/internal/app/store/enrollments"
	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/txn"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrUnknownSource     = errors.New("unknown candidate source")
)

// Service applies candidate decisions.
type Service struct {
	client *mongo.Client
	enr    *enrollmentstore.Store
	apps   *applicationstore.Store
	roster *memberstore.Store
	users  *userstore.Store
	log    *zap.Logger
}

// New builds a Service over db.
func New(db *mongo.Database, log *zap.Logger) *Service {
	return &Service{
		client: db.Client(),
		enr:    enrollmentstore.New(db),
		apps:   applicationstore.New(db),
		roster: memberstore.New(db),
		users:  userstore.New(db),
		log:    log,
	}
}

// List returns every pending candidate from both sources, newest first.
func (s *Service) List(ctx context.Context) ([]models.Candidate, error) {
	enrs, err := s.enr.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	apps, err := s.apps.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return Merge(enrs, apps), nil
}

// Merge tags each row with its source and orders the result newest first.
func Merge(enrs []models.Enrollment, apps []models.Application) []models.Candidate {
	out := make([]models.Candidate, 0, len(enrs)+len(apps))
	for _, e := range enrs {
		out = append(out, models.LabCandidate{Enrollment: e})
	}
	for _, a := range apps {
		out = append(out, models.GeneralCandidate{Application: a})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].View().Timestamp.Time().After(out[j].View().Timestamp.Time())
	})
	return out
}

// Views projects candidates onto their shared fields.
func Views(cs []models.Candidate) []models.CandidateView {
	out := make([]models.CandidateView, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.View())
	}
	return out
}

// Get loads one candidate by source and id.
func (s *Service) Get(ctx context.Context, source models.CandidateSource, id primitive.ObjectID) (models.Candidate, error) {
	switch source {
	case models.SourceLab:
		e, err := s.enr.GetByID(ctx, id)
		if errors.Is(err, enrollmentstore.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		if err != nil {
			return nil, err
		}
		return models.LabCandidate{Enrollment: e}, nil
	case models.SourceGeneral:
		a, err := s.apps.GetByID(ctx, id)
		if errors.Is(err, applicationstore.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		if err != nil {
			return nil, err
		}
		return models.GeneralCandidate{Application: a}, nil
	}
	return nil, ErrUnknownSource
}

// Approve puts the candidate on the roster, upgrades a matching profile to
// member and removes the candidacy. The steps run in one transaction when
// the deployment allows it. A candidate that no longer exists yields
// ErrCandidateNotFound and nothing is written.
func (s *Service) Approve(ctx context.Context, source models.CandidateSource, id primitive.ObjectID) (models.Member, error) {
	var member models.Member
	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		c, err := s.Get(ctx, source, id)
		if err != nil {
			return err
		}
		v := c.View()

		member, err = s.roster.Upsert(ctx, models.Member{
			FullName: v.FullName,
			Email:    v.Email,
			Role:     source.RosterTitle(),
			PhotoURL: models.AvatarURL(v.FullName),
		})
		if err != nil {
			return fmt.Errorf("roster upsert: %w", err)
		}
		if _, err := s.users.PromoteByEmail(ctx, v.Email); err != nil {
			return fmt.Errorf("promote profile: %w", err)
		}
		return s.remove(ctx, source, id)
	})
	if err != nil {
		return models.Member{}, err
	}
	return member, nil
}

// Waitlist marks the candidacy as waiting_list.
func (s *Service) Waitlist(ctx context.Context, source models.CandidateSource, id primitive.ObjectID) error {
	var err error
	switch source {
	case models.SourceLab:
		err = s.enr.SetStatus(ctx, id, models.CandidateWaitlisted)
		if errors.Is(err, enrollmentstore.ErrNotFound) {
			return ErrCandidateNotFound
		}
	case models.SourceGeneral:
		err = s.apps.SetStatus(ctx, id, models.CandidateWaitlisted)
		if errors.Is(err, applicationstore.ErrNotFound) {
			return ErrCandidateNotFound
		}
	default:
		return ErrUnknownSource
	}
	return err
}

// Reject deletes the candidacy.
func (s *Service) Reject(ctx context.Context, source models.CandidateSource, id primitive.ObjectID) error {
	return s.remove(ctx, source, id)
}

func (s *Service) remove(ctx context.Context, source models.CandidateSource, id primitive.ObjectID) error {
	var err error
	switch source {
	case models.SourceLab:
		err = s.enr.Delete(ctx, id)
		if errors.Is(err, enrollmentstore.ErrNotFound) {
			return ErrCandidateNotFound
		}
	case models.SourceGeneral:
		err = s.apps.Delete(ctx, id)
		if errors.Is(err, applicationstore.ErrNotFound) {
			return ErrCandidateNotFound
		}
	default:
		return ErrUnknownSource
	}
	return err
}
