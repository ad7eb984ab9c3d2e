// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionIndexes is the desired index set of one collection.
type collectionIndexes struct {
	name   string
	models []mongo.IndexModel
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func unique(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

// desired lists every collection the service reads by something other than _id.
func desired() []collectionIndexes {
	return []collectionIndexes{
		{"accounts", []mongo.IndexModel{
			unique("idx_accounts_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_accounts_google", bson.D{{Key: "google_id", Value: 1}}),
		}},
		{"users", []mongo.IndexModel{
			unique("idx_users_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_users_role", bson.D{{Key: "role", Value: 1}}),
		}},
		// One roster row per email: approval upserts rely on it.
		{"membros", []mongo.IndexModel{
			unique("idx_membros_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_membros_name", bson.D{{Key: "full_name", Value: 1}}),
		}},
		{"cronograma", []mongo.IndexModel{
			idx("idx_cronograma_date", bson.D{{Key: "date", Value: 1}}),
		}},
		{"projetos", []mongo.IndexModel{
			idx("idx_projetos_ts", bson.D{{Key: "timestamp", Value: -1}}),
		}},
		{"enrollments", []mongo.IndexModel{
			idx("idx_enrollments_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_enrollments_activity", bson.D{{Key: "activity_id", Value: 1}}),
		}},
		{"inscricoes", []mongo.IndexModel{
			idx("idx_inscricoes_email", bson.D{{Key: "email", Value: 1}}),
		}},
		{"presencas", []mongo.IndexModel{
			idx("idx_presencas_email_ts", bson.D{{Key: "email_aluno", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_presencas_event", bson.D{{Key: "id_evento", Value: 1}}),
		}},
		{"posts", []mongo.IndexModel{
			idx("idx_posts_ts", bson.D{{Key: "timestamp", Value: -1}}),
		}},
		{"chat_messages", []mongo.IndexModel{
			idx("idx_chat_pair_ts", bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "timestamp", Value: 1}}),
			idx("idx_chat_unread", bson.D{{Key: "receiver_id", Value: 1}, {Key: "read", Value: 1}}),
		}},
		{"notices", []mongo.IndexModel{
			idx("idx_notices_ts", bson.D{{Key: "timestamp", Value: -1}}),
		}},
		{"member_docs", []mongo.IndexModel{
			idx("idx_member_docs_email_ts", bson.D{{Key: "member_email", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_ts", bson.D{{Key: "timestamp", Value: -1}}),
			idx("idx_audit_user_ts", bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_audit_type_ts", bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_audit_subject_ts", bson.D{{Key: "subject", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
		{"oauth_states", []mongo.IndexModel{
			unique("idx_oauth_state", bson.D{{Key: "state", Value: 1}}),
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_ttl"),
			},
		}},
	}
}

/*
EnsureAll is called from EnsureSchema at startup. It is idempotent.
Problems are aggregated so every bad collection shows up in one error
and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	var problems []string
	for _, ci := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(ci.name), ci.models, log); err != nil {
			problems = append(problems, ci.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(p *bool) bool { return p != nil && *p }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB return IndexOptionsConflict when the same keys already exist
// under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection, log *zap.Logger) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var ex existingIndex
		if err := cur.Decode(&ex); err != nil {
			log.Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(ex.Key)] = ex
	}
	return existing
}

func createErr(coll *mongo.Collection, name, sig string, wantUnique bool, err error) string {
	if isDuplicateKeyErr(err) && wantUnique {
		helper := ""
		if strings.Contains(sig, "email:1") {
			helper = fmt.Sprintf(" (find them with db.%s.aggregate([{ $group: { _id: \"$email\", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }]))", coll.Name())
		}
		return fmt.Sprintf("%s(%s): cannot create unique index, duplicates present%s", coll.Name(), name, helper)
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), name, err)
}

// recreate drops the index called oldName and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, oldName string, m mongo.IndexModel, name, sig string, wantUnique bool) error {
	if _, err := coll.Indexes().DropOne(ctx, oldName); err != nil {
		return fmt.Errorf("%s(%s): drop %s failed: %v", coll.Name(), name, oldName, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		return errors.New(createErr(coll, name, sig, wantUnique, err))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	var errs []string

	for _, m := range models {
		var name string
		var wantUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			wantUnique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(wantUnique)),
		}

		existing := listExisting(ctx, coll, log)

		if ex, ok := existing[sig]; ok {
			switch {
			case boolVal(wantUnique) == boolVal(ex.Unique) && (name == "" || ex.Name == name):
				log.Debug("reusing existing index", fields...)
			case boolVal(wantUnique) == boolVal(ex.Unique):
				// Same keys and options, different name.
				if err := recreate(ctx, coll, ex.Name, m, name, sig, boolVal(wantUnique)); err != nil {
					errs = append(errs, err.Error())
					continue
				}
				log.Info("index renamed", append(fields, zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))...)
			default:
				// Options changed (e.g. upgrading to unique).
				if err := recreate(ctx, coll, ex.Name, m, name, sig, boolVal(wantUnique)); err != nil {
					errs = append(errs, err.Error())
					continue
				}
				log.Info("index dropped and recreated", append(fields, zap.Duration("took", time.Since(start)))...)
			}
			continue
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				if ex, ok := listExisting(ctx, coll, log)[sig]; ok {
					if rerr := recreate(ctx, coll, ex.Name, m, name, sig, boolVal(wantUnique)); rerr != nil {
						errs = append(errs, rerr.Error())
					}
					continue
				}
			}
			log.Warn("index ensure failed", append(fields, zap.Error(err))...)
			errs = append(errs, createErr(coll, name, sig, boolVal(wantUnique), err))
			continue
		}
		log.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
