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

/*
EnsureAll is called at startup. Each index set is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	sets := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{"areas", areaIndexes()},
		{"cargos", positionIndexes()},
		{"usuarios", userIndexes()},
		{"asignaciones", assignmentIndexes()},
		{"asignacionesXusuario", linkIndexes()},
		{"comentariosAsignaciones", commentIndexes()},
		{"cuentas", accountIndexes()},
		{"password_resets", passwordResetIndexes()},
		{"audit_logs", auditIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.collection), s.models); err != nil {
			problems = append(problems, s.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
	TTL    *int32 `bson:"expireAfterSeconds,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }
func int32Val(i *int32) int32 {
	if i == nil {
		return -1
	}
	return *i
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates each desired index unless one with the same key
// pattern and options already exists. An index with the same keys but a
// different name, uniqueness or TTL is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		opts := m.Options
		name := ""
		if opts.Name != nil {
			name = *opts.Name
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(opts.Unique)),
		}

		if ex, ok := existing[sig]; ok {
			if ex.Name == name && boolVal(ex.Unique) == boolVal(opts.Unique) && int32Val(ex.TTL) == int32Val(opts.ExpireAfterSeconds) {
				zap.L().Debug("reusing existing index", fields...)
				continue
			}
			zap.L().Info("replacing index with mismatched options",
				append(fields, zap.String("existing_name", ex.Name))...)
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			if isDuplicateKeyErr(err) && boolVal(opts.Unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		zap.L().Info("index ensured", append(fields, zap.String("took", time.Since(start).String()))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func areaIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Area names are unique after case and accent folding.
		{
			Keys:    bson.D{{Key: "nombre_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_areas_nombreci"),
		},
	}
}

func positionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Position names are unique within one area only.
		{
			Keys:    bson.D{{Key: "idAreaTrabajo", Value: 1}, {Key: "nombre_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_cargos_area_nombreci"),
		},
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "correoElectronico", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_usuarios_correo"),
		},
		{
			Keys:    bson.D{{Key: "puestoTrabajo", Value: 1}},
			Options: options.Index().SetName("idx_usuarios_puesto"),
		},
	}
}

func assignmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// "created by me" listing for supervisors
		{
			Keys:    bson.D{{Key: "creadoPor", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_asignaciones_creadopor_created"),
		},
	}
}

func linkIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// One link per (assignment, user).
		{
			Keys:    bson.D{{Key: "id_asignacion", Value: 1}, {Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_axu_asignacion_uid"),
		},
		// "my assignments" listing
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_axu_uid"),
		},
	}
}

func commentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Thread read in creation order.
		{
			Keys:    bson.D{{Key: "id_asignacionXusuario", Value: 1}, {Key: "fechaCreacion", Value: 1}},
			Options: options.Index().SetName("idx_comentarios_axu_fecha"),
		},
	}
}

func accountIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_cuentas_email"),
		},
	}
}

func passwordResetIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_resets_token"),
		},
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}},
			Options: options.Index().SetName("idx_resets_account"),
		},
		// Expired tokens are removed by the server.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_resets_expires"),
		},
	}
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_created"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_created"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_created"),
		},
	}
}
