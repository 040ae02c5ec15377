// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	assignmentuserstore "github.com/dalemusser/workhub/internal/app/store/assignmentusers"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection is the name of the comments collection.
const Collection = "comentariosAsignaciones"

// MaxContentLength bounds a single comment, in bytes after sanitizing.
const MaxContentLength = 4000

// NewComment is the caller-supplied part of a comment. The id and
// creation time are assigned by the store.
type NewComment struct {
	LinkID    primitive.ObjectID
	AuthorUID primitive.ObjectID
	Contenido string
}

type Store struct {
	c      *mongo.Collection
	links  *assignmentuserstore.Store
	policy *bluemonday.Policy
	log    *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		c:      db.Collection(Collection),
		links:  assignmentuserstore.New(db, log),
		policy: bluemonday.StrictPolicy(),
		log:    log,
	}
}

// Create stores a comment on an existing link. Markup is stripped, the
// text is trimmed and must not end up empty.
func (s *Store) Create(ctx context.Context, in NewComment) (models.Comment, error) {
	content, err := s.clean(in.Contenido)
	if err != nil {
		return models.Comment{}, err
	}
	if in.AuthorUID.IsZero() {
		return models.Comment{}, apperr.Invalid("author is required")
	}

	ok, err := s.links.Exists(ctx, in.LinkID)
	if err != nil {
		return models.Comment{}, err
	}
	if !ok {
		return models.Comment{}, apperr.NotFound("assignment link")
	}

	c := models.Comment{
		ID:                   primitive.NewObjectID(),
		IDAsignacionXUsuario: in.LinkID,
		UIDUsuario:           in.AuthorUID,
		Contenido:            content,
		FechaCreacion:        time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		s.log.Error("insert comment failed", zap.String("link_id", in.LinkID.Hex()), zap.Error(err))
		return models.Comment{}, apperr.Backend("create comment", err)
	}
	return c, nil
}

// GetByID loads one comment.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var c models.Comment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Comment{}, apperr.NotFound("comment")
	}
	if err != nil {
		s.log.Error("get comment failed", zap.String("comment_id", id.Hex()), zap.Error(err))
		return models.Comment{}, apperr.Backend("get comment", err)
	}
	return c, nil
}

// ListByLink returns the thread of one link in creation order. Comments
// survive removal of their link, so this also serves orphaned threads.
func (s *Store) ListByLink(ctx context.Context, linkID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fechaCreacion", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"id_asignacionXusuario": linkID}, opts)
	if err != nil {
		s.log.Error("list comments failed", zap.String("link_id", linkID.Hex()), zap.Error(err))
		return nil, apperr.Backend("list comments", err)
	}
	defer cur.Close(ctx)

	out := []models.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		s.log.Error("decode comments failed", zap.Error(err))
		return nil, apperr.Backend("list comments", err)
	}
	return out, nil
}

// Update replaces the content of a comment.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, contenido string) (models.Comment, error) {
	content, err := s.clean(contenido)
	if err != nil {
		return models.Comment{}, err
	}

	var c models.Comment
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"contenido": content, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Comment{}, apperr.NotFound("comment")
	}
	if err != nil {
		s.log.Error("update comment failed", zap.String("comment_id", id.Hex()), zap.Error(err))
		return models.Comment{}, apperr.Backend("update comment", err)
	}
	return c, nil
}

// Delete removes a comment.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.log.Error("delete comment failed", zap.String("comment_id", id.Hex()), zap.Error(err))
		return apperr.Backend("delete comment", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

// clean strips markup from raw. The policy entity-encodes the text it
// keeps, which is decoded again: comments are stored as plain text and
// escaping is left to whoever renders them.
func (s *Store) clean(raw string) (string, error) {
	content := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
	if content == "" {
		return "", apperr.Invalid("contenido must not be empty")
	}
	if len(content) > MaxContentLength {
		return "", apperr.Invalid("contenido is too long")
	}
	return content, nil
}
