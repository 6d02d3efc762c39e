package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
)

type UserRepository struct {
	coll *mongo.Collection
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	doc, err := toUserDoc(u)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var d userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mapErr(err)
	}
	return d.toEntity(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByEmailToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"emailToken": token})
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"resetPasswordToken": token})
}

// GetPublicProfiles resolves ids in one query; unknown or malformed ids are skipped.
func (r *UserRepository) GetPublicProfiles(ctx context.Context, ids []string) (map[string]entity.PublicProfile, error) {
	out := make(map[string]entity.PublicProfile, len(ids))
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "profileImage": 1})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	for cur.Next(ctx) {
		var d publicDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		p := d.toEntity()
		out[p.ID] = p
	}
	return out, cur.Err()
}

// Save replaces the whole document, inserting it when missing.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	doc, err := toUserDoc(u)
	if err != nil {
		return err
	}
	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return mapErr(err)
}
