package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
)

// UsedQuestionRepository relies on the unique index on question created by the migrations.
type UsedQuestionRepository struct {
	coll *mongo.Collection
}

var _ repository.UsedQuestionRepository = (*UsedQuestionRepository)(nil)

func NewUsedQuestionRepository(db *mongo.Database) *UsedQuestionRepository {
	return &UsedQuestionRepository{coll: db.Collection(UsedQuestionsCollection)}
}

func (r *UsedQuestionRepository) Exists(ctx context.Context, question string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"question": question}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UsedQuestionRepository) Create(ctx context.Context, q *entity.UsedQuestion) error {
	id := primitive.NewObjectID()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	doc := usedQuestionDoc{ID: id, Question: q.Question, Topic: q.Topic, CreatedAt: q.CreatedAt}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	q.ID = id.Hex()
	return nil
}
