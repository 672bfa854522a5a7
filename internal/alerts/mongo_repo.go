package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	mongostore "github.com/halisahar-connect/civic-portal/pkg/mongo"
)

type alertDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Message   string    `bson:"message"`
	Ward      string    `bson:"ward"`
	Date      string    `bson:"date"`
	Time      string    `bson:"time"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MongoRepository persists alerts in the alerts collection.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoRepository binds the repository to the alerts collection.
func NewMongoRepository(client *mongostore.Client) *MongoRepository {
	return &MongoRepository{
		coll: client.Collection(mongostore.AlertsCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *MongoRepository) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = r.now()
	}
	_, err := r.coll.InsertOne(ctx, toAlertDocument(alert))
	return err
}

func (r *MongoRepository) ListByWards(ctx context.Context, wards []string) ([]models.Alert, error) {
	return r.find(ctx, wardsFilter(wards))
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]models.Alert, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Alert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []alertDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Alert, 0, len(docs))
	for _, doc := range docs {
		alert, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *alert)
	}
	return out, nil
}

func wardsFilter(wards []string) bson.M {
	return bson.M{"ward": bson.M{"$in": wards}}
}

func toAlertDocument(a *models.Alert) alertDocument {
	return alertDocument{
		ID:        a.ID.String(),
		Title:     a.Title,
		Message:   a.Message,
		Ward:      a.Ward,
		Date:      a.Date,
		Time:      a.Time,
		CreatedAt: a.CreatedAt,
	}
}

func (d alertDocument) toModel() (*models.Alert, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &models.Alert{
		ID:        id,
		Title:     d.Title,
		Message:   d.Message,
		Ward:      d.Ward,
		Date:      d.Date,
		Time:      d.Time,
		CreatedAt: d.CreatedAt,
	}, nil
}
