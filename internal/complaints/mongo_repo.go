package complaints

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
	mongostore "github.com/halisahar-connect/civic-portal/pkg/mongo"
)

type complaintDocument struct {
	ID               string     `bson:"_id"`
	UserID           string     `bson:"userId"`
	Category         string     `bson:"category"`
	OtherDescription string     `bson:"otherDescription,omitempty"`
	ImageURL         string     `bson:"imageUrl"`
	ImageURLs        []string   `bson:"imageUrls"`
	Latitude         float64    `bson:"latitude"`
	Longitude        float64    `bson:"longitude"`
	Address          string     `bson:"address"`
	WardNumber       int        `bson:"wardNumber"`
	Status           string     `bson:"status"`
	SolutionImageURL string     `bson:"solutionImageUrl,omitempty"`
	ResolutionNote   string     `bson:"resolutionNote,omitempty"`
	ResolvedAt       *time.Time `bson:"resolvedAt"`
	CreatedAt        time.Time  `bson:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt"`
}

// MongoRepository persists complaints in the complaints collection.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoRepository binds the repository to the complaints collection.
func NewMongoRepository(client *mongostore.Client) *MongoRepository {
	return &MongoRepository{
		coll: client.Collection(mongostore.ComplaintsCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *MongoRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	now := r.now()
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = now
	}
	complaint.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toComplaintDocument(complaint))
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var doc complaintDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if mongostore.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error) {
	return r.find(ctx, bson.M{"userId": userID.String()})
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]models.Complaint, error) {
	return r.find(ctx, listFilterDocument(filter))
}

func (r *MongoRepository) Save(ctx context.Context, complaint *models.Complaint) error {
	complaint.UpdatedAt = r.now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": complaint.ID.String()}, toComplaintDocument(complaint))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) CountByStatus(ctx context.Context, userID *uuid.UUID) (map[enums.ComplaintStatus]int64, error) {
	cur, err := r.coll.Aggregate(ctx, countPipeline(userID))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[enums.ComplaintStatus]int64, len(rows))
	for _, row := range rows {
		counts[enums.ComplaintStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []complaintDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Complaint, 0, len(docs))
	for _, doc := range docs {
		complaint, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *complaint)
	}
	return out, nil
}

func listFilterDocument(filter ListFilter) bson.M {
	doc := bson.M{}
	if filter.WardNumber != nil {
		doc["wardNumber"] = *filter.WardNumber
	}
	if filter.Category != nil {
		doc["category"] = string(*filter.Category)
	}
	if filter.Status != nil {
		doc["status"] = string(*filter.Status)
	}
	return doc
}

func countPipeline(userID *uuid.UUID) mongo.Pipeline {
	match := bson.M{}
	if userID != nil {
		match["userId"] = userID.String()
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func toComplaintDocument(c *models.Complaint) complaintDocument {
	images := append([]string{}, c.ImageURLs...)
	return complaintDocument{
		ID:               c.ID.String(),
		UserID:           c.UserID.String(),
		Category:         string(c.Category),
		OtherDescription: c.OtherDescription,
		ImageURL:         c.ImageURL,
		ImageURLs:        images,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		Address:          c.Address,
		WardNumber:       c.WardNumber,
		Status:           string(c.Status),
		SolutionImageURL: c.SolutionImageURL,
		ResolutionNote:   c.ResolutionNote,
		ResolvedAt:       c.ResolvedAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (d complaintDocument) toModel() (*models.Complaint, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	return &models.Complaint{
		ID:               id,
		UserID:           userID,
		Category:         enums.ComplaintCategory(d.Category),
		OtherDescription: d.OtherDescription,
		ImageURL:         d.ImageURL,
		ImageURLs:        append([]string{}, d.ImageURLs...),
		Latitude:         d.Latitude,
		Longitude:        d.Longitude,
		Address:          d.Address,
		WardNumber:       d.WardNumber,
		Status:           enums.ComplaintStatus(d.Status),
		SolutionImageURL: d.SolutionImageURL,
		ResolutionNote:   d.ResolutionNote,
		ResolvedAt:       d.ResolvedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}
