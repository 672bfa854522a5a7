package users

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

type userDocument struct {
	ID                string    `bson:"_id"`
	IdentityID        string    `bson:"identityId"`
	Email             string    `bson:"email"`
	Name              string    `bson:"name"`
	Photo             string    `bson:"photo,omitempty"`
	Mobile            string    `bson:"mobile,omitempty"`
	Address           string    `bson:"address,omitempty"`
	WardNumber        int       `bson:"wardNumber,omitempty"`
	AadharPhoto       string    `bson:"aadharPhoto,omitempty"`
	Role              string    `bson:"role"`
	IsVerified        bool      `bson:"isVerified"`
	IsProfileComplete bool      `bson:"isProfileComplete"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

// MongoRepository persists accounts in the users collection.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoRepository binds the repository to the users collection.
func NewMongoRepository(client *mongostore.Client) *MongoRepository {
	return &MongoRepository{
		coll: client.Collection(mongostore.UsersCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongostore.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *MongoRepository) FindByIdentityID(ctx context.Context, identityID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"identityId": identityID})
}

func (r *MongoRepository) Save(ctx context.Context, user *models.User) error {
	user.UpdatedAt = r.now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID.String()}, toUserDocument(user))
	if err != nil {
		if mongostore.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) ListByRole(ctx context.Context, role enums.Role) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"role": string(role)}, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		user, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *user)
	}
	return out, nil
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

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if mongostore.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

func toUserDocument(u *models.User) userDocument {
	return userDocument{
		ID:                u.ID.String(),
		IdentityID:        u.IdentityID,
		Email:             u.Email,
		Name:              u.Name,
		Photo:             u.Photo,
		Mobile:            u.Mobile,
		Address:           u.Address,
		WardNumber:        u.WardNumber,
		AadharPhoto:       u.AadharPhoto,
		Role:              string(u.Role),
		IsVerified:        u.IsVerified,
		IsProfileComplete: u.IsProfileComplete,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (d userDocument) toModel() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:                id,
		IdentityID:        d.IdentityID,
		Email:             d.Email,
		Name:              d.Name,
		Photo:             d.Photo,
		Mobile:            d.Mobile,
		Address:           d.Address,
		WardNumber:        d.WardNumber,
		AadharPhoto:       d.AadharPhoto,
		Role:              enums.Role(d.Role),
		IsVerified:        d.IsVerified,
		IsProfileComplete: d.IsProfileComplete,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}
