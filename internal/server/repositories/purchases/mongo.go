package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stylish/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is shared with documents written by earlier deployments.
const CollectionName = "data"

type lineItemDocument struct {
	ProductID    string  `bson:"productId"`
	ProductName  string  `bson:"productName"`
	Quantity     int     `bson:"quantity"`
	PricePerItem float64 `bson:"pricePerItem"`
}

type purchaseDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId"`
	Products        []lineItemDocument `bson:"products"`
	TotalAmount     float64            `bson:"totalAmount"`
	ShippingAddress *string            `bson:"shippingAddress"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d *purchaseDocument) toModel() models.Purchase {
	items := make([]models.LineItem, 0, len(d.Products))
	for _, it := range d.Products {
		items = append(items, models.LineItem(it))
	}
	return models.Purchase{
		ID:              d.ID.Hex(),
		UserID:          d.UserID.Hex(),
		Products:        items,
		TotalAmount:     d.TotalAmount,
		ShippingAddress: d.ShippingAddress,
		Status:          models.PurchaseStatus(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the compound index serving the history query.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, p *models.Purchase) (*models.Purchase, error) {
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", p.UserID, err)
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	doc := purchaseDocument{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Products:        make([]lineItemDocument, 0, len(p.Products)),
		TotalAmount:     p.TotalAmount,
		ShippingAddress: p.ShippingAddress,
		Status:          string(p.Status),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range p.Products {
		doc.Products = append(doc.Products, lineItemDocument(it))
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.ID = doc.ID.Hex()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.Purchase{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	result := []models.Purchase{}
	for cur.Next(ctx) {
		var doc purchaseDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
