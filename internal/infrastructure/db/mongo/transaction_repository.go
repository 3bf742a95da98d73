package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

const collectionTransactions = "transactions"

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type transactionDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Type     string             `bson:"type"`
	Amount   float64            `bson:"amount"`
	Date     time.Time          `bson:"date"`
}

func (d *transactionDocument) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Type:     d.Type,
		Amount:   d.Amount,
		Date:     d.Date,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := transactionDocument{
		Username: t.Username,
		Type:     t.Type,
		Amount:   t.Amount,
		Date:     t.Date.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid.Hex()
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc transactionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TransactionRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Transaction, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Transaction{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// List applies filter and returns matches in date order.
func (r *TransactionRepository) List(ctx context.Context, filter ports.TransactionFilter) ([]*domain.Transaction, error) {
	return r.find(ctx, buildTransactionFilter(filter))
}

func buildTransactionFilter(f ports.TransactionFilter) bson.M {
	q := bson.M{}
	if len(f.Usernames) > 0 {
		q["username"] = bson.M{"$in": f.Usernames}
	}
	if f.Type != "" {
		q["type"] = f.Type
	}

	date := bson.M{}
	if !f.DateFrom.IsZero() {
		date["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		date["$lte"] = f.DateTo.UTC()
	}
	if len(date) > 0 {
		q["date"] = date
	}

	amount := bson.M{}
	if f.MinAmount != nil {
		amount["$gte"] = *f.MinAmount
	}
	if f.MaxAmount != nil {
		amount["$lte"] = *f.MaxAmount
	}
	if len(amount) > 0 {
		q["amount"] = amount
	}
	return q
}

func (r *TransactionRepository) SetType(ctx context.Context, from []string, to string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"type": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"type": to}},
	)
	if err != nil {
		return 0, fmt.Errorf("update transaction types: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *TransactionRepository) DeleteOwned(ctx context.Context, id, username string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	return r.deleteMany(ctx, bson.M{"_id": oid, "username": username})
}

func (r *TransactionRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
}

func (r *TransactionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"username": username})
}

// EnsureIndexes creates the indexes backing the per-user and per-category listings.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *TransactionRepository) find(ctx context.Context, filter bson.M) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	var docs []transactionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	out := make([]*domain.Transaction, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *TransactionRepository) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return res.DeletedCount, nil
}
