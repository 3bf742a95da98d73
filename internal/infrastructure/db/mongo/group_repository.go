package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

const collectionGroups = "groups"

type GroupRepository struct {
	col *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{col: db.Collection(collectionGroups)}
}

type memberDocument struct {
	Email string `bson:"email"`
	User  string `bson:"user,omitempty"`
}

type groupDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Members []memberDocument   `bson:"members"`
}

func toMemberDocuments(members []domain.Member) []memberDocument {
	out := make([]memberDocument, 0, len(members))
	for _, m := range members {
		out = append(out, memberDocument{Email: m.Email, User: m.UserID})
	}
	return out
}

func (d *groupDocument) toDomain() *domain.Group {
	g := &domain.Group{ID: d.ID.Hex(), Name: d.Name, Members: make([]domain.Member, 0, len(d.Members))}
	for _, m := range d.Members {
		g.Members = append(g.Members, domain.Member{Email: m.Email, UserID: m.User})
	}
	return g
}

func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, groupDocument{Name: g.Name, Members: toMemberDocuments(g.Members)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrGroupExists
		}
		return fmt.Errorf("insert group: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		g.ID = oid.Hex()
	}
	return nil
}

func (r *GroupRepository) FindByName(ctx context.Context, name string) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc groupDocument
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GroupRepository) FindByMemberEmails(ctx context.Context, emails []string) ([]*domain.Group, error) {
	if len(emails) == 0 {
		return []*domain.Group{}, nil
	}
	return r.find(ctx, bson.M{"members.email": bson.M{"$in": emails}})
}

func (r *GroupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	return r.find(ctx, bson.M{})
}

func (r *GroupRepository) SetMembers(ctx context.Context, name string, members []domain.Member) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"members": toMemberDocuments(members)}},
	)
	if err != nil {
		return fmt.Errorf("update group members: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) PullMember(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"members.email": email},
		bson.M{"$pull": bson.M{"members": bson.M{"email": email}}},
	)
	if err != nil {
		return false, fmt.Errorf("pull group member: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *GroupRepository) DeleteByName(ctx context.Context, name string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"name": name})
}

func (r *GroupRepository) DeleteEmpty(ctx context.Context) (int64, error) {
	return r.deleteMany(ctx, bson.M{"members": bson.M{"$size": 0}})
}

func (r *GroupRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "members.email", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *GroupRepository) find(ctx context.Context, filter bson.M) ([]*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	var docs []groupDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}

	out := make([]*domain.Group, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *GroupRepository) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete groups: %w", err)
	}
	return res.DeletedCount, nil
}
