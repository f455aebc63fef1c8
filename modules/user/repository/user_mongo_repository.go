package repository

import (
	"context"
	"errors"
	"time"

	"go-rbac-api/database"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

type MongoUserRepository struct {
	userCollection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		userCollection: db.Collection(database.UserCollection),
	}
}

func (m *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if user.Roles == nil {
		user.Roles = domain.StringSlice{}
	}
	user.Stamp(utils.NowUnixMillis())

	_, err := m.userCollection.InsertOne(ctx, user)
	return translateMongoError(err)
}

func (m *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter["deleted_at"] = int64(0)

	var user domain.User
	if err := m.userCollection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

func (m *MongoUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"_id": userID})
}

func (m *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"email": email})
}

func (m *MongoUserRepository) FindByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrRecordNotFound
	}
	return m.findOne(ctx, bson.M{"refresh_token": token})
}

func (m *MongoUserRepository) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if option == nil {
		option = &domain.FindPageOption{}
	}
	option.Normalize()

	query := buildUserQuery(filter)
	total, err := m.userCollection.CountDocuments(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64(option.Offset())).
		SetLimit(int64(option.PerPage))
	cursor, err := m.userCollection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, nil, err
	}

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, nil, err
	}

	out := make([]*domain.User, len(users))
	for i := range users {
		out[i] = &users[i]
	}
	return out, domain.NewPagination(option.Page, option.PerPage, total), nil
}

func buildUserQuery(filter *domain.UserFilter) bson.M {
	query := bson.M{}
	if filter == nil || filter.IncludeDeleted == nil || !*filter.IncludeDeleted {
		query["deleted_at"] = int64(0)
	}
	if filter == nil {
		return query
	}
	if filter.ID != nil {
		query["_id"] = *filter.ID
	}
	if len(filter.IDIn) > 0 {
		query["_id"] = bson.M{"$in": filter.IDIn}
	}
	if filter.Email != nil {
		query["email"] = *filter.Email
	}
	return query
}

func (m *MongoUserRepository) SetRefreshToken(ctx context.Context, userID string, token string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": utils.NowUnixMillis()}}
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": ""},
			"$set":   bson.M{"updated_at": utils.NowUnixMillis()},
		}
	}

	result, err := m.userCollection.UpdateOne(ctx, bson.M{"_id": userID, "deleted_at": int64(0)}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (m *MongoUserRepository) SoftDelete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := utils.NowUnixMillis()
	result, err := m.userCollection.UpdateOne(ctx, bson.M{"_id": userID, "deleted_at": int64(0)}, bson.M{
		"$set":   bson.M{"deleted_at": now, "updated_at": now},
		"$unset": bson.M{"refresh_token": ""},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrRecordNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrDuplicateKey
	default:
		return err
	}
}
