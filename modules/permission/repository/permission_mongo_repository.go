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

type MongoPermissionRepository struct {
	permissionCollection *mongo.Collection
}

func NewMongoPermissionRepository(db *mongo.Database) *MongoPermissionRepository {
	return &MongoPermissionRepository{
		permissionCollection: db.Collection(database.PermissionCollection),
	}
}

func buildQuery(filter *domain.PermissionFilter) bson.M {
	query := bson.M{"active": true, "deleted_at": int64(0)}
	if filter == nil {
		return query
	}
	if filter.Name != nil {
		query["name"] = *filter.Name
	}
	if filter.Resource != nil {
		query["resource"] = *filter.Resource
	}
	return query
}

func (m *MongoPermissionRepository) FindAll(ctx context.Context, filter *domain.PermissionFilter) ([]*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.permissionCollection.Find(ctx, buildQuery(filter), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var perms []domain.Permission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, err
	}

	out := make([]*domain.Permission, len(perms))
	for i := range perms {
		out[i] = &perms[i]
	}
	return out, nil
}

func (m *MongoPermissionRepository) FindByName(ctx context.Context, name string) (*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var perm domain.Permission
	err := m.permissionCollection.FindOne(ctx, buildQuery(&domain.PermissionFilter{Name: &name})).Decode(&perm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (m *MongoPermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	permission.Active = true
	permission.Stamp(utils.NowUnixMillis())

	_, err := m.permissionCollection.InsertOne(ctx, permission)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateKey
	}
	return err
}
