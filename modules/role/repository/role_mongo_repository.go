package repository

import (
	"context"
	"errors"
	"time"

	"go-rbac-api/database"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

type MongoRoleRepository struct {
	roleCollection *mongo.Collection
}

func NewMongoRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{
		roleCollection: db.Collection(database.RoleCollection),
	}
}

func activeRole(name string) bson.M {
	return bson.M{"name": name, "active": true}
}

func (m *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var role domain.Role
	if err := m.roleCollection.FindOne(ctx, activeRole(name)).Decode(&role); err != nil {
		return nil, translateMongoError(err)
	}
	return &role, nil
}

// ExistsByName reports whether any document, deactivated ones included, carries name.
func (m *MongoRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	count, err := m.roleCollection.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *MongoRoleRepository) FindAll(ctx context.Context) ([]*domain.Role, error) {
	return m.find(ctx, bson.M{"active": true})
}

func (m *MongoRoleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.roleCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var roles []domain.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}

	out := make([]*domain.Role, len(roles))
	for i := range roles {
		out[i] = &roles[i]
	}
	return out, nil
}

func (m *MongoRoleRepository) GetPermissionsForRoles(ctx context.Context, names []string) ([]string, error) {
	names = lo.Uniq(names)
	if len(names) == 0 {
		return []string{}, nil
	}
	roles, err := m.find(ctx, bson.M{"name": bson.M{"$in": names}, "active": true})
	if err != nil {
		return nil, err
	}
	return unionPermissions(roles), nil
}

func (m *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if role.Permissions == nil {
		role.Permissions = domain.StringSlice{}
	}
	role.Active = true
	role.Stamp(utils.NowUnixMillis())

	_, err := m.roleCollection.InsertOne(ctx, role)
	return translateMongoError(err)
}

func (m *MongoRoleRepository) ReplacePermissions(ctx context.Context, name string, perms []string) (*domain.Role, error) {
	return m.update(ctx, name, bson.M{
		"$set": bson.M{
			"permissions": domain.ReplacedPermissions(perms),
			"updated_at":  utils.NowUnixMillis(),
		},
	})
}

func (m *MongoRoleRepository) AddPermissions(ctx context.Context, name string, perms []string) (*domain.Role, error) {
	return m.update(ctx, name, bson.M{
		"$addToSet": bson.M{"permissions": bson.M{"$each": lo.Uniq(perms)}},
		"$set":      bson.M{"updated_at": utils.NowUnixMillis()},
	})
}

func (m *MongoRoleRepository) RemovePermissions(ctx context.Context, name string, perms []string) (*domain.Role, error) {
	return m.update(ctx, name, bson.M{
		"$pull": bson.M{"permissions": bson.M{"$in": lo.Uniq(perms)}},
		"$set":  bson.M{"updated_at": utils.NowUnixMillis()},
	})
}

// update applies a single-document update, so concurrent edits to one role are atomic.
func (m *MongoRoleRepository) update(ctx context.Context, name string, update bson.M) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var role domain.Role
	err := m.roleCollection.FindOneAndUpdate(ctx, activeRole(name), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&role)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &role, nil
}

func (m *MongoRoleRepository) SoftDelete(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := utils.NowUnixMillis()
	result, err := m.roleCollection.UpdateOne(ctx, activeRole(name), bson.M{
		"$set": bson.M{"active": false, "deleted_at": now, "updated_at": now},
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
