package bootstrap

import (
	"context"
	"fmt"

	"go-rbac-api/common"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"
)

// PermissionRepository interface for catalog operations
type PermissionRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Permission, error)
	Create(ctx context.Context, permission *domain.Permission) error
}

// RoleRepository interface for role operations. ExistsByName must see
// deactivated roles too, so a role deleted at runtime is not recreated.
type RoleRepository interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, role *domain.Role) error
}

// UserRepository interface for the system administrator account
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

type Hasher interface {
	Hash(password string) (hash string, salt string, err error)
}

// SystemAdminConfig describes the optional super admin account created at startup
type SystemAdminConfig struct {
	Email    string
	Password string
}

// RBACSeeder installs the permission catalog, the default roles and the system administrator.
// Entries that already exist are left untouched so runtime edits survive restarts.
type RBACSeeder struct {
	permissionRepo PermissionRepository
	roleRepo       RoleRepository
	userRepo       UserRepository
	hasher         Hasher
	admin          SystemAdminConfig
	logger         log.Logger
}

// NewRBACSeeder creates a new RBAC seeder
func NewRBACSeeder(
	permissionRepo PermissionRepository,
	roleRepo RoleRepository,
	userRepo UserRepository,
	hasher Hasher,
	admin SystemAdminConfig,
	logger log.Logger,
) *RBACSeeder {
	return &RBACSeeder{
		permissionRepo: permissionRepo,
		roleRepo:       roleRepo,
		userRepo:       userRepo,
		hasher:         hasher,
		admin:          admin,
		logger:         logger,
	}
}

// Seed runs every seeding step in order
func (s *RBACSeeder) Seed(ctx context.Context) error {
	s.logger.Info("Initializing RBAC catalog...")

	if err := s.SeedPermissions(ctx); err != nil {
		return err
	}
	if err := s.SeedRoles(ctx); err != nil {
		return err
	}
	if err := s.SeedSystemAdmin(ctx); err != nil {
		return err
	}

	s.logger.Info("RBAC catalog initialization completed")
	return nil
}

func (s *RBACSeeder) SeedPermissions(ctx context.Context) error {
	created := 0
	for _, name := range domain.AllPermissions {
		_, err := s.permissionRepo.FindByName(ctx, string(name))
		if err == nil {
			continue
		}
		if !common.IsRecordNotFound(err) {
			return fmt.Errorf("failed to look up permission %s: %w", name, err)
		}

		if err := s.permissionRepo.Create(ctx, domain.NewPermission(name)); err != nil && !common.IsDuplicateKey(err) {
			return fmt.Errorf("failed to create permission %s: %w", name, err)
		}
		created++
	}

	s.logger.Info("Permissions seeded",
		log.Int("created", created),
		log.Int("total", len(domain.AllPermissions)),
	)
	return nil
}

func (s *RBACSeeder) SeedRoles(ctx context.Context) error {
	for _, name := range domain.AllRoleNames {
		exists, err := s.roleRepo.ExistsByName(ctx, string(name))
		if err != nil {
			return fmt.Errorf("failed to look up role %s: %w", name, err)
		}
		if exists {
			s.logger.Debug("Role already exists, skipping", log.String("role", string(name)))
			continue
		}

		role := &domain.Role{
			Name:        string(name),
			Description: domain.DefaultRoleDescriptions[name],
			Permissions: domain.PermissionNamesToStrings(domain.DefaultRolePermissions[name]),
			Active:      true,
		}
		if err := s.roleRepo.Create(ctx, role); err != nil && !common.IsDuplicateKey(err) {
			return fmt.Errorf("failed to create role %s: %w", name, err)
		}

		s.logger.Info("Created role",
			log.String("role", role.Name),
			log.Int("permissions", len(role.Permissions)),
		)
	}
	return nil
}

// SeedSystemAdmin creates the super admin account when credentials are configured.
func (s *RBACSeeder) SeedSystemAdmin(ctx context.Context) error {
	if s.admin.Email == "" || s.admin.Password == "" {
		s.logger.Debug("System admin credentials not configured, skipping")
		return nil
	}

	email := domain.NormalizeEmail(s.admin.Email)
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		s.logger.Info("System admin already exists, skipping", log.String("email", email))
		return nil
	}
	if !common.IsRecordNotFound(err) {
		return fmt.Errorf("failed to look up system admin: %w", err)
	}

	hash, salt, err := s.hasher.Hash(s.admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash system admin password: %w", err)
	}

	admin := &domain.User{
		Email:    email,
		Username: "superadmin",
		Roles:    domain.StringSlice{string(domain.RoleSuperAdmin)},
		Password: hash,
		Salt:     salt,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		// A deleted account keeps its email reserved
		if common.IsDuplicateKey(err) {
			s.logger.Warn("System admin email belongs to a deleted account, skipping", log.String("email", email))
			return nil
		}
		return fmt.Errorf("failed to create system admin: %w", err)
	}

	s.logger.Info("Created system admin", log.String("email", email))
	return nil
}
