package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"laborctl/internal/models"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) ListUsers(ctx context.Context, p ListParams) (models.Page[models.User], error) {
	page, err := s.users.ListUsers(ctx, p.toAPI("role"))
	if err != nil {
		return page, fmt.Errorf("could not list users: %w", err)
	}
	return page, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, fields map[string]any) (*models.User, error) {
	email, _ := fields["email"].(string)
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required: %w", models.ErrValidation)
	}
	u, err := s.users.CreateUser(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", models.ErrValidation)
	}
	return s.users.UpdateUser(ctx, id, fields)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	return nil
}

func (s *UserService) ListRoles(ctx context.Context, p ListParams) (models.Page[models.Ref], error) {
	return s.users.ListRoles(ctx, p.toAPI("status"))
}

type CategoryService struct {
	catalog CatalogStore
}

func NewCategoryService(catalog CatalogStore) *CategoryService {
	return &CategoryService{catalog: catalog}
}

func (s *CategoryService) ListCategories(ctx context.Context, p ListParams) (models.Page[models.Category], error) {
	page, err := s.catalog.ListCategories(ctx, p.toAPI("isActive"))
	if err != nil {
		return page, fmt.Errorf("could not list categories: %w", err)
	}
	return page, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.catalog.GetCategory(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty: %w", models.ErrValidation)
	}
	fields := map[string]any{"categoryName": name}
	if description != "" {
		fields["description"] = description
	}
	c, err := s.catalog.CreateCategory(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id string, fields map[string]any) (*models.Category, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", models.ErrValidation)
	}
	return s.catalog.UpdateCategory(ctx, id, fields)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.catalog.DeleteCategory(ctx, id)
}

func (s *CategoryService) ToggleCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.catalog.ToggleCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not toggle category: %w", err)
	}
	log.WithFields(log.Fields{"category_id": c.ID, "active": c.IsActive}).Info("category toggled")
	return c, nil
}

func (s *CategoryService) ListSkills(ctx context.Context, p ListParams) (models.Page[models.Ref], error) {
	return s.catalog.ListSkills(ctx, p.toAPI("status"))
}
