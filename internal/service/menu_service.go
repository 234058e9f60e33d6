package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/repository"
	"go.uber.org/zap"
)

// MenuService is plain catalog CRUD for the food-ordering surface.
type MenuService struct {
	r *repository.MenuRepository
	l *zap.Logger
}

func NewMenuService(r *repository.MenuRepository, l *zap.Logger) *MenuService {
	return &MenuService{
		r: r,
		l: l,
	}
}

func (s *MenuService) CreateCategory(ctx context.Context, name, icon, color string) (*models.Category, error) {
	category := &models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.r.CreateCategory(ctx, category); err != nil {
		s.l.Error("failed to create category", zap.Error(err))
		return nil, fmt.Errorf("service: failed to create category: %w", err)
	}
	return category, nil
}

func (s *MenuService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.r.ListCategories(ctx)
	if err != nil {
		s.l.Error("failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *MenuService) DeleteCategory(ctx context.Context, id string) error {
	err := s.r.DeleteCategory(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			return err
		}
		s.l.Error("failed to delete category", zap.Error(err))
		return fmt.Errorf("service: failed to delete category: %w", err)
	}
	return nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	item.ID = uuid.NewString()
	item.IsAvailable = true
	item.CreatedAt = time.Now().UTC()
	if err := s.r.CreateMenuItem(ctx, &item); err != nil {
		s.l.Error("failed to create menu item", zap.Error(err))
		return nil, fmt.Errorf("service: failed to create menu item: %w", err)
	}
	return &item, nil
}

func (s *MenuService) ListMenuItems(ctx context.Context, category string) ([]models.MenuItem, error) {
	items, err := s.r.ListMenuItems(ctx, category)
	if err != nil {
		s.l.Error("failed to list menu items", zap.Error(err))
		return nil, fmt.Errorf("service: failed to list menu items: %w", err)
	}
	return items, nil
}

func (s *MenuService) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.r.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrMenuItemNotFound) {
			return nil, err
		}
		s.l.Error("failed to get menu item", zap.Error(err))
		return nil, fmt.Errorf("service: failed to get menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, id string, update models.MenuItem) (*models.MenuItem, error) {
	existing, err := s.r.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrMenuItemNotFound) {
			return nil, err
		}
		s.l.Error("failed to get menu item", zap.Error(err))
		return nil, fmt.Errorf("service: failed to update menu item: %w", err)
	}
	update.ID = existing.ID
	update.IsAvailable = existing.IsAvailable
	update.CreatedAt = existing.CreatedAt
	if err := s.r.SaveMenuItem(ctx, &update); err != nil {
		s.l.Error("failed to update menu item", zap.Error(err))
		return nil, fmt.Errorf("service: failed to update menu item: %w", err)
	}
	return &update, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, id string) error {
	err := s.r.DeleteMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrMenuItemNotFound) {
			return err
		}
		s.l.Error("failed to delete menu item", zap.Error(err))
		return fmt.Errorf("service: failed to delete menu item: %w", err)
	}
	return nil
}

func (s *MenuService) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	user := &models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	err := s.r.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			return nil, err
		}
		s.l.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}
	return user, nil
}

func (s *MenuService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.r.ListUsers(ctx)
	if err != nil {
		s.l.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}
	return users, nil
}
