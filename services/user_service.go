package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// RegisterInput creates an owner account.
type RegisterInput struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// ProfileInput is a partial update; nil fields are left untouched.
type ProfileInput struct {
	Fullname *string `json:"fullname"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
}

// OwnerUpdateInput is what an admin may change on an owner account.
type OwnerUpdateInput struct {
	ProfileInput
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func normalizePhone(phone string) *string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	return &phone
}

func (s *UserService) roleByAuthority(tx *gorm.DB, authority string) (*models.Role, error) {
	var role models.Role
	if err := tx.Where("authority = ?", authority).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %q is not seeded", authority)
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	return &role, nil
}

// ensureUnique rejects an email or phone already used by another account.
func ensureUnique(tx *gorm.DB, email string, phone *string, exceptID uint) error {
	if email != "" {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ? AND owner_id <> ?", email, exceptID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if n > 0 {
			return conflictf("email %s is already registered", email)
		}
	}
	if phone != nil {
		var n int64
		if err := tx.Model(&models.User{}).Where("phone = ? AND owner_id <> ?", *phone, exceptID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check phone: %w", err)
		}
		if n > 0 {
			return conflictf("phone %s is already registered", *phone)
		}
	}
	return nil
}

// Register creates an active owner account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := s.roleByAuthority(tx, models.AuthorityOwner)
		if err != nil {
			return err
		}
		email := strings.ToLower(strings.TrimSpace(in.Email))
		phone := normalizePhone(in.Phone)
		if err := ensureUnique(tx, email, phone, 0); err != nil {
			return err
		}
		hash, err := hashPassword(in.Password)
		if err != nil {
			return err
		}
		user = models.User{
			Fullname: strings.TrimSpace(in.Fullname),
			Email:    email,
			Phone:    phone,
			Password: hash,
			RoleID:   role.RoleID,
			Role:     *role,
			IsActive: true,
		}
		if err := tx.Omit("Role").Create(&user).Error; err != nil {
			if isDuplicateKey(err) {
				return conflictf("email or phone is already registered")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Role").First(&user, userID).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

// UpdateProfile changes the caller's own fullname, email or phone.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	return s.update(ctx, userID, in, nil, nil)
}

func (s *UserService) update(ctx context.Context, userID uint, in ProfileInput, isActive *bool, password *string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Role").First(&user, userID).Error; err != nil {
			return lookupErr(err, "user")
		}

		updates := map[string]interface{}{}
		var email string
		var phone *string
		if in.Fullname != nil {
			updates["fullname"] = strings.TrimSpace(*in.Fullname)
		}
		if in.Email != nil {
			email = strings.ToLower(strings.TrimSpace(*in.Email))
			updates["email"] = email
		}
		if in.Phone != nil {
			phone = normalizePhone(*in.Phone)
			updates["phone"] = phone
		}
		if isActive != nil {
			updates["is_active"] = *isActive
		}
		if password != nil {
			hash, err := hashPassword(*password)
			if err != nil {
				return err
			}
			updates["password"] = hash
		}
		if len(updates) == 0 {
			return nil
		}
		if err := ensureUnique(tx, email, phone, user.OwnerID); err != nil {
			return err
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				return conflictf("email or phone is already registered")
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		return tx.Preload("Role").First(&user, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
		return invalidf("current password is incorrect")
	}
	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("owner_id = ?", userID).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *UserService) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Order("role_id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func owners(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN roles ON roles.role_id = users.role_id").
		Where("roles.authority = ?", models.AuthorityOwner)
}

func (s *UserService) ListOwners(ctx context.Context, skip, limit int) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).Scopes(owners, page(skip, limit)).
		Preload("Role").Order("users.owner_id").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return users, nil
}

// GetOwner loads an account and requires it to hold the owner role.
func (s *UserService) GetOwner(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsOwner() {
		return nil, invalidf("user is not an owner")
	}
	return user, nil
}

// CreateOwner is the admin path for provisioning owners.
func (s *UserService) CreateOwner(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.Register(ctx, in)
}

func (s *UserService) UpdateOwner(ctx context.Context, id uint, in OwnerUpdateInput) (*models.User, error) {
	if _, err := s.GetOwner(ctx, id); err != nil {
		return nil, err
	}
	return s.update(ctx, id, in.ProfileInput, in.IsActive, in.Password)
}

// DeleteOwner removes an owner; houses and everything below them cascade.
func (s *UserService) DeleteOwner(ctx context.Context, id uint) error {
	if _, err := s.GetOwner(ctx, id); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	return nil
}
