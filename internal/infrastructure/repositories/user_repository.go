package repositories

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Triostacksoftware/authkit/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// ProfileMap stores caller-supplied profile fields as a JSON column.
type ProfileMap map[string]any

// GormDataType tells the migrator which column type backs the Valuer.
func (ProfileMap) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer
func (p ProfileMap) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *ProfileMap) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported profile column type %T", value)
	}
	return json.Unmarshal(data, p)
}

// DBUser represents the database model for User (with GORM tags). Password,
// OTP and OTPExpiry are pointers so that an unset field maps to SQL NULL.
type DBUser struct {
	ID           uint       `gorm:"primaryKey"`
	Email        string     `gorm:"uniqueIndex;size:255;not null"`
	Name         string     `gorm:"size:255"`
	PasswordHash *string    `gorm:"column:password"`
	OTP          *string    `gorm:"column:otp;size:16"`
	OTPExpiry    *time.Time `gorm:"column:otp_expiry"`
	Profile      ProfileMap `gorm:"column:profile"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. A unique-violation on the email
// index surfaces as domain.ErrUserAlreadyExists.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByEmailAndOTP implements domain.UserRepository. The code must match
// exactly; a right email with a wrong code is indistinguishable from an
// unknown email.
func (r *UserRepositoryImpl) FindByEmailAndOTP(ctx context.Context, email, otp string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ? AND otp = ?", email, otp).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return r.dbToDomain(&dbUser), nil
}

// UpdateFields implements domain.UserRepository. Fields named in unset are
// written as NULL in the same update as the set map.
func (r *UserRepositoryImpl) UpdateFields(ctx context.Context, email string, set map[string]any, unset ...string) error {
	updates := make(map[string]any, len(set)+len(unset))
	for k, v := range set {
		if k == domain.FieldProfile {
			if m, ok := v.(map[string]any); ok {
				v = ProfileMap(m)
			}
		}
		updates[k] = v
	}
	for _, f := range unset {
		updates[f] = nil
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", email).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteByEmail implements domain.UserRepository. Deleting an absent record
// is not an error.
func (r *UserRepositoryImpl) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).Delete(&DBUser{}).Error; err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return nil
}

// DeleteExpiredPending implements domain.UserRepository. It removes
// password-less registration records whose challenge expired before cutoff.
func (r *UserRepositoryImpl) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("password IS NULL AND otp_expiry < ?", cutoff).
		Delete(&DBUser{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreFailure, res.Error)
	}
	return res.RowsAffected, nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	dbUser := &DBUser{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		OTPExpiry: user.OTPExpiry,
		Profile:   ProfileMap(user.Profile),
	}
	if user.PasswordHash != "" {
		hash := user.PasswordHash
		dbUser.PasswordHash = &hash
	}
	if user.OTP != "" {
		otp := user.OTP
		dbUser.OTP = &otp
	}
	return dbUser
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	user := &domain.User{
		ID:        dbUser.ID,
		Email:     dbUser.Email,
		Name:      dbUser.Name,
		OTPExpiry: dbUser.OTPExpiry,
		Profile:   map[string]any(dbUser.Profile),
		CreatedAt: dbUser.CreatedAt,
		UpdatedAt: dbUser.UpdatedAt,
	}
	if dbUser.PasswordHash != nil {
		user.PasswordHash = *dbUser.PasswordHash
	}
	if dbUser.OTP != nil {
		user.OTP = *dbUser.OTP
	}
	return user
}
