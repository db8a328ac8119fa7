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

	"github.com/surgassist/records-api/internal/core/domain"
)

const accountCollection = "accounts"

// MongoAccountRepository persists accounts. All counter and credential
// mutations go through single-document atomic operators ($inc, $set, $unset,
// filtered FindOneAndUpdate), so concurrent requests for the same account
// serialize at the storage engine.
type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Username          string             `bson:"username"`
	DisplayName       string             `bson:"display_name,omitempty"`
	Email             string             `bson:"email,omitempty"`
	PasswordHash      string             `bson:"password_hash"`
	Role              string             `bson:"role"`
	FailedAttempts    int                `bson:"failed_attempts"`
	LockedUntil       *time.Time         `bson:"locked_until,omitempty"`
	ResetTokenHash    string             `bson:"reset_token_hash,omitempty"`
	ResetTokenExpires *time.Time         `bson:"reset_token_expires,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (m *mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:                m.ID.Hex(),
		Username:          m.Username,
		DisplayName:       m.DisplayName,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              domain.Role(m.Role),
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		ResetTokenHash:    m.ResetTokenHash,
		ResetTokenExpires: m.ResetTokenExpires,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// EnsureIndexes creates the unique username index. Called once at startup.
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure account indexes: %w", err)
	}
	return nil
}

func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := mongoAccount{
		Username:     account.Username,
		DisplayName:  account.DisplayName,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// RecordFailedAttempt increments the failure counter with $inc and returns the
// post-increment value, so two racing failures can never read the same
// pre-increment count.
func (r *MongoAccountRepository) RecordFailedAttempt(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrAccountNotFound
	}

	var ma mongoAccount
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"failed_attempts": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, fmt.Errorf("record failed attempt: %w", err)
	}
	return ma.FailedAttempts, nil
}

func (r *MongoAccountRepository) SetLockout(ctx context.Context, id string, until time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"locked_until": until.UTC(), "updated_at": time.Now().UTC()},
	})
}

func (r *MongoAccountRepository) ResetLoginState(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"failed_attempts": 0, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"locked_until": ""},
	})
}

// SetPassword replaces the hash and restores login eligibility in one update.
func (r *MongoAccountRepository) SetPassword(ctx context.Context, id string, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "failed_attempts": 0, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"locked_until": ""},
	})
}

func (r *MongoAccountRepository) SetResetToken(ctx context.Context, id string, tokenHash string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reset_token_hash":    tokenHash,
			"reset_token_expires": expires.UTC(),
			"updated_at":          time.Now().UTC(),
		},
	})
}

func (r *MongoAccountRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"updated_at": time.Now().UTC()},
		"$unset": bson.M{"reset_token_hash": "", "reset_token_expires": ""},
	})
}

// RedeemResetToken matches the fingerprint and the unexpired window, replaces
// the password, and clears the reset and lockout fields in a single
// FindOneAndUpdate. The filter evaluates expiry at the same instant as the
// hash comparison, and a second redemption finds no matching document.
func (r *MongoAccountRepository) RedeemResetToken(ctx context.Context, tokenHash string, passwordHash string, now time.Time) (*domain.Account, error) {
	var ma mongoAccount
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{
			"reset_token_hash":    tokenHash,
			"reset_token_expires": bson.M{"$gt": now.UTC()},
		},
		bson.M{
			"$set":   bson.M{"password_hash": passwordHash, "failed_attempts": 0, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"locked_until": "", "reset_token_hash": "", "reset_token_expires": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("redeem reset token: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *MongoAccountRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
