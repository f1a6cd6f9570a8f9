package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spabook/portal/internal/core/domain"
)

const accountsCollection = "accounts"

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection)}
}

type mongoAccount struct {
	ID           string   `bson:"_id"`
	Email        string   `bson:"email"`
	FirstName    string   `bson:"first_name"`
	LastName     string   `bson:"last_name"`
	Avatar       string   `bson:"avatar,omitempty"`
	Role         string   `bson:"role"`
	Permissions  []string `bson:"permissions"`
	PasswordHash string   `bson:"password_hash"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	perms := make([]string, len(account.Permissions))
	for i, p := range account.Permissions {
		perms[i] = string(p)
	}

	doc := mongoAccount{
		ID:           account.ID,
		Email:        account.Email,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Avatar:       account.Avatar,
		Role:         string(account.Role),
		Permissions:  perms,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRegistrationConflict
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return toAccount(doc), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toAccount(doc), nil
}

// EnsureIndexes creates the unique email index registration conflicts rely on.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func toAccount(doc mongoAccount) *domain.Account {
	perms := make([]domain.Capability, len(doc.Permissions))
	for i, p := range doc.Permissions {
		perms[i] = domain.Capability(p)
	}
	role, _ := domain.ParseRole(doc.Role)

	return &domain.Account{
		Identity: domain.Identity{
			ID:          doc.ID,
			Email:       doc.Email,
			FirstName:   doc.FirstName,
			LastName:    doc.LastName,
			Avatar:      doc.Avatar,
			Role:        role,
			Permissions: perms,
		},
		PasswordHash: doc.PasswordHash,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
