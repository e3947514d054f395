package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// CreateMember inserts a member document with the required fields set and
// returns it with its generated ID.
func (f *Fixtures) CreateMember(ctx context.Context, name, role, teams string) models.MemberDoc {
	f.t.Helper()

	now := time.Now().UTC()
	doc := models.MemberDoc{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    models.StatusActive,
		Role:      role,
		Email:     text.Fold(name) + "@example.com",
		Teams:     teams,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return doc
}

// CreateInactiveMember inserts a member with status Inactive.
func (f *Fixtures) CreateInactiveMember(ctx context.Context, name, role, teams string) models.MemberDoc {
	f.t.Helper()

	doc := f.CreateMember(ctx, name, role, teams)
	_, err := f.db.Collection("members").UpdateByID(ctx, doc.ID,
		bson.M{"$set": bson.M{"status": models.StatusInactive}})
	if err != nil {
		f.t.Fatalf("failed to deactivate test member: %v", err)
	}
	doc.Status = models.StatusInactive
	return doc
}
