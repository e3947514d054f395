// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned for an id with no member document.
var ErrNotFound = errors.New("member not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// List returns every member ordered by folded name.
func (s *Store) List(ctx context.Context) ([]models.MemberDoc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := []models.MemberDoc{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MemberDoc, error) {
	var doc models.MemberDoc
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MemberDoc{}, ErrNotFound
	}
	if err != nil {
		return models.MemberDoc{}, err
	}
	return doc, nil
}

// Create inserts m under a new id. Any id on m is ignored.
func (s *Store) Create(ctx context.Context, m models.Member) (models.MemberDoc, error) {
	now := time.Now().UTC()
	doc := toDoc(m)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.MemberDoc{}, err
	}
	return doc, nil
}

// Replace overwrites every member field of the document and returns the
// stored result. Fields left empty on m are cleared.
func (s *Store) Replace(ctx context.Context, id primitive.ObjectID, m models.Member) (models.MemberDoc, error) {
	doc := toDoc(m)
	set := bson.M{
		"name":          doc.Name,
		"name_ci":       doc.NameCI,
		"status":        doc.Status,
		"role":          doc.Role,
		"email":         doc.Email,
		"teams":         doc.Teams,
		"work_email":    doc.WorkEmail,
		"dob":           doc.DOB,
		"gender":        doc.Gender,
		"nationality":   doc.Nationality,
		"contact_no":    doc.ContactNo,
		"profile_photo": doc.ProfilePhoto,
		"updated_at":    time.Now().UTC(),
	}

	var out models.MemberDoc
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MemberDoc{}, ErrNotFound
	}
	if err != nil {
		return models.MemberDoc{}, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of members matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

func toDoc(m models.Member) models.MemberDoc {
	return models.MemberDoc{
		Name:         m.Name,
		NameCI:       text.Fold(m.Name),
		Status:       m.Status,
		Role:         m.Role,
		Email:        m.Email,
		Teams:        m.Teams,
		WorkEmail:    m.WorkEmail,
		DOB:          m.DOB,
		Gender:       m.Gender,
		Nationality:  m.Nationality,
		ContactNo:    m.ContactNo,
		ProfilePhoto: m.ProfilePhoto,
	}
}
