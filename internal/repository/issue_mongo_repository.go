package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusvoice/issue-service/internal/domain"
)

// mongoIssueRepository stores one document per issue with embedded comments.
type mongoIssueRepository struct {
	coll *mongo.Collection
}

// NewMongoIssueRepository returns a MongoDB-backed implementation.
func NewMongoIssueRepository(coll *mongo.Collection) IssueRepository {
	return &mongoIssueRepository{coll: coll}
}

func (r *mongoIssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	doc := issue.Clone()
	doc.Version = 1
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return err
	}
	issue.Version = 1
	return nil
}

func (r *mongoIssueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	doc := issue.Clone()
	doc.Version = issue.Version + 1
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": issue.ID, "version": issue.Version}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": issue.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	issue.Version++
	return nil
}

func (r *mongoIssueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	var issue domain.Issue
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	normalizeDecoded(&issue)
	return &issue, nil
}

func (r *mongoIssueRepository) List(ctx context.Context) ([]domain.Issue, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []domain.Issue{}
	for cursor.Next(ctx) {
		var issue domain.Issue
		if err := cursor.Decode(&issue); err != nil {
			return nil, err
		}
		normalizeDecoded(&issue)
		result = append(result, issue)
	}
	return result, cursor.Err()
}

func normalizeDecoded(issue *domain.Issue) {
	issue.CreatedAt = issue.CreatedAt.UTC()
	issue.UpdatedAt = issue.UpdatedAt.UTC()
	if issue.Comments == nil {
		issue.Comments = []domain.Comment{}
	}
	for i := range issue.Comments {
		issue.Comments[i].CreatedAt = issue.Comments[i].CreatedAt.UTC()
	}
}
