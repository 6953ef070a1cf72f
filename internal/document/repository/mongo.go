package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gogotex/docstore/internal/document"
	"github.com/gogotex/docstore/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. The document id
// is stored as _id so upserts key on the primary index.
type MongoRepo struct {
	col *mongo.Collection
}

// mongoRecord is the stored shape of a Document. BSON datetimes keep only
// milliseconds, so created_ns carries the exact instant (UnixNano) and is
// what reads and range filters use; created stays for humans and tooling.
type mongoRecord struct {
	ID        string           `bson:"_id"`
	Title     string           `bson:"title"`
	Content   string           `bson:"content,omitempty"`
	Author    *document.Author `bson:"author,omitempty"`
	Created   *time.Time       `bson:"created,omitempty"`
	CreatedNS *int64           `bson:"created_ns,omitempty"`
}

func toRecord(d document.Document) mongoRecord {
	rec := mongoRecord{ID: d.ID, Title: d.Title, Content: d.Content, Author: d.Author, Created: d.Created}
	if d.Created != nil {
		ns := d.Created.UnixNano()
		rec.CreatedNS = &ns
	}
	return rec
}

func (r mongoRecord) document() document.Document {
	d := document.Document{ID: r.ID, Title: r.Title, Content: r.Content, Author: r.Author, Created: r.Created}
	if r.CreatedNS != nil {
		t := time.Unix(0, *r.CreatedNS).UTC()
		d.Created = &t
	}
	return d
}

// NewMongoRepo wraps col and makes sure the secondary indexes used by search
// exist. Index creation failures are logged, not fatal.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) *MongoRepo {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author.id", Value: 1}}},
		{Keys: bson.D{{Key: "created_ns", Value: 1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
		logger.Warnf("mongo: create document indexes: %v", err)
	}
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Save(ctx context.Context, d document.Document) (document.Document, error) {
	d = assignID(d)
	opts := options.Replace().SetUpsert(true)
	if _, err := m.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, toRecord(d), opts); err != nil {
		return document.Document{}, fmt.Errorf("%w: upsert %s: %v", ErrBackend, d.ID, err)
	}
	return d, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*document.Document, error) {
	var rec mongoRecord
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find %s: %v", ErrBackend, id, err)
	}
	d := rec.document()
	return &d, nil
}

func (m *MongoRepo) Search(ctx context.Context, req document.SearchRequest) ([]document.Document, error) {
	cur, err := m.col.Find(ctx, BuildFilter(req))
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrBackend, err)
	}
	defer cur.Close(ctx)
	out := []document.Document{}
	for cur.Next(ctx) {
		var rec mongoRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, rec.document())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: search cursor: %v", ErrBackend, err)
	}
	return out, nil
}

// BuildFilter translates req into a Mongo query with the same semantics as
// SearchRequest.Matches. Range and regex operators never match a missing
// field, so absent optional fields fail any criterion that needs them.
func BuildFilter(req document.SearchRequest) bson.M {
	var clauses bson.A

	if len(req.TitlePrefixes) > 0 {
		or := make(bson.A, 0, len(req.TitlePrefixes))
		for _, p := range req.TitlePrefixes {
			or = append(or, bson.M{"title": bson.M{"$regex": "^" + regexp.QuoteMeta(p), "$ne": ""}})
		}
		clauses = append(clauses, bson.M{"$or": or})
	}

	if len(req.ContainsContents) > 0 {
		or := make(bson.A, 0, len(req.ContainsContents))
		for _, s := range req.ContainsContents {
			or = append(or, bson.M{"content": bson.M{"$regex": regexp.QuoteMeta(s), "$ne": ""}})
		}
		clauses = append(clauses, bson.M{"$or": or})
	}

	if len(req.AuthorIDs) > 0 {
		clauses = append(clauses, bson.M{"author.id": bson.M{"$in": req.AuthorIDs}})
	}

	if req.CreatedFrom != nil || req.CreatedTo != nil {
		rng := bson.M{}
		if req.CreatedFrom != nil {
			rng["$gte"] = req.CreatedFrom.UnixNano()
		}
		if req.CreatedTo != nil {
			rng["$lte"] = req.CreatedTo.UnixNano()
		}
		clauses = append(clauses, bson.M{"created_ns": rng})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0].(bson.M)
	default:
		return bson.M{"$and": clauses}
	}
}
