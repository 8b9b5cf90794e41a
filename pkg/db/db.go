package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vocab-builder/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrWordNotStored is returned by GetWord for an unknown headword
var ErrWordNotStored = errors.New("word not stored")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	defaultSearchLimit = 10
)

// WordQuery filters and paginates ListWords. Empty fields match everything.
type WordQuery struct {
	Owner    string
	Level    string
	Source   domain.SourceOrigin
	Page     int
	PageSize int
}

// WordPage is one page of stored words
type WordPage struct {
	Items    []domain.WordRecord
	Total    int64
	Page     int
	PageSize int
}

// Client wraps the MongoDB client and the words collection
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	database := mongoClient.Database(databaseName)
	collection := database.Collection(collectionName)

	return &Client{
		mongoClient: mongoClient,
		database:    database,
		collection:  collection,
	}
}

// Connect verifies the server is reachable
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// EnsureIndexes creates the unique headword index and the listing index
func (c *Client) EnsureIndexes(ctx context.Context) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	_, err := c.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "headword", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("headword_unique"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("owner_updated_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// SaveWord upserts a record keyed by headword
func (c *Client) SaveWord(ctx context.Context, rec *domain.WordRecord) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}
	if rec.Headword == "" {
		return fmt.Errorf("record has no headword")
	}

	filter := bson.M{"headword": rec.Headword}
	update := bson.M{"$set": rec}
	opts := options.Update().SetUpsert(true)

	if _, err := c.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("save word %q: %w", rec.Headword, err)
	}
	return nil
}

// GetWord loads one record
func (c *Client) GetWord(ctx context.Context, headword string) (*domain.WordRecord, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	var rec domain.WordRecord
	err := c.collection.FindOne(ctx, bson.M{"headword": headword}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrWordNotStored
	}
	if err != nil {
		return nil, fmt.Errorf("get word %q: %w", headword, err)
	}
	return &rec, nil
}

// ListWords returns one page of records, most recently updated first
func (c *Client) ListWords(ctx context.Context, q WordQuery) (*WordPage, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	q = q.normalize()
	filter := q.filter()

	total, err := c.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count words: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "headword", Value: 1}}).
		SetSkip(int64((q.Page - 1) * q.PageSize)).
		SetLimit(int64(q.PageSize))

	items, err := c.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return &WordPage{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

// SearchWords finds headwords starting with prefix, case-insensitively
func (c *Client) SearchWords(ctx context.Context, prefix string, limit int) ([]domain.WordRecord, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []domain.WordRecord{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := bson.M{"headword": primitive.Regex{Pattern: PrefixPattern(prefix), Options: "i"}}
	opts := options.Find().
		SetSort(bson.D{{Key: "headword", Value: 1}}).
		SetLimit(int64(limit))

	return c.find(ctx, filter, opts)
}

// GetAllHeadwords fetches every stored headword as a set
func (c *Client) GetAllHeadwords(ctx context.Context) (map[string]bool, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := c.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"headword": 1, "_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to query headwords: %w", err)
	}
	defer cursor.Close(ctx)

	set := make(map[string]bool)
	for cursor.Next(ctx) {
		var result struct {
			Headword string `bson:"headword"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue // Skip invalid documents
		}
		if result.Headword != "" {
			set[result.Headword] = true
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return set, nil
}

// GetAllWords loads the whole collection
func (c *Client) GetAllWords(ctx context.Context) ([]domain.WordRecord, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}
	return c.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "headword", Value: 1}}))
}

func (c *Client) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.WordRecord, error) {
	cursor, err := c.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find words: %w", err)
	}
	defer cursor.Close(ctx)

	words := make([]domain.WordRecord, 0)
	if err := cursor.All(ctx, &words); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}
	return words, nil
}

func (q WordQuery) normalize() WordQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

func (q WordQuery) filter() bson.M {
	filter := bson.M{}
	if q.Owner != "" {
		filter["owner"] = q.Owner
	}
	if q.Level != "" {
		filter["level"] = strings.ToUpper(q.Level)
	}
	if q.Source != "" {
		filter["source"] = q.Source
	}
	return filter
}

// PrefixPattern anchors a literal prefix for a regex match
func PrefixPattern(prefix string) string {
	return "^" + regexp.QuoteMeta(strings.ToLower(prefix))
}
