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

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

const collectionCities = "cities"

type CityRepository struct {
	col *mongo.Collection
}

func NewCityRepository(db *mongo.Database) *CityRepository {
	return &CityRepository{col: db.Collection(collectionCities)}
}

type mongoCity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Coordinates domain.Coordinates `bson:"coordinates"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (m mongoCity) toDomain() *domain.City {
	return &domain.City{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Coordinates: m.Coordinates,
		CreatedAt:   m.CreatedAt,
	}
}

// Create inserts a new city document. A duplicate name maps to
// domain.ErrCityExists via the unique index.
func (r *CityRepository) Create(ctx context.Context, city *domain.City) (*domain.City, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCity{
		Name:        city.Name,
		Coordinates: city.Coordinates,
		CreatedAt:   city.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCityExists
		}
		return nil, fmt.Errorf("insert city: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID retrieves a city by its hex identifier.
func (r *CityRepository) FindByID(ctx context.Context, id string) (*domain.City, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCityNotFound
	}

	var doc mongoCity
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCityNotFound
		}
		return nil, fmt.Errorf("find city: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns all cities ordered by name.
func (r *CityRepository) List(ctx context.Context) ([]*domain.City, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer cursor.Close(ctx)

	var cities []*domain.City
	for cursor.Next(ctx) {
		var doc mongoCity
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list cities: decode: %w", err)
		}
		cities = append(cities, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

// EnsureIndexes creates necessary indexes on the cities collection.
func (r *CityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
