package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"infinite-experiment/pilotlog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// MongoLogbookRepository stores imported records in one collection per kind,
// keyed by guid. Batches are not transactional: a failing Aircraft batch keeps
// the documents written before the collision.
type MongoLogbookRepository struct {
	db    *mongo.Database
	clock *orderClock
}

type mongoDocument struct {
	GUID         string    `bson:"_id"`
	UserID       string    `bson:"user_id"`
	Platform     string    `bson:"platform"`
	Modified     string    `bson:"_modified"`
	Meta         bson.M    `bson:"meta,omitempty"`
	MetaJSON     string    `bson:"meta_json"`
	AircraftGUID string    `bson:"aircraft_guid,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

// NewMongoLogbookRepository creates the repository and its secondary indexes.
func NewMongoLogbookRepository(ctx context.Context, db *mongo.Database) (*MongoLogbookRepository, error) {
	// BSON dates carry milliseconds.
	r := &MongoLogbookRepository{db: db, clock: newOrderClock(time.Millisecond)}

	flightIdx := mongo.IndexModel{Keys: bson.D{{Key: "aircraft_guid", Value: 1}}}
	if _, err := r.collection(models.KindFlight).Indexes().CreateOne(ctx, flightIdx); err != nil {
		return nil, fmt.Errorf("failed to create flight index: %w", err)
	}
	for _, kind := range []models.Kind{models.KindAircraft, models.KindFlight} {
		idx := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}
		if _, err := r.collection(kind).Indexes().CreateOne(ctx, idx); err != nil {
			return nil, fmt.Errorf("failed to create %s order index: %w", kind, err)
		}
	}

	return r, nil
}

func (r *MongoLogbookRepository) collection(kind models.Kind) *mongo.Collection {
	return r.db.Collection(TableName(kind))
}

func (r *MongoLogbookRepository) InsertBatch(ctx context.Context, kind models.Kind, batch []models.Entity, ignoreConflicts bool) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	if TableName(kind) == "" {
		return 0, fmt.Errorf("no collection for record kind %q", kind)
	}

	stamps := r.clock.reserve(len(batch))
	docs := make([]interface{}, 0, len(batch))
	for i, e := range batch {
		doc, err := toMongoDocument(e, stamps[i])
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}

	opts := options.InsertMany().SetOrdered(!ignoreConflicts)
	res, err := r.collection(kind).InsertMany(ctx, docs, opts)
	if err == nil {
		return int64(len(res.InsertedIDs)), nil
	}

	if ignoreConflicts {
		if dupes, ok := duplicateOnly(err); ok {
			return int64(len(docs) - dupes), nil
		}
	}
	if mongo.IsDuplicateKeyError(err) {
		return 0, fmt.Errorf("%w in %s batch: %w", ErrDuplicate, kind, err)
	}
	return 0, fmt.Errorf("failed to insert %s batch: %w", kind, err)
}

// duplicateOnly reports whether err is a bulk write failure made only of
// duplicate key errors, and how many there were.
func duplicateOnly(err error) (int, bool) {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return 0, false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return 0, false
		}
	}
	return len(bwe.WriteErrors), true
}

func (r *MongoLogbookRepository) findOne(ctx context.Context, kind models.Kind, guid string) (*models.Entity, error) {
	var doc mongoDocument
	err := r.collection(kind).FindOne(ctx, bson.M{"_id": guid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e, err := fromMongoDocument(kind, doc)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MongoLogbookRepository) FindAircraft(ctx context.Context, guid string) (*models.Entity, error) {
	return r.findOne(ctx, models.KindAircraft, guid)
}

func (r *MongoLogbookRepository) FindFlight(ctx context.Context, guid string) (*models.Entity, error) {
	return r.findOne(ctx, models.KindFlight, guid)
}

func aircraftFilterDoc(filter models.AircraftFilter) bson.M {
	q := bson.M{}
	if filter.Make != "" {
		q["meta.Make"] = filter.Make
	}
	if filter.ActiveOnly || filter.HighPerformanceComplex {
		q["meta.Active"] = true
	}
	if filter.HighPerformanceComplex {
		q["meta.HighPerf"] = true
		q["meta.Complex"] = true
	}
	return q
}

func flightFilterDoc(filter models.FlightFilter) bson.M {
	q := bson.M{}
	if filter.AircraftGUID != "" {
		q["aircraft_guid"] = filter.AircraftGUID
	}
	return q
}

func (r *MongoLogbookRepository) list(ctx context.Context, kind models.Kind, q bson.M, limit, offset int) ([]models.Entity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}

	cur, err := r.collection(kind).Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var docs []mongoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}

	out := make([]models.Entity, 0, len(docs))
	for _, doc := range docs {
		e, err := fromMongoDocument(kind, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *MongoLogbookRepository) ListAircraft(ctx context.Context, filter models.AircraftFilter) ([]models.Entity, error) {
	return r.list(ctx, models.KindAircraft, aircraftFilterDoc(filter), filter.Limit, filter.Offset)
}

func (r *MongoLogbookRepository) ListFlights(ctx context.Context, filter models.FlightFilter) ([]models.Entity, error) {
	return r.list(ctx, models.KindFlight, flightFilterDoc(filter), filter.Limit, filter.Offset)
}

func (r *MongoLogbookRepository) CountAircraft(ctx context.Context, filter models.AircraftFilter) (int64, error) {
	return r.collection(models.KindAircraft).CountDocuments(ctx, aircraftFilterDoc(filter))
}

func (r *MongoLogbookRepository) CountFlights(ctx context.Context, filter models.FlightFilter) (int64, error) {
	return r.collection(models.KindFlight).CountDocuments(ctx, flightFilterDoc(filter))
}

// DeleteAircraft removes an aircraft and then its flights.
func (r *MongoLogbookRepository) DeleteAircraft(ctx context.Context, guid string) error {
	res, err := r.collection(models.KindAircraft).DeleteOne(ctx, bson.M{"_id": guid})
	if err != nil {
		return fmt.Errorf("failed to delete aircraft %s: %w", guid, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := r.collection(models.KindFlight).DeleteMany(ctx, bson.M{"aircraft_guid": guid}); err != nil {
		return fmt.Errorf("failed to delete flights of aircraft %s: %w", guid, err)
	}
	return nil
}

func (r *MongoLogbookRepository) CountByKind(ctx context.Context) (map[models.Kind]int64, error) {
	counts := make(map[models.Kind]int64, len(models.AllKinds))
	for _, kind := range models.AllKinds {
		n, err := r.collection(kind).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", kind, err)
		}
		counts[kind] = n
	}
	return counts, nil
}

func (r *MongoLogbookRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// toMongoDocument keeps meta twice: as a queryable document and as the exact
// JSON text the record arrived with.
func toMongoDocument(e models.Entity, createdAt time.Time) (mongoDocument, error) {
	metaJSON, err := json.Marshal(e.Meta)
	if err != nil {
		return mongoDocument{}, fmt.Errorf("failed to encode meta of %s %s: %w", e.Kind, e.GUID, err)
	}

	var meta bson.M
	if err := bson.UnmarshalExtJSON(metaJSON, false, &meta); err != nil {
		meta = nil
	}

	return mongoDocument{
		GUID:         e.GUID,
		UserID:       e.UserID.Literal(),
		Platform:     e.Platform.Literal(),
		Modified:     e.Modified.Literal(),
		Meta:         meta,
		MetaJSON:     string(metaJSON),
		AircraftGUID: e.AircraftGUID,
		CreatedAt:    createdAt,
	}, nil
}

func fromMongoDocument(kind models.Kind, doc mongoDocument) (models.Entity, error) {
	meta := models.Meta{}
	if doc.MetaJSON != "" {
		if err := json.Unmarshal([]byte(doc.MetaJSON), &meta); err != nil {
			return models.Entity{}, fmt.Errorf("failed to decode meta of %s %s: %w", kind, doc.GUID, err)
		}
	}
	tags, err := parseTags(doc.UserID, doc.Platform, doc.Modified)
	if err != nil {
		return models.Entity{}, fmt.Errorf("failed to decode tags of %s %s: %w", kind, doc.GUID, err)
	}
	return models.Entity{
		Kind:         kind,
		GUID:         doc.GUID,
		UserID:       tags[0],
		Platform:     tags[1],
		Modified:     tags[2],
		Meta:         meta,
		AircraftGUID: doc.AircraftGUID,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// NewMongoClient connects and pings the server.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}
