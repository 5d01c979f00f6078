package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// MongoStore keeps tiles and settings in two collections of one database.
type MongoStore struct {
	client   *mongo.Client
	tiles    *mongo.Collection
	settings *mongo.Collection
}

type tileDoc struct {
	ID       string `bson:"_id"`
	Data     string `bson:"data"`
	Position int64  `bson:"position"`
}

type settingDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// NewMongoStore connects to uri and uses the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if database == "" {
		database = "ztab"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, unavailable("connect mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, unavailable("connect mongo", err)
	}
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		tiles:    db.Collection("tiles"),
		settings: db.Collection("settings"),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc settingDoc
	err := s.settings.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get setting", err)
	}
	return []byte(doc.Value), true, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.settings.ReplaceOne(ctx, bson.M{"_id": key},
		settingDoc{Key: key, Value: string(value)},
		options.Replace().SetUpsert(true))
	return unavailable("set setting", err)
}

func (s *MongoStore) GetAll(ctx context.Context) ([]grid.Tile, error) {
	cur, err := s.tiles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, unavailable("list tiles", err)
	}
	var docs []tileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("list tiles", err)
	}
	tiles := make([]grid.Tile, 0, len(docs))
	for _, d := range docs {
		var t grid.Tile
		if err := json.Unmarshal([]byte(d.Data), &t); err != nil {
			return nil, fmt.Errorf("parse tile %q: %w", d.ID, err)
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}

func (s *MongoStore) Add(ctx context.Context, t grid.Tile) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.tiles.UpdateOne(ctx, bson.M{"_id": t.ID},
		bson.M{
			"$set":         bson.M{"data": string(data)},
			"$setOnInsert": bson.M{"position": time.Now().UnixNano()},
		},
		options.Update().SetUpsert(true))
	return unavailable("add tile", err)
}

func (s *MongoStore) Update(ctx context.Context, t grid.Tile) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	res, err := s.tiles.UpdateOne(ctx, bson.M{"_id": t.ID}, bson.M{"$set": bson.M{"data": string(data)}})
	if err != nil {
		return unavailable("update tile", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.tiles.DeleteOne(ctx, bson.M{"_id": id})
	return unavailable("delete tile", err)
}

// SaveAll replaces the tiles collection. It is not atomic across the
// delete and insert.
func (s *MongoStore) SaveAll(ctx context.Context, tiles []grid.Tile) error {
	if _, err := s.tiles.DeleteMany(ctx, bson.M{}); err != nil {
		return unavailable("save tiles", err)
	}
	if len(tiles) == 0 {
		return nil
	}
	tiles = dedupe(tiles)
	docs := make([]any, 0, len(tiles))
	for i, t := range tiles {
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		docs = append(docs, tileDoc{ID: t.ID, Data: string(data), Position: int64(i)})
	}
	_, err := s.tiles.InsertMany(ctx, docs)
	return unavailable("save tiles", err)
}

func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.tiles.DeleteMany(ctx, bson.M{}); err != nil {
		return unavailable("clear store", err)
	}
	_, err := s.settings.DeleteMany(ctx, bson.M{})
	return unavailable("clear store", err)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
