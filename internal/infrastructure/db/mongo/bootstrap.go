package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultDatabase is the application database the bootstrap targets.
const DefaultDatabase = "miAppDB"

const (
	CollectionReviews = "resenas"
	CollectionPhotos  = "fotos"
)

// codeNamespaceExists is returned by create on an existing collection.
const codeNamespaceExists = 48

// CollectionSpec is a collection and the fields that get a single-field
// ascending index.
type CollectionSpec struct {
	Name          string
	IndexedFields []string
}

// BootstrapPlan lists what Bootstrap creates, in order.
func BootstrapPlan() []CollectionSpec {
	return []CollectionSpec{
		{Name: CollectionReviews, IndexedFields: []string{"id_usuario", "id_producto"}},
		{Name: CollectionPhotos, IndexedFields: []string{"id_usuario"}},
	}
}

// BootstrapResult reports what a Bootstrap run did.
type BootstrapResult struct {
	Created []string
	Existed []string
	// Indexes holds "<collection>.<index name>" for every ensured index.
	Indexes []string
}

// Bootstrap creates the review and photo collections and their indexes.
// Running it again against a prepared database succeeds and changes nothing.
func Bootstrap(ctx context.Context, db *mongo.Database, log zerolog.Logger) (*BootstrapResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res := &BootstrapResult{}
	for _, spec := range BootstrapPlan() {
		err := db.CreateCollection(ctx, spec.Name)
		switch {
		case err == nil:
			res.Created = append(res.Created, spec.Name)
			log.Info().Str("collection", spec.Name).Msg("collection created")
		case isNamespaceExists(err):
			res.Existed = append(res.Existed, spec.Name)
			log.Info().Str("collection", spec.Name).Msg("collection already exists")
		default:
			return res, fmt.Errorf("bootstrap: create collection %s: %w", spec.Name, err)
		}

		names, err := db.Collection(spec.Name).Indexes().CreateMany(ctx, indexModels(spec))
		if err != nil {
			return res, fmt.Errorf("bootstrap: create indexes on %s: %w", spec.Name, err)
		}
		for _, n := range names {
			res.Indexes = append(res.Indexes, spec.Name+"."+n)
		}
	}

	log.Info().
		Str("database", db.Name()).
		Strs("indexes", res.Indexes).
		Msgf("collections '%s' and '%s' and indexes created in '%s'", CollectionReviews, CollectionPhotos, db.Name())
	return res, nil
}

func indexModels(spec CollectionSpec) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(spec.IndexedFields))
	for _, f := range spec.IndexedFields {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}})
	}
	return models
}

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == codeNamespaceExists
}
