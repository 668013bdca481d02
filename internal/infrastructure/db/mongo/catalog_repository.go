package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

const (
	collectionServices           = "catalog_services"
	collectionSampleDoctors      = "sample_doctors"
	collectionSampleRecords      = "sample_records"
	collectionSampleRequisitions = "sample_requisitions"
)

// CatalogRepository reads portal-owned content: the services page and the
// sample data served in degraded mode.
type CatalogRepository struct {
	db *mongo.Database
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Services(ctx context.Context) ([]domain.ClinicService, error) {
	var out []domain.ClinicService
	err := r.findAll(ctx, collectionServices, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}), &out)
	return out, err
}

func (r *CatalogRepository) SampleDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := r.findAll(ctx, collectionSampleDoctors, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}), &out)
	return out, err
}

func (r *CatalogRepository) SampleRecords(ctx context.Context) ([]domain.MedicalRecord, error) {
	var out []domain.MedicalRecord
	err := r.findAll(ctx, collectionSampleRecords, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}), &out)
	return out, err
}

func (r *CatalogRepository) SampleRequisitions(ctx context.Context) ([]domain.Requisition, error) {
	var out []domain.Requisition
	err := r.findAll(ctx, collectionSampleRequisitions, options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}}), &out)
	return out, err
}

func (r *CatalogRepository) findAll(ctx context.Context, collection string, opts *options.FindOptions, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
