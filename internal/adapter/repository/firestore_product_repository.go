package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
)

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return wrapFirestoreErr("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, wrapFirestoreErr("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}
	product.ID = doc.Ref.ID

	return &product, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return wrapFirestoreErr("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Delete(ctx)
	if err != nil {
		return wrapFirestoreErr("Failed to delete product", err)
	}

	return nil
}

func (r *firestoreProductRepository) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").OrderBy("createdAt", firestore.Desc)
	return r.listPage(ctx, query, limit, offset)
}

func (r *firestoreProductRepository) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)
	return r.listPage(ctx, query, limit, offset)
}

// listPage fetches the full result and paginates in memory, same tradeoff as
// the chat listing: one query instead of a count plus a window query.
func (r *firestoreProductRepository) listPage(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Product, int64, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, wrapFirestoreErr("Failed to fetch products", err)
	}

	total := int64(len(docs))

	start := offset
	if start > len(docs) {
		start = len(docs)
	}
	end := len(docs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var products []*entity.Product
	for _, doc := range docs[start:end] {
		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			logger.Warn("Skipping malformed product %s: %v", doc.Ref.ID, err)
			continue
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}

	return products, total, nil
}
