package subscriptions

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.client.Collection("subscriptions")
}

func (r *Repo) Create(ctx context.Context, o Offering) (*Offering, error) {
	ref, _, err := r.col().Add(ctx, map[string]interface{}{
		"name":         o.Name,
		"type":         o.Type,
		"price":        o.Price,
		"purchaseFrom": o.PurchaseFrom,
		"purchaseTo":   o.PurchaseTo,
		"validFrom":    o.ValidFrom,
		"validTo":      o.ValidTo,
		"createdAt":    o.CreatedAt,
		"updatedAt":    o.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	o.ID = ref.ID
	return &o, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Offering, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: subscription not found", ErrNotFound)
	}
	var o Offering
	if err := doc.DataTo(&o); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}
	o.ID = doc.Ref.ID
	return &o, nil
}

func (r *Repo) List(ctx context.Context) ([]Offering, error) {
	iter := r.col().OrderBy("validFrom", firestore.Asc).Documents(ctx)
	var out []Offering
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}
		var o Offering
		if err := doc.DataTo(&o); err != nil {
			continue
		}
		o.ID = doc.Ref.ID
		out = append(out, o)
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, id string, updates map[string]interface{}) (*Offering, error) {
	if _, err := r.col().Doc(id).Set(ctx, updates, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}
