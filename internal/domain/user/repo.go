package user

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(uid)
}

func (r *Repo) Get(ctx context.Context, uid string) (*Profile, error) {
	doc, err := r.doc(uid).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	var p Profile
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if p.UID == "" {
		p.UID = uid
	}
	return &p, nil
}

// UpsertMinimal seeds the user document on first authenticated request.
func (r *Repo) UpsertMinimal(ctx context.Context, uid, email string) error {
	_, err := r.doc(uid).Set(ctx, map[string]interface{}{
		"uid":       uid,
		"email":     email,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	return err
}

func (r *Repo) Update(ctx context.Context, uid string, updates map[string]interface{}) error {
	if _, err := r.doc(uid).Set(ctx, updates, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Search finds members by folded name/email token prefix.
func (r *Repo) Search(ctx context.Context, token string, limit int) ([]Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	iter := r.client.Collection("users").
		Where("searchTokens", "array-contains", token).
		Limit(limit).
		Documents(ctx)
	return collectProfiles(iter)
}

func (r *Repo) List(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	iter := r.client.Collection("users").OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	return collectProfiles(iter)
}

// DeleteCascade removes the user document with its payments, awards,
// attendance and exams subcollections. Subcollection docs go in batches of
// up to 500, the Firestore batch limit.
func (r *Repo) DeleteCascade(ctx context.Context, uid string) error {
	for _, sub := range []string{"payments", "awards", "attendance", "exams"} {
		if err := r.deleteCollection(ctx, r.doc(uid).Collection(sub)); err != nil {
			return fmt.Errorf("failed to delete %s of %s: %w", sub, uid, err)
		}
	}
	if _, err := r.doc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user doc: %w", err)
	}
	return nil
}

func (r *Repo) deleteCollection(ctx context.Context, col *firestore.CollectionRef) error {
	for {
		iter := col.Limit(500).Documents(ctx)
		batch := r.client.Batch()
		n := 0
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return err
			}
			batch.Delete(doc.Ref)
			n++
		}
		if n == 0 {
			return nil
		}
		if _, err := batch.Commit(ctx); err != nil {
			return err
		}
	}
}

func collectProfiles(iter *firestore.DocumentIterator) ([]Profile, error) {
	var out []Profile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		var p Profile
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		if p.UID == "" {
			p.UID = doc.Ref.ID
		}
		out = append(out, p)
	}
	return out, nil
}
