package awards

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

func (r *Repo) catalogCol() *firestore.CollectionRef {
	return r.client.Collection("awards")
}

func (r *Repo) userAwardsCol(uid string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection("awards")
}

// ===== catalog =====

func (r *Repo) CreateCatalog(ctx context.Context, a Award) (*Award, error) {
	ref, _, err := r.catalogCol().Add(ctx, map[string]interface{}{
		"name":      a.Name,
		"value":     a.Value,
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create award: %w", err)
	}
	a.ID = ref.ID
	return &a, nil
}

func (r *Repo) GetCatalog(ctx context.Context, id string) (*Award, error) {
	doc, err := r.catalogCol().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: award not found", ErrNotFound)
	}
	var a Award
	if err := doc.DataTo(&a); err != nil {
		return nil, fmt.Errorf("failed to decode award: %w", err)
	}
	a.ID = doc.Ref.ID
	return &a, nil
}

func (r *Repo) ListCatalog(ctx context.Context) ([]Award, error) {
	iter := r.catalogCol().OrderBy("createdAt", firestore.Asc).Documents(ctx)
	var out []Award
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list awards: %w", err)
		}
		var a Award
		if err := doc.DataTo(&a); err != nil {
			continue
		}
		a.ID = doc.Ref.ID
		out = append(out, a)
	}
	return out, nil
}

// ===== user awards =====

func (r *Repo) Grant(ctx context.Context, uid string, ua UserAward) (*UserAward, error) {
	ref, _, err := r.userAwardsCol(uid).Add(ctx, map[string]interface{}{
		"awardId":   ua.AwardID,
		"name":      ua.Name,
		"value":     ua.Value,
		"usedValue": ua.UsedValue,
		"residuo":   ua.Residuo,
		"used":      ua.Used,
		"grantedBy": ua.GrantedBy,
		"createdAt": ua.CreatedAt,
		"updatedAt": ua.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant award: %w", err)
	}
	ua.ID = ref.ID
	return &ua, nil
}

func (r *Repo) Get(ctx context.Context, uid, id string) (*UserAward, error) {
	doc, err := r.userAwardsCol(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: user award not found", ErrNotFound)
	}
	return decodeUserAward(doc)
}

func (r *Repo) List(ctx context.Context, uid string) ([]UserAward, error) {
	// Listing order matters: PlanApply consumes oldest grants first.
	iter := r.userAwardsCol(uid).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	var out []UserAward
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list user awards: %w", err)
		}
		ua, err := decodeUserAward(doc)
		if err != nil {
			continue
		}
		out = append(out, *ua)
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, uid, id string) error {
	if _, err := r.userAwardsCol(uid).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user award: %w", err)
	}
	return nil
}

// ===== transactional ledger access =====
//
// Bonus application and refund are read-modify-write sequences on award
// residuals. They run inside a Firestore transaction together with the
// payment and user documents so two concurrent purchases cannot double-spend
// the same residual.

// ListTx reads all award instances of a user inside tx, in grant order.
// Firestore requires every transactional read to happen before the writes.
func (r *Repo) ListTx(tx *firestore.Transaction, uid string) ([]UserAward, error) {
	iter := tx.Documents(r.userAwardsCol(uid).OrderBy("createdAt", firestore.Asc))
	var out []UserAward
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read user awards: %w", err)
		}
		ua, err := decodeUserAward(doc)
		if err != nil {
			continue
		}
		out = append(out, *ua)
	}
	return out, nil
}

// GetManyTx reads specific award instances inside tx.
func (r *Repo) GetManyTx(tx *firestore.Transaction, uid string, ids []string) (map[string]UserAward, error) {
	out := make(map[string]UserAward, len(ids))
	for _, id := range ids {
		doc, err := tx.Get(r.userAwardsCol(uid).Doc(id))
		if err != nil {
			return nil, fmt.Errorf("%w: user award %s not found", ErrNotFound, id)
		}
		ua, err := decodeUserAward(doc)
		if err != nil {
			return nil, err
		}
		out[id] = *ua
	}
	return out, nil
}

// ApplyTx writes the consumption increments computed by PlanApply. The
// entries in loaded must have been read through GetManyTx/ListTx in the
// same transaction.
func (r *Repo) ApplyTx(tx *firestore.Transaction, uid string, loaded map[string]UserAward, cons []Consumption, now time.Time) error {
	for _, c := range cons {
		ua, ok := loaded[c.UserAwardID]
		if !ok {
			return fmt.Errorf("%w: user award %s not loaded", ErrNotFound, c.UserAwardID)
		}
		if Residuo(ua.Value, ua.UsedValue) < c.Amount {
			return fmt.Errorf("%w: residual of %s changed underneath", ErrSpent, c.UserAwardID)
		}
		updated := Apply(ua, c.Amount, now)
		if err := r.setTx(tx, uid, c.UserAwardID, updated); err != nil {
			return err
		}
	}
	return nil
}

// RefundTx reverses the recorded consumptions of a failed or cancelled
// payment.
func (r *Repo) RefundTx(tx *firestore.Transaction, uid string, loaded map[string]UserAward, cons []Consumption, now time.Time) error {
	for _, c := range cons {
		ua, ok := loaded[c.UserAwardID]
		if !ok {
			return fmt.Errorf("%w: user award %s not loaded", ErrNotFound, c.UserAwardID)
		}
		updated := Refund(ua, c.Amount, now)
		if err := r.setTx(tx, uid, c.UserAwardID, updated); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) setTx(tx *firestore.Transaction, uid, id string, ua UserAward) error {
	err := tx.Set(r.userAwardsCol(uid).Doc(id), map[string]interface{}{
		"usedValue": ua.UsedValue,
		"residuo":   ua.Residuo,
		"used":      ua.Used,
		"updatedAt": ua.UpdatedAt,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update user award: %w", err)
	}
	return nil
}

func decodeUserAward(doc *firestore.DocumentSnapshot) (*UserAward, error) {
	var ua UserAward
	if err := doc.DataTo(&ua); err != nil {
		return nil, fmt.Errorf("failed to decode user award: %w", err)
	}
	ua.ID = doc.Ref.ID
	// Older documents may miss residuo; derive it.
	if ua.Residuo == 0 && ua.Value > ua.UsedValue {
		ua.Residuo = Residuo(ua.Value, ua.UsedValue)
	}
	return &ua, nil
}
