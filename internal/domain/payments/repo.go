package payments

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

func (r *Repo) paymentsCol(uid string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(uid).Collection("payments")
}

func (r *Repo) userDoc(uid string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(uid)
}

func (r *Repo) Get(ctx context.Context, uid, id string) (*Payment, error) {
	doc, err := r.paymentsCol(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: payment not found", ErrNotFound)
	}
	return decodePayment(doc)
}

func (r *Repo) List(ctx context.Context, uid string, limit int) ([]Payment, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	iter := r.paymentsCol(uid).OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	var out []Payment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list payments: %w", err)
		}
		p, err := decodePayment(doc)
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// SubscriptionIDs returns the catalog ids of subscription payments that are
// still pending or completed; the selector skips offerings already owned.
func (r *Repo) SubscriptionIDs(ctx context.Context, uid string) ([]string, error) {
	iter := r.paymentsCol(uid).
		Where("type", "==", string(TypeSubscription)).
		Where("status", "in", []string{string(StatusPending), string(StatusCompleted)}).
		Documents(ctx)

	var ids []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list subscription payments: %w", err)
		}
		p, err := decodePayment(doc)
		if err != nil || p.Subscription == nil {
			continue
		}
		ids = append(ids, p.Subscription.SubscriptionID)
	}
	return ids, nil
}

// ===== transactional access =====

func (r *Repo) GetTx(tx *firestore.Transaction, uid, id string) (*Payment, error) {
	doc, err := tx.Get(r.paymentsCol(uid).Doc(id))
	if err != nil {
		return nil, fmt.Errorf("%w: payment not found", ErrNotFound)
	}
	return decodePayment(doc)
}

func (r *Repo) CreateTx(tx *firestore.Transaction, uid, id string, p Payment) error {
	data := map[string]interface{}{
		"uid":         p.UID,
		"amount":      p.Amount,
		"bonusUsed":   p.BonusUsed,
		"amountDue":   p.AmountDue,
		"description": p.Description,
		"method":      p.Method,
		"status":      string(p.Status),
		"type":        string(p.Type),
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
	if len(p.Consumptions) > 0 {
		data["bonusConsumptions"] = p.Consumptions
		ids := make([]string, 0, len(p.Consumptions))
		for _, c := range p.Consumptions {
			ids = append(ids, c.UserAwardID)
		}
		data["awardIds"] = ids
	}
	if p.Subscription != nil {
		data["subscription"] = p.Subscription
	}
	if err := tx.Create(r.paymentsCol(uid).Doc(id), data); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *Repo) UpdateTx(tx *firestore.Transaction, uid, id string, updates map[string]interface{}) error {
	if err := tx.Set(r.paymentsCol(uid).Doc(id), updates, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

// ApplyUserEffectsTx writes a transition's user-document field map. A nil
// value deletes the field.
func (r *Repo) ApplyUserEffectsTx(tx *firestore.Transaction, uid string, effects map[string]interface{}) error {
	data := make(map[string]interface{}, len(effects))
	for k, v := range effects {
		if v == nil {
			data[k] = firestore.Delete
			continue
		}
		data[k] = v
	}
	if err := tx.Set(r.userDoc(uid), data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}

func (r *Repo) RunTransaction(ctx context.Context, f func(ctx context.Context, tx *firestore.Transaction) error) error {
	return r.client.RunTransaction(ctx, f)
}

// SetCheckoutURL attaches the hosted checkout link after creation; the link
// comes from an external call that cannot run inside the transaction.
func (r *Repo) SetCheckoutURL(ctx context.Context, uid, id, url string) error {
	_, err := r.paymentsCol(uid).Doc(id).Set(ctx, map[string]interface{}{
		"checkoutUrl": url,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to save checkout url: %w", err)
	}
	return nil
}

func decodePayment(doc *firestore.DocumentSnapshot) (*Payment, error) {
	var p Payment
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode payment: %w", err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}
