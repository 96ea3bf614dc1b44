package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
)

type duplicatePairRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDuplicatePairRepository(client *firestore.Client) *duplicatePairRepository {
	return &duplicatePairRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *duplicatePairRepository) pairsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_duplicate_pairs"
	}
	return "duplicate_pairs"
}

// pairDocID derives the document ID from the ordered case combination.
// Uniqueness of the combination rides on document ID uniqueness, so a
// racing second writer fails with AlreadyExists instead of overwriting.
func pairDocID(firstCaseID, secondCaseID int64) string {
	return fmt.Sprintf("%d_%d", firstCaseID, secondCaseID)
}

func (r *duplicatePairRepository) Create(ctx context.Context, pair *model.DuplicatePair) (*model.DuplicatePair, error) {
	if pair.FirstCaseID == pair.SecondCaseID {
		return nil, goerr.New("pair must reference two distinct cases", goerr.V(model.FirstCaseIDKey, pair.FirstCaseID))
	}

	created := &model.DuplicatePair{
		ID:              pair.ID,
		FirstCaseID:     pair.FirstCaseID,
		SecondCaseID:    pair.SecondCaseID,
		SimilarityScore: pair.SimilarityScore,
		Status:          pair.Status,
		DetectedBy:      pair.DetectedBy,
		DetectedAt:      time.Now().UTC(),
	}
	if created.ID == "" {
		created.ID = model.NewPairID()
	}
	if created.Status == "" {
		created.Status = types.PairStatusPending
	}

	docID := pairDocID(created.FirstCaseID, created.SecondCaseID)
	_, err := r.client.Collection(r.pairsCollection()).Doc(docID).Create(ctx, created)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(model.ErrPairAlreadyExists, "pair already registered",
				goerr.V(model.FirstCaseIDKey, created.FirstCaseID),
				goerr.V(model.SecondCaseIDKey, created.SecondCaseID))
		}
		return nil, goerr.Wrap(err, "failed to create pair", goerr.V("doc_id", docID))
	}

	return created, nil
}

func (r *duplicatePairRepository) docRefByID(ctx context.Context, id model.PairID) (*firestore.DocumentRef, error) {
	iter := r.client.Collection(r.pairsCollection()).
		Where("ID", "==", id.String()).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "pair not found", goerr.V(model.PairIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query pair", goerr.V(model.PairIDKey, id))
	}

	return docSnap.Ref, nil
}

func (r *duplicatePairRepository) Get(ctx context.Context, id model.PairID) (*model.DuplicatePair, error) {
	iter := r.client.Collection(r.pairsCollection()).
		Where("ID", "==", id.String()).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "pair not found", goerr.V(model.PairIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query pair", goerr.V(model.PairIDKey, id))
	}

	var p model.DuplicatePair
	if err := docSnap.DataTo(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to decode pair", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &p, nil
}

func (r *duplicatePairRepository) Exists(ctx context.Context, firstCaseID, secondCaseID int64) (bool, error) {
	docID := pairDocID(firstCaseID, secondCaseID)
	_, err := r.client.Collection(r.pairsCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to check pair existence", goerr.V("doc_id", docID))
	}

	return true, nil
}

func (r *duplicatePairRepository) List(ctx context.Context, opts ...interfaces.ListPairOption) ([]*model.DuplicatePair, error) {
	cfg := interfaces.BuildListPairConfig(opts...)

	query := r.client.Collection(r.pairsCollection()).Query
	if cfg.Status() != nil {
		query = query.Where("Status", "==", cfg.Status().String())
	}
	query = query.OrderBy("SimilarityScore", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	pairs := make([]*model.DuplicatePair, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate pairs")
		}

		var p model.DuplicatePair
		if err := docSnap.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to decode pair", goerr.V("doc_id", docSnap.Ref.ID))
		}

		pairs = append(pairs, &p)
	}

	return pairs, nil
}

func (r *duplicatePairRepository) UpdateResolution(ctx context.Context, id model.PairID, res model.PairResolution) (*model.DuplicatePair, error) {
	if !res.Status.IsTerminal() {
		return nil, goerr.New("resolution status must be terminal", goerr.V("status", res.Status))
	}

	docRef, err := r.docRefByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated model.DuplicatePair
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "pair not found", goerr.V(model.PairIDKey, id))
			}
			return goerr.Wrap(err, "failed to get pair in transaction")
		}

		var current model.DuplicatePair
		if err := docSnap.DataTo(&current); err != nil {
			return goerr.Wrap(err, "failed to decode pair", goerr.V("doc_id", docSnap.Ref.ID))
		}

		// the transaction serializes racing resolutions; losers see a
		// non-pending status here
		if !current.Status.CanTransitionTo(res.Status) {
			return goerr.Wrap(model.ErrPairNotPending, "pair already resolved",
				goerr.V(model.PairIDKey, id),
				goerr.V("status", current.Status))
		}

		now := time.Now().UTC()
		updated = current
		updated.Status = res.Status
		updated.ResolvedBy = res.By
		updated.ResolvedAt = &now
		updated.ResolutionNotes = res.Notes

		return tx.Set(docRef, &updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *duplicatePairRepository) CountByStatus(ctx context.Context) (map[types.PairStatus]int64, error) {
	counts := make(map[types.PairStatus]int64, len(types.AllPairStatuses()))

	for _, pairStatus := range types.AllPairStatuses() {
		query := r.client.Collection(r.pairsCollection()).
			Where("Status", "==", pairStatus.String())

		result, err := query.NewAggregationQuery().WithCount("count").Get(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to count pairs", goerr.V("status", pairStatus))
		}

		value, ok := result["count"]
		if !ok {
			return nil, goerr.New("count aggregation missing from result", goerr.V("status", pairStatus))
		}

		countValue, ok := value.(*firestorepb.Value)
		if !ok {
			return nil, goerr.New("unexpected count aggregation type", goerr.V("status", pairStatus))
		}

		counts[pairStatus] = countValue.GetIntegerValue()
	}

	return counts, nil
}
