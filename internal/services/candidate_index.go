package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/config"
	"hireflow/ats-platform/internal/models"
)

// CandidateIndex stores one embedding per analyzed resume for similarity search.
type CandidateIndex interface {
	InitCollection(ctx context.Context) error
	Upsert(ctx context.Context, resume *models.Resume, vector []float32) error
	Search(ctx context.Context, orgID uuid.UUID, vector []float32, limit int) ([]CandidateHit, error)
	Delete(ctx context.Context, resumeID uuid.UUID) error
}

type CandidateHit struct {
	ResumeID uuid.UUID
	Name     string
	Score    float32
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewCandidateIndex(cfg config.QdrantConfig, log *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: cfg.Collection,
		vectorSize:     cfg.VectorSize,
		log:            log.Named("candidate_index"),
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *qdrantIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("✅ Collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("✅ Qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// Upsert implements CandidateIndex. The point id is the resume id, so
// re-indexing a resume replaces its vector.
func (q *qdrantIndex) Upsert(ctx context.Context, resume *models.Resume, vector []float32) error {
	analysis := resume.AIAnalysis.Data()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(resume.ID.String()),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"resume_id":       resume.ID.String(),
			"organization_id": resume.OrganizationID.String(),
			"name":            resume.CandidateInfo.Data().Name,
			"career_level":    string(analysis.CareerLevel),
			"experience":      analysis.ExperienceYears,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

// Search implements CandidateIndex. Results never cross organizations.
func (q *qdrantIndex) Search(ctx context.Context, orgID uuid.UUID, vector []float32, limit int) ([]CandidateHit, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("organization_id", orgID.String()),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]CandidateHit, 0, len(points))
	for _, point := range points {
		hit := CandidateHit{Score: point.Score}

		if v, ok := point.Payload["resume_id"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				hit.ResumeID, err = uuid.Parse(s.StringValue)
				if err != nil {
					continue
				}
			}
		}
		if v, ok := point.Payload["name"]; ok {
			if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				hit.Name = s.StringValue
			}
		}

		if hit.ResumeID != uuid.Nil {
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// Delete implements CandidateIndex.
func (q *qdrantIndex) Delete(ctx context.Context, resumeID uuid.UUID) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("resume_id", resumeID.String()),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}
	return nil
}
