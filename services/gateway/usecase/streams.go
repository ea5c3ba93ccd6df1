package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// ListStreams lists all streams visible on the broker
func (uc *GatewayUC) ListStreams(ctx context.Context) ([]*models.StreamInfo, error) {
	streams, err := uc.gw.ListStreams(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(streams, func(i, j int) bool { return streams[i].Name < streams[j].Name })
	return streams, nil
}

// GetStreamInfo returns configuration and state for one stream
func (uc *GatewayUC) GetStreamInfo(ctx context.Context, name string) (*models.StreamInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("stream is required: %w", gateway.ErrBadRequest)
	}
	return uc.gw.GetStreamInfo(ctx, name)
}

// StreamSubjects reports the per-subject message distribution of a stream
func (uc *GatewayUC) StreamSubjects(ctx context.Context, name string) (*models.SubjectDistribution, error) {
	info, err := uc.GetStreamInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	counts, err := uc.gw.StreamSubjects(ctx, name)
	if err != nil {
		return nil, err
	}

	var total uint64
	for _, n := range counts {
		total += n
	}
	return &models.SubjectDistribution{
		Stream:   name,
		Patterns: info.Subjects,
		Subjects: counts,
		Total:    total,
	}, nil
}
