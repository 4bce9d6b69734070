package service

import (
	"Memoria/internal/model"
	"Memoria/internal/repository"
	"context"
	log "log/slog"
)

type sequenceSource struct {
	name       string
	collection string
	field      string
}

var sequenceSources = []sequenceSource{
	{name: model.SeqGroup, collection: repository.GroupCollection, field: "group_id"},
	{name: model.SeqPost, collection: repository.PostCollection, field: "post_id"},
	{name: model.SeqComment, collection: repository.CommentCollection, field: "comment_id"},
}

// SeedCounters 启动时把计数器抬到各集合现有的最大编号，新编号从最大值加一开始
func SeedCounters(ctx context.Context, counterRepo repository.CounterRepo) error {
	for _, src := range sequenceSources {
		maxID, err := counterRepo.SeedFromMax(ctx, src.name, src.collection, src.field)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "counter seeded", "name", src.name, "max", maxID)
	}
	return nil
}
