package persistence

import (
	"context"
	"fmt"
	"slices"
)

// CopyResult reports what CopyDocuments did
type CopyResult struct {
	Copied  []string
	Skipped []string
}

// CopyDocuments copies every document of src into dst. Documents that
// already exist in dst are skipped unless overwrite is set. The bytes are
// copied unchanged, so legacy shapes survive a backend switch.
func CopyDocuments(ctx context.Context, src, dst DocumentStore, overwrite bool) (CopyResult, error) {
	var result CopyResult

	names, err := src.Names(ctx)
	if err != nil {
		return result, fmt.Errorf("list %s documents: %w", src.Driver(), err)
	}
	existing, err := dst.Names(ctx)
	if err != nil {
		return result, fmt.Errorf("list %s documents: %w", dst.Driver(), err)
	}

	for _, name := range names {
		if !overwrite && slices.Contains(existing, name) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		data, err := src.Load(ctx, name)
		if err != nil {
			return result, fmt.Errorf("load %s: %w", name, err)
		}
		if err := dst.Save(ctx, name, data); err != nil {
			return result, fmt.Errorf("save %s: %w", name, err)
		}
		result.Copied = append(result.Copied, name)
	}
	return result, nil
}
