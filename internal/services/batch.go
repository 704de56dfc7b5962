package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// fetchChunks runs fetch for every chunk with at most limit requests in flight and
// concatenates the results in chunk order. The first failure cancels the rest.
func fetchChunks[T any](ctx context.Context, limit int, chunks [][]string, fetch func(context.Context, []string) ([]T, error)) ([]T, error) {
	slots := make([][]T, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, chunk := range chunks {
		g.Go(func() error {
			items, err := fetch(gctx, chunk)
			if err != nil {
				return err
			}
			slots[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, slot := range slots {
		total += len(slot)
	}

	out := make([]T, 0, total)
	for _, slot := range slots {
		out = append(out, slot...)
	}
	return out, nil
}

// FetchAll walks a paginated endpoint, following each page's "next" link until it is null,
// and returns the raw entries found under itemsKey across all pages.
func (s *SpotifyService) FetchAll(ctx context.Context, endpoint, itemsKey string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	seen := map[string]bool{}

	for next := endpoint; next != ""; {
		if seen[next] {
			break
		}
		seen[next] = true

		var page map[string]json.RawMessage
		if err := s.doRequest(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}

		if raw, ok := page[itemsKey]; ok && !isNull(raw) {
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("failed to decode %q page items: %w", itemsKey, err)
			}
			all = append(all, items...)
		}

		next = ""
		if raw, ok := page["next"]; ok && !isNull(raw) {
			if err := json.Unmarshal(raw, &next); err != nil {
				return nil, fmt.Errorf("failed to decode next link: %w", err)
			}
		}
	}

	return all, nil
}

// fetchAllAs is [SpotifyService.FetchAll] decoding every entry into T.
func fetchAllAs[T any](ctx context.Context, s *SpotifyService, endpoint, itemsKey string) ([]T, error) {
	raw, err := s.FetchAll(ctx, endpoint, itemsKey)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
