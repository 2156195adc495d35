package assistant

import (
	"context"
	"fmt"

	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/resolve"
)

// WantedSet builds the lookup set MarkItems matches against.
func WantedSet(items []string) map[string]struct{} {
	wanted := make(map[string]struct{}, len(items))
	for _, it := range items {
		wanted[resolve.NormalizeName(it)] = struct{}{}
	}
	return wanted
}

// MarkItems completes every incomplete item, on any of the card's checklists,
// whose name is in wanted. Unlike name resolution it does not stop at the
// first match. It returns the original names of the items it changed; on
// error the names marked so far are returned alongside it.
func MarkItems(ctx context.Context, api CheckItemUpdater, cardID string, checklists []domain.Checklist, wanted map[string]struct{}) ([]string, error) {
	marked := []string{}
	for _, cl := range checklists {
		for _, item := range cl.CheckItems {
			if item.IsComplete() {
				continue
			}
			if _, ok := wanted[resolve.NormalizeName(item.Name)]; !ok {
				continue
			}
			if err := api.SetCheckItemState(ctx, cardID, item.ID, domain.CheckItemComplete); err != nil {
				return marked, fmt.Errorf("marking %q complete: %w", item.Name, err)
			}
			marked = append(marked, item.Name)
		}
	}
	return marked, nil
}
