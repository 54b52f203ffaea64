package in

import (
	"context"
	"strings"

	catalogdto "stillness/internal/modules/catalog/dto"
	catalogin "stillness/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, category string) ([]catalogdto.MeditationOutput, error) {
	return h.usecase.List(ctx, category)
}

// ListTagged narrows List to meditations carrying tag. An empty tag matches
// everything.
func (h CLIHandler) ListTagged(ctx context.Context, category, tag string) ([]catalogdto.MeditationOutput, error) {
	items, err := h.usecase.List(ctx, category)
	if err != nil {
		return nil, err
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return items, nil
	}
	out := make([]catalogdto.MeditationOutput, 0, len(items))
	for _, m := range items {
		for _, t := range m.Tags {
			if t == tag {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (h CLIHandler) Show(ctx context.Context, id string) (catalogdto.MeditationOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Add(ctx context.Context, input catalogdto.CreateInput) (catalogdto.MeditationOutput, error) {
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) Edit(ctx context.Context, input catalogdto.UpdateInput) (catalogdto.MeditationOutput, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Remove(ctx context.Context, id string) (catalogdto.MeditationOutput, error) {
	return h.usecase.Delete(ctx, id)
}

// Titles maps meditation ids to display titles for stats output.
func (h CLIHandler) Titles(ctx context.Context) map[string]string {
	items, err := h.usecase.List(ctx, "")
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(items))
	for _, m := range items {
		out[m.ID] = m.Title
	}
	return out
}
