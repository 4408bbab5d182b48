package gateway

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/opencodetools/opencode-gateway/internal/openaiadapter/types"
	"github.com/opencodetools/opencode-gateway/internal/opencode"
)

// modelsHandler lists the backend's providers as OpenAI model objects.
// Each model is exposed as "<providerID>/<modelID>" owned by its provider.
// The listing is sorted so repeated calls produce identical output.
func modelsHandler(client *opencode.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		providers, err := client.ListProviders(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to list providers", "error", err)
			writeJSONOpenAIError(ctx, w, types.NewErrorResponse(err.Error(), types.ErrorTypeServer))
			return
		}

		list := types.ModelList{Object: "list", Data: []types.Model{}}
		for _, provider := range providers.Data.All {
			for modelID := range provider.Models {
				list.Data = append(list.Data, types.Model{
					ID:      provider.ID + "/" + modelID,
					Object:  "model",
					OwnedBy: provider.ID,
				})
			}
		}
		sort.Slice(list.Data, func(i, j int) bool { return list.Data[i].ID < list.Data[j].ID })

		writeJSON(ctx, w, list, http.StatusOK)
	}
}
