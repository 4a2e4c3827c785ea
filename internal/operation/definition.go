package operation

import (
	"encoding/json"
	"fmt"

	"github.com/commitfit/internal/render"
	"github.com/commitfit/pkg/models"
)

// DecodeFunc turns a parsed backend payload into a fragment, or an
// ApplicationError when the backend reported failure.
type DecodeFunc func(ref models.RepoRef, payload json.RawMessage) (render.Fragment, error)

// Definition is the fixed part of an operation: where it goes, what it says,
// and how its result is shown.
type Definition struct {
	Kind        models.OperationKind
	Endpoint    string
	RequireRepo bool
	Processing  string
	Completed   string
	Decode      DecodeFunc
}

const validationMessage = "Please enter repository owner and name first."

// Gather collects commit data. It has no local owner/repo guard: the
// backend is left to reject empty names.
func Gather(endpoint string) Definition {
	return Definition{
		Kind:       models.OperationGather,
		Endpoint:   endpoint,
		Processing: "Processing... This may take a few minutes.",
		Completed:  "Commit data gathered successfully!",
		Decode:     decodeGather,
	}
}

// BassModel fits the Bass diffusion model.
func BassModel(endpoint string) Definition {
	return Definition{
		Kind:        models.OperationFitBass,
		Endpoint:    endpoint,
		RequireRepo: true,
		Processing:  "Fitting Bass Model... This may take a few minutes.",
		Completed:   "Bass Model Fitting Completed!",
		Decode:      decodeModelFit("Bass Model Visualizations"),
	}
}

// InnovationModel fits the innovation/growth model.
func InnovationModel(endpoint string) Definition {
	return Definition{
		Kind:        models.OperationFitInnovation,
		Endpoint:    endpoint,
		RequireRepo: true,
		Processing:  "Fitting Growth Model... This may take a few minutes.",
		Completed:   "Growth Model Fitting Completed!",
		Decode:      decodeModelFit("Growth Visualizations"),
	}
}

// Definitions returns the three console operations using endpoint to look up paths.
func Definitions(endpoint func(models.OperationKind) string) []Definition {
	return []Definition{
		Gather(endpoint(models.OperationGather)),
		BassModel(endpoint(models.OperationFitBass)),
		InnovationModel(endpoint(models.OperationFitInnovation)),
	}
}

func decodeGather(ref models.RepoRef, payload json.RawMessage) (render.Fragment, error) {
	var result models.GatherResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return render.Fragment{}, ApplicationError{Message: fmt.Sprintf("unexpected response: %v", err)}
	}
	if !result.Success {
		return render.Fragment{}, newApplicationError(result.Error)
	}
	return render.Gather(ref), nil
}

func decodeModelFit(title string) DecodeFunc {
	return func(_ models.RepoRef, payload json.RawMessage) (render.Fragment, error) {
		var result models.ModelFitResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return render.Fragment{}, ApplicationError{Message: fmt.Sprintf("unexpected response: %v", err)}
		}
		if !result.Success {
			return render.Fragment{}, newApplicationError(result.Error)
		}
		return render.ModelFit(title, result.Output, result.Images), nil
	}
}
